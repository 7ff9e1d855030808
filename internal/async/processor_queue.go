package async

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// FileProcessor extracts and stores one file. *pipeline.Tracker satisfies it.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path, contentHash string) (uuid.UUID, error)
}

// Stats counts finished jobs.
type Stats struct {
	Succeeded int64
	Failed    int64
}

type ProcessorQueue struct {
	proc    FileProcessor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	// Enqueue holds the read lock while sending so Shutdown never closes
	// the channel under a pending send.
	mu     sync.RWMutex
	closed bool

	succeeded atomic.Int64
	failed    atomic.Int64
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewProcessorQueue(proc FileProcessor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 2,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)
				for job := range q.ch {
					q.run(workerID, job)
				}
				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) run(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			q.failed.Add(1)
			q.logger.Error("processing panicked", "worker_id", workerID, "path", job.Path, "panic", r)
		}
	}()

	id, err := q.proc.ProcessFile(ctx, job.Path, job.ContentHash)
	if err != nil {
		q.failed.Add(1)
		q.logger.Error("processing failed", "worker_id", workerID, "path", job.Path, "trace_id", job.TraceID, "error", err)
		return
	}
	q.succeeded.Add(1)
	q.logger.Info("processed file successfully",
		"worker_id", workerID,
		"path", job.Path,
		"candidate_id", id,
		"queued_for", time.Since(job.SubmittedAt),
	)
}

// Enqueue hands job to the workers. When the buffer is full it waits for
// room until ctx is done, then returns ErrQueueFull.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued file for processing", "path", job.Path, "force", job.Force)
		return nil
	default:
	}

	q.logger.Warn("queue full, applying backpressure", "path", job.Path)
	select {
	case q.ch <- job:
		q.logger.Info("queued file for processing", "path", job.Path, "force", job.Force)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %s: %w", ErrQueueFull, job.Path, ctx.Err())
	}
}

func (q *ProcessorQueue) Stats() Stats {
	return Stats{Succeeded: q.succeeded.Load(), Failed: q.failed.Load()}
}

// Shutdown stops accepting jobs and waits for the queued ones to finish or
// for ctx to be done.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete", "succeeded", q.succeeded.Load(), "failed", q.failed.Load())
	}
}
