package async

import (
	"context"
	"errors"
	"time"
)

var (
	ErrQueueFull   = errors.New("queue full")
	ErrQueueClosed = errors.New("queue closed")
)

// Job is one file waiting for extraction.
type Job struct {
	Path        string
	ContentHash string // empty: computed by the processor
	Force       bool   // enqueued even if the content was already processed
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
