package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/entity"
	"github.com/joseph-ayodele/resume-tracker/internal/repository"
	"github.com/joseph-ayodele/resume-tracker/internal/utils"
)

// RecordExtractor is satisfied by *Processor.
type RecordExtractor interface {
	Extract(ctx context.Context, path string) (*entity.Record, error)
}

// Tracker runs extraction under an extract job and stores the record.
type Tracker struct {
	logger     *slog.Logger
	extractor  RecordExtractor
	candidates repository.CandidateRepository
	jobs       repository.ExtractJobRepository
}

func NewTracker(
	extractor RecordExtractor,
	candidates repository.CandidateRepository,
	jobs repository.ExtractJobRepository,
	logger *slog.Logger,
) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		logger:     logger,
		extractor:  extractor,
		candidates: candidates,
		jobs:       jobs,
	}
}

// ProcessFile extracts the résumé at path and stores it as a candidate,
// returning the candidate ID. contentHash is computed from the file when
// empty. The job is finished as FAILED when any step fails.
func (t *Tracker) ProcessFile(ctx context.Context, path, contentHash string) (uuid.UUID, error) {
	if contentHash == "" {
		h, err := utils.HashFile(path)
		if err != nil {
			t.logger.Error("tracker.hash.failed", "path", path, "err", err)
			return uuid.Nil, common.DocumentError(path, err)
		}
		contentHash = h
	}

	job, err := t.jobs.Start(ctx, path, contentHash)
	if err != nil {
		return uuid.Nil, err
	}

	rec, err := t.extractor.Extract(ctx, path)
	if err != nil {
		t.finish(ctx, job.ID, nil, err)
		return uuid.Nil, err
	}

	c, err := t.candidates.Create(ctx, rec)
	if err != nil {
		t.logger.Error("tracker.store.failed", "job_id", job.ID, "path", path, "err", err)
		t.finish(ctx, job.ID, nil, err)
		return uuid.Nil, err
	}

	t.finish(ctx, job.ID, &c.ID, nil)
	t.logger.Info("tracker.process.ok", "job_id", job.ID, "candidate_id", c.ID, "path", path)
	return c.ID, nil
}

// finish records the job outcome even when ctx is already done.
func (t *Tracker) finish(ctx context.Context, jobID uuid.UUID, candidateID *uuid.UUID, jobErr error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := t.jobs.Finish(ctx, jobID, candidateID, jobErr); err != nil {
		t.logger.Error("tracker.finish.failed", "job_id", jobID, "err", err)
	}
}
