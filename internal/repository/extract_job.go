package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-tracker/constants"
	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/entity"
)

type ExtractJobRepository interface {
	Start(ctx context.Context, path, contentHash string) (*entity.ExtractJob, error)
	Finish(ctx context.Context, jobID uuid.UUID, candidateID *uuid.UUID, jobErr error) error
	Skip(ctx context.Context, path, contentHash string) (*entity.ExtractJob, error)
	FindSucceededByHash(ctx context.Context, contentHash string) (*entity.ExtractJob, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.ExtractJob, error)
}

type extractJobRepo struct {
	db  *DB
	log *slog.Logger
	now func() time.Time
}

func NewExtractJobRepository(db *DB, log *slog.Logger) ExtractJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &extractJobRepo{db: db, log: log, now: time.Now}
}

var extractJobColumns = []string{
	"id", "file_path", "content_hash", "candidate_id", "status", "error_message", "started_at", "finished_at",
}

// Start records a RUNNING job for the file.
func (r *extractJobRepo) Start(ctx context.Context, path, contentHash string) (*entity.ExtractJob, error) {
	job, err := r.insert(ctx, path, contentHash, constants.JobStatusRunning)
	if err != nil {
		r.log.Error("extract_job start failed", "path", path, "err", err)
		return nil, err
	}
	r.log.Info("extract_job started", "job_id", job.ID, "path", path)
	return job, nil
}

// Skip records a finished SKIPPED job, used when the content was already processed.
func (r *extractJobRepo) Skip(ctx context.Context, path, contentHash string) (*entity.ExtractJob, error) {
	job, err := r.insert(ctx, path, contentHash, constants.JobStatusSkipped)
	if err != nil {
		r.log.Error("extract_job skip failed", "path", path, "err", err)
		return nil, err
	}
	r.log.Info("extract_job skipped", "job_id", job.ID, "path", path, "content_hash", contentHash)
	return job, nil
}

func (r *extractJobRepo) insert(ctx context.Context, path, contentHash string, status constants.JobStatus) (*entity.ExtractJob, error) {
	now := r.now().UTC().Truncate(time.Microsecond)
	job := &entity.ExtractJob{
		ID:          uuid.New(),
		FilePath:    path,
		ContentHash: contentHash,
		Status:      string(status),
		StartedAt:   now,
	}
	if status != constants.JobStatusRunning {
		job.FinishedAt = &now
	}
	q, args := entsql.Dialect(r.db.Dialect()).Insert(ExtractJobsTable.Name).
		Columns(extractJobColumns...).
		Values(job.ID, job.FilePath, job.ContentHash, nil, job.Status, nil, job.StartedAt, job.FinishedAt).
		Query()
	if err := r.db.drv.Exec(ctx, q, args, nil); err != nil {
		return nil, fmt.Errorf("%w: insert extract job: %w", common.ErrDatabase, err)
	}
	return job, nil
}

// Finish marks the job SUCCEEDED, or FAILED when jobErr is not nil.
func (r *extractJobRepo) Finish(ctx context.Context, jobID uuid.UUID, candidateID *uuid.UUID, jobErr error) error {
	u := entsql.Dialect(r.db.Dialect()).Update(ExtractJobsTable.Name).
		Set("finished_at", r.now().UTC().Truncate(time.Microsecond)).
		Where(entsql.EQ("id", jobID))
	if jobErr != nil {
		u.Set("status", string(constants.JobStatusFailed)).Set("error_message", jobErr.Error())
	} else {
		u.Set("status", string(constants.JobStatusSucceeded)).SetNull("error_message")
	}
	if candidateID != nil {
		u.Set("candidate_id", *candidateID)
	}
	q, args := u.Query()

	var res sql.Result
	if err := r.db.drv.Exec(ctx, q, args, &res); err != nil {
		r.log.Error("extract_job finish failed", "job_id", jobID, "err", err)
		return fmt.Errorf("%w: finish extract job: %w", common.ErrDatabase, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: extract job %s", common.ErrNotFound, jobID)
	}
	if jobErr != nil {
		r.log.Warn("extract_job finished (FAILED)", "job_id", jobID, "error", jobErr)
		return nil
	}
	r.log.Info("extract_job finished (SUCCEEDED)", "job_id", jobID, "candidate_id", candidateID)
	return nil
}

// FindSucceededByHash returns the latest successful job over the same content.
func (r *extractJobRepo) FindSucceededByHash(ctx context.Context, contentHash string) (*entity.ExtractJob, error) {
	s := r.selectJobs().
		Where(entsql.And(
			entsql.EQ("content_hash", contentHash),
			entsql.EQ("status", string(constants.JobStatusSucceeded)),
		)).
		OrderBy(entsql.Desc("started_at")).
		Limit(1)
	jobs, err := r.list(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: no succeeded job for %s", common.ErrNotFound, contentHash)
	}
	return jobs[0], nil
}

func (r *extractJobRepo) ListRecent(ctx context.Context, limit int) ([]*entity.ExtractJob, error) {
	s := r.selectJobs().OrderBy(entsql.Desc("started_at"), entsql.Asc("id"))
	return r.list(ctx, paginate(s, limit, 0))
}

func (r *extractJobRepo) selectJobs() *entsql.Selector {
	return entsql.Dialect(r.db.Dialect()).
		Select(extractJobColumns...).
		From(entsql.Table(ExtractJobsTable.Name))
}

func (r *extractJobRepo) list(ctx context.Context, s *entsql.Selector) ([]*entity.ExtractJob, error) {
	q, args := s.Query()
	var out []*entity.ExtractJob
	err := query(ctx, r.db.drv, q, args, func(rows *entsql.Rows) error {
		var (
			j          entity.ExtractJob
			candidate  uuid.NullUUID
			errMessage sql.NullString
			finished   sql.NullTime
		)
		if err := rows.Scan(&j.ID, &j.FilePath, &j.ContentHash, &candidate, &j.Status, &errMessage, &j.StartedAt, &finished); err != nil {
			return err
		}
		if candidate.Valid {
			j.CandidateID = &candidate.UUID
		}
		j.ErrorMessage = nullString(errMessage)
		if finished.Valid {
			j.FinishedAt = &finished.Time
		}
		out = append(out, &j)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: load extract jobs: %w", common.ErrDatabase, err)
	}
	return out, nil
}
