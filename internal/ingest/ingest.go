package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-tracker/internal/async"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string
	HashHex      string
	Deduplicated bool       // content already processed, nothing queued
	CandidateID  *uuid.UUID // set when deduplicated
	Queued       bool
	Err          string
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Sink receives the files that need processing. *async.ProcessorQueue
// satisfies it.
type Sink interface {
	Enqueue(ctx context.Context, job async.Job) error
}

// Ingestor is the behavior the daemon and the service depend on.
type Ingestor interface {
	// IngestPath a single PDF.
	IngestPath(ctx context.Context, path string, force bool) (IngestionResult, error)
	// IngestDirectory ingests all PDFs under root.
	IngestDirectory(ctx context.Context, root string, recursive, force bool) ([]IngestionResult, DirStats, error)
}
