package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joseph-ayodele/resume-tracker/internal/async"
	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/repository"
	"github.com/joseph-ayodele/resume-tracker/internal/utils"
)

// ScannedFile is one PDF found by ScanDirectory.
type ScannedFile struct {
	Path    string
	HashHex string
	Err     error
}

// ScanDirectory lists the PDFs under dir in lexical order with their sha256
// content hashes. Hidden files and directories are skipped. A file that
// cannot be hashed is returned with Err set.
func ScanDirectory(ctx context.Context, dir string, recursive bool) ([]ScannedFile, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: directory is required", common.ErrInvalidInput)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	var out []ScannedFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			out = append(out, ScannedFile{Path: path, Err: walkErr})
			return nil
		}
		if d.IsDir() {
			if path != root && (IsHidden(path) || !recursive) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsHidden(path) || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		h, err := utils.HashFile(path)
		out = append(out, ScannedFile{Path: path, HashHex: h, Err: err})
		return nil
	})
	if err != nil {
		return out, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// FSIngestor reads résumés from the local filesystem and queues the ones
// whose content has not been processed yet.
type FSIngestor struct {
	Jobs   repository.ExtractJobRepository
	Sink   Sink
	logger *slog.Logger
}

func NewFSIngestor(jobs repository.ExtractJobRepository, sink Sink, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{Jobs: jobs, Sink: sink, logger: logger}
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string, force bool) (IngestionResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return IngestionResult{SourcePath: path}, err
	}
	out := IngestionResult{SourcePath: abs}
	if !AllowedExt(filepath.Ext(abs)) {
		i.logger.Warn("ingest.unsupported", "path", abs)
		return out, fmt.Errorf("%w: unsupported extension %q", common.ErrInvalidInput, filepath.Ext(abs))
	}
	h, err := utils.HashFile(abs)
	if err != nil {
		i.logger.Error("ingest.hash.failed", "path", abs, "err", err)
		return out, common.DocumentError(abs, err)
	}
	return i.ingestHashed(ctx, abs, h, force)
}

func (i *FSIngestor) ingestHashed(ctx context.Context, path, hash string, force bool) (IngestionResult, error) {
	out := IngestionResult{SourcePath: path, HashHex: hash}

	if !force {
		prev, err := i.Jobs.FindSucceededByHash(ctx, hash)
		switch {
		case err == nil:
			if _, err := i.Jobs.Skip(ctx, path, hash); err != nil {
				return out, err
			}
			out.Deduplicated = true
			out.CandidateID = prev.CandidateID
			i.logger.Info("ingest.dedup", "path", path, "hash", hash, "previous_job", prev.ID)
			return out, nil
		case !errors.Is(err, common.ErrNotFound):
			return out, err
		}
	}

	job := async.Job{Path: path, ContentHash: hash, Force: force, SubmittedAt: time.Now().UTC()}
	if err := i.Sink.Enqueue(ctx, job); err != nil {
		return out, err
	}
	out.Queued = true
	return out, nil
}

// IngestDirectory scans root and ingests every PDF found. Per-file failures
// are reported in the results and do not stop the walk.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, recursive, force bool) ([]IngestionResult, DirStats, error) {
	files, err := ScanDirectory(ctx, root, recursive)
	var stats DirStats
	results := make([]IngestionResult, 0, len(files))
	for _, f := range files {
		stats.Scanned++
		if f.Err != nil {
			results = append(results, IngestionResult{SourcePath: f.Path, Err: f.Err.Error()})
			stats.Failed++
			continue
		}
		stats.Matched++
		r, ierr := i.ingestHashed(ctx, f.Path, f.HashHex, force)
		if ierr != nil {
			r.Err = ierr.Error()
			results = append(results, r)
			stats.Failed++
			continue
		}
		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
	}
	i.logger.Info("ingest.dir.done",
		"root", root,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return results, stats, err
}
