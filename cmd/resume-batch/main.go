package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/entity"
	"github.com/joseph-ayodele/resume-tracker/internal/export"
	"github.com/joseph-ayodele/resume-tracker/internal/ingest"
	"github.com/joseph-ayodele/resume-tracker/internal/pipeline"
	repo "github.com/joseph-ayodele/resume-tracker/internal/repository"
	"github.com/joseph-ayodele/resume-tracker/internal/server"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inmem     = flag.Bool("inmem", false, "use an in-memory SQLite database")
		dir       = flag.String("dir", "", "directory of résumé PDFs (required)")
		out       = flag.String("out", "", "output XLSX file path (optional, defaults to <dir>/../candidates.xlsx)")
		workers   = flag.Int("workers", 0, "concurrent documents (default PIPELINE_WORKERS)")
		recursive = flag.Bool("recursive", true, "descend into subdirectories")
		force     = flag.Bool("force", false, "reprocess files whose content was already processed")
		noNER     = flag.Bool("no-ner", false, "skip the named-entity recognizer")
		city      = flag.String("city", "", "export only candidates from this city")
		minExp    = flag.Int("min-exp", 0, "export only candidates with at least this many years of experience")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "candidates.xlsx")
	}

	logger := common.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *inmem {
		cfg.Database = common.DatabaseConfig{Driver: repo.DriverSQLite}
	}
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver != repo.DriverSQLite {
		printError("Error: DB_URL is required unless --inmem is set\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := server.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		os.Exit(1)
	}
	defer server.CloseDB(db, logger)

	proc, err := pipeline.FromConfig(cfg, logger, pipeline.BuildOptions{NoNER: *noNER})
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(2)
	}
	candidates := repo.NewCandidateRepository(db, logger)
	jobs := repo.NewExtractJobRepository(db, logger)
	tracker := pipeline.NewTracker(proc, candidates, jobs, logger)

	files, err := ingest.ScanDirectory(ctx, *dir, *recursive)
	if err != nil {
		logger.Error("failed to scan directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("starting batch", "dir", *dir, "files", len(files), "workers", cfg.Pipeline.Workers)

	var processed, skipped, failures atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Pipeline.Workers)
	for _, f := range files {
		if f.Err != nil {
			logger.Error("failed to read file", "path", f.Path, "error", f.Err)
			failures.Add(1)
			continue
		}
		g.Go(func() error {
			if !*force {
				_, err := jobs.FindSucceededByHash(gctx, f.HashHex)
				if err == nil {
					if _, err := jobs.Skip(gctx, f.Path, f.HashHex); err != nil {
						return err
					}
					skipped.Add(1)
					return nil
				}
				if !errors.Is(err, common.ErrNotFound) {
					return err
				}
			}
			if _, err := tracker.ProcessFile(gctx, f.Path, f.HashHex); err != nil {
				// one bad résumé does not stop the batch
				logger.Error("failed to process file", "path", f.Path, "error", err)
				failures.Add(1)
				return nil
			}
			processed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("batch aborted", "error", err)
		os.Exit(1)
	}

	logger.Info("exporting to XLSX", "output", *out)
	filter := entity.CandidateFilter{City: *city, MinExperience: *minExp}
	xlsx, err := export.NewService(candidates, logger).ExportCandidatesXLSX(ctx, filter)
	if err != nil {
		logger.Error("failed to export candidates", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsx, 0o644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"files", len(files),
		"processed", processed.Load(),
		"skipped", skipped.Load(),
		"failures", failures.Load(),
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files found: %d\n", len(files))
	fmt.Printf("- Files processed: %d\n", processed.Load())
	fmt.Printf("- Already processed: %d\n", skipped.Load())
	fmt.Printf("- Failures: %d\n", failures.Load())
	fmt.Printf("- Output: %s\n", *out)
}
