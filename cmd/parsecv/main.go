package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/pipeline"
	repo "github.com/joseph-ayodele/resume-tracker/internal/repository"
	"github.com/joseph-ayodele/resume-tracker/internal/server"
)

func main() {
	var (
		persist  = flag.Bool("persist", false, "store the record in the configured database")
		forceOCR = flag.Bool("force-ocr", false, "OCR every page, ignoring native text")
		noNER    = flag.Bool("no-ner", false, "skip the named-entity recognizer")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: parsecv [flags] <resume.pdf>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	logger := common.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	cfg := common.LoadConfig()

	proc, err := pipeline.FromConfig(cfg, logger, pipeline.BuildOptions{ForceOCR: *forceOCR, NoNER: *noNER})
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.DocTimeout+time.Minute)
	defer cancel()

	var out any
	if *persist {
		out, err = extractAndStore(ctx, cfg, proc, path, logger)
	} else {
		out, err = proc.Extract(ctx, path)
	}
	if err != nil {
		logger.Error("extraction failed", "path", path, "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		logger.Error("encode output", "error", err)
		os.Exit(1)
	}
}

// extractAndStore runs the file through a tracker and returns the stored
// candidate.
func extractAndStore(ctx context.Context, cfg *common.Config, proc *pipeline.Processor, path string, logger *slog.Logger) (any, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := server.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	defer server.CloseDB(db, logger)

	candidates := repo.NewCandidateRepository(db, logger)
	tracker := pipeline.NewTracker(proc, candidates, repo.NewExtractJobRepository(db, logger), logger)
	id, err := tracker.ProcessFile(ctx, path, "")
	if err != nil {
		return nil, err
	}
	return candidates.GetByID(ctx, id)
}
