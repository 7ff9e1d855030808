package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/pipeline"
)

func main() {
	var (
		forceOCR = flag.Bool("force-ocr", false, "OCR every page, ignoring native text")
		blocks   = flag.Bool("blocks", false, "print layout blocks instead of page text")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: runocr [flags] <resume.pdf>\n")
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
	if err := cfg.ValidatePipeline(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	lx, err := pipeline.LoadLexicon(cfg)
	if err != nil {
		logger.Error("failed to load lexicon", "error", err)
		os.Exit(2)
	}
	recon := pipeline.NewReconstructor(cfg, lx, logger, *forceOCR)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.DocTimeout)
	defer cancel()

	start := time.Now()
	doc, err := recon.Reconstruct(ctx, path)
	dur := time.Since(start)
	if err != nil {
		logger.Error("text extraction failed", "path", path, "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	ocrPages := 0
	for _, p := range doc.Pages {
		if p.OCR {
			ocrPages++
		}
		if *blocks {
			for _, b := range p.Blocks {
				fmt.Printf("[p%d x=%.0f y=%.0f] %s\n", p.Number, b.X0, b.Top, b.Text)
			}
		}
	}
	if !*blocks {
		fmt.Println(doc.Text())
	}

	logger.Info("text extraction OK",
		"path", path,
		"pages", len(doc.Pages),
		"ocr_pages", ocrPages,
		"bytes", len(doc.Text()),
		"duration_ms", dur.Milliseconds(),
	)
}
