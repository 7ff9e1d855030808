package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Tesseract recognizes images with the tesseract CLI.
type Tesseract struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// NewTesseract returns a tesseract-backed Recognizer. A nil runner executes the
// real binary.
func NewTesseract(cfg Config, runner Runner, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = execRunner{logger: logger}
	}
	return &Tesseract{cfg: cfg.withDefaults(), runner: runner, logger: logger}
}

func (t *Tesseract) Recognize(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	txt, warn, err := t.run(ctx, path)
	if err != nil {
		return Result{Engine: "tesseract", Warnings: warn}, err
	}
	txt = Normalize(txt)

	var ocrConf float32
	if t.cfg.EnableTSVConfidence {
		if c, err := t.tsvConfidence(ctx, path); err == nil {
			ocrConf = c
		} else {
			warn = append(warn, err.Error())
		}
	}
	heurConf := heuristicConfidence(txt)

	// blend: weight OCR higher if present
	conf := heurConf
	if ocrConf > 0 {
		conf = 0.7*ocrConf + 0.3*heurConf
	}
	if conf > 1.0 {
		conf = 1.0
	}

	return Result{
		Text:       txt,
		Engine:     "tesseract",
		Confidence: conf,
		Duration:   time.Since(start),
		Warnings:   warn,
	}, nil
}

func (t *Tesseract) baseArgs(path string) []string {
	args := []string{path, "stdout", "-l", t.cfg.Languages}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(t.cfg.OEM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	return args
}

func (t *Tesseract) run(ctx context.Context, path string) (string, []string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, t.baseArgs(path)...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return reBoxNoise.ReplaceAllString(string(out), ""), nil, nil
}

// tsvConfidence runs tesseract in TSV mode and returns mean word conf in 0..1.
func (t *Tesseract) tsvConfidence(ctx context.Context, path string) (float32, error) {
	args := append(t.baseArgs(path), "tsv")
	out, _, err := t.runner.Run(ctx, t.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %w", err)
	}
	return meanTSVConfidence(string(out)), nil
}

func meanTSVConfidence(tsv string) float32 {
	var sum, n float64
	for i, ln := range strings.Split(tsv, "\n") {
		if i == 0 || ln == "" {
			continue // header
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[10] // level..height, conf, text
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float32(sum / n / 100.0)
}
