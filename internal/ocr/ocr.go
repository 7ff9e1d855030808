package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Languages string // tesseract -l value, default "eng+fra"
	DPI       int    // rasterization DPI for scanned pages, default 300

	TessdataDir         string
	EnableTSVConfidence bool

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	// Preprocess runs grayscale/contrast/sharpen on the rendered page before OCR.
	Preprocess bool
	// WorkDir holds rendered page images while a page is processed.
	WorkDir string
}

func (c Config) withDefaults() Config {
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if c.Languages == "" {
		c.Languages = "eng+fra"
	}
	if c.DPI <= 0 {
		c.DPI = 300
	}
	return c
}

// Result is the recognized text of one raster image.
type Result struct {
	Text       string
	Engine     string // "tesseract" | "azure"
	Confidence float32
	Duration   time.Duration
	Warnings   []string
}

// Recognizer turns an image file into text. Implementations must be safe for
// concurrent use.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (Result, error)
}

// PageOCR renders single PDF pages to PNG and hands them to a Recognizer.
type PageOCR struct {
	cfg        Config
	runner     Runner
	recognizer Recognizer
	logger     *slog.Logger
}

// NewPageOCR wires a page renderer to rec. A nil runner executes real binaries.
func NewPageOCR(cfg Config, rec Recognizer, runner Runner, logger *slog.Logger) *PageOCR {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = execRunner{logger: logger}
	}
	return &PageOCR{cfg: cfg.withDefaults(), runner: runner, recognizer: rec, logger: logger}
}

// OCRPage renders page (1-based) of the PDF at path and recognizes it.
func (p *PageOCR) OCRPage(ctx context.Context, path string, page int) (Result, error) {
	start := time.Now()
	if p.recognizer == nil {
		return Result{}, fmt.Errorf("ocr: no recognizer configured")
	}

	tmpDir, err := os.MkdirTemp(p.cfg.WorkDir, "rt-page-*")
	if err != nil {
		return Result{}, fmt.Errorf("ocr: temp dir: %w", err)
	}
	defer func(dir string) {
		if err := os.RemoveAll(dir); err != nil {
			p.logger.Warn("ocr.cleanup_failed", "dir", dir, "error", err)
		}
	}(tmpDir)

	img, warns, err := p.renderPage(ctx, path, page, tmpDir)
	if err != nil {
		p.logger.Error("ocr.render_failed", "path", path, "page", page, "error", err)
		return Result{Warnings: warns}, err
	}

	if p.cfg.Preprocess {
		if out, err := Preprocess(img, tmpDir); err != nil {
			warns = append(warns, "preprocess: "+err.Error())
			p.logger.Warn("ocr.preprocess_failed", "path", path, "page", page, "error", err)
		} else {
			img = out
		}
	}

	res, err := p.recognizer.Recognize(ctx, img)
	res.Warnings = append(warns, res.Warnings...)
	res.Duration = time.Since(start)
	if err != nil {
		p.logger.Error("ocr.recognize_failed", "path", path, "page", page, "engine", res.Engine, "error", err)
		return res, err
	}
	p.logger.Info("ocr.page.ok",
		"path", path,
		"page", page,
		"engine", res.Engine,
		"chars", len(res.Text),
		"confidence", res.Confidence,
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
