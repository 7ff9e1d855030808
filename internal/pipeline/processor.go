// Package pipeline turns one résumé PDF into one entity.Record: layout
// reconstruction first, then every field extractor over the result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/entity"
	"github.com/joseph-ayodele/resume-tracker/internal/extract"
	"github.com/joseph-ayodele/resume-tracker/internal/layout"
	"github.com/joseph-ayodele/resume-tracker/internal/lexicon"
	"github.com/joseph-ayodele/resume-tracker/internal/llm"
	"github.com/joseph-ayodele/resume-tracker/internal/textnorm"
)

// DefaultDocTimeout bounds one document when no timeout is configured.
const DefaultDocTimeout = 2 * time.Minute

// Reconstructor produces the ordered text of a document.
type Reconstructor interface {
	Reconstruct(ctx context.Context, path string) (*layout.Document, error)
}

// Processor coordinates layout reconstruction then field extraction.
// It holds no per-document state and is safe for concurrent use.
type Processor struct {
	logger     *slog.Logger
	lx         *lexicon.Lexicon
	layout     Reconstructor
	assembler  *Assembler
	docTimeout time.Duration

	ner   llm.EntityRecognizer
	clock extract.Clock
}

type Option func(*Processor)

// WithDocTimeout sets the wall-clock budget of one document. Zero or less
// disables it.
func WithDocTimeout(d time.Duration) Option {
	return func(p *Processor) { p.docTimeout = d }
}

// WithEntityRecognizer enables named-entity recognition for candidate names.
func WithEntityRecognizer(ner llm.EntityRecognizer) Option {
	return func(p *Processor) { p.ner = ner }
}

// WithClock fixes the current time used for open-ended experience ranges.
func WithClock(c extract.Clock) Option {
	return func(p *Processor) { p.clock = c }
}

func NewProcessor(lx *lexicon.Lexicon, rec Reconstructor, logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		logger:     logger,
		lx:         lx,
		layout:     rec,
		docTimeout: DefaultDocTimeout,
	}
	for _, o := range opts {
		o(p)
	}
	p.assembler = NewAssembler(lx, p.ner, p.clock, logger)
	return p
}

// Extract reconstructs the document at path and runs every extractor over it.
// An unreadable document is an ErrDocument error; missing fields are not
// errors and leave their Record field empty.
func (p *Processor) Extract(ctx context.Context, path string) (*entity.Record, error) {
	ctx, cancel := common.WithOptionalTimeout(ctx, p.docTimeout)
	defer cancel()
	ctx = common.WithDocument(ctx, path)

	start := time.Now()
	doc, err := p.layout.Reconstruct(ctx, path)
	if err != nil {
		p.logger.Error("pipeline.layout.failed", "path", path, "err", err)
		return nil, err
	}
	text := doc.Text()
	lang := textnorm.DetectLanguage(textnorm.Preprocess(text),
		p.lx.Indicators(string(textnorm.French)), p.lx.Indicators(string(textnorm.English)))
	p.logger.Debug("pipeline.layout.ok",
		"path", path,
		"pages", len(doc.Pages),
		"chars", len(text),
		"lang", lang,
	)

	rec := p.assembler.Assemble(ctx, extract.Input{Text: text, Blocks: doc.Blocks(), Language: lang})
	if err := ctx.Err(); err != nil {
		p.logger.Error("pipeline.extract.aborted", "path", path, "err", err)
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	rec.DocumentPath = path

	p.logger.Info("pipeline.extract.ok",
		"path", path,
		"name", rec.Name,
		"city", rec.City,
		"degrees", len(rec.Degrees),
		"skills", len(rec.Skills),
		"experience_years", rec.ExperienceYears,
		"elapsed", time.Since(start),
	)
	return rec, nil
}
