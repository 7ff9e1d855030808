package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/resume-tracker/internal/entity"
	"github.com/joseph-ayodele/resume-tracker/internal/extract"
	"github.com/joseph-ayodele/resume-tracker/internal/lexicon"
	"github.com/joseph-ayodele/resume-tracker/internal/llm"
)

// Assembler runs the field extractors and merges their results into a Record.
type Assembler struct {
	lx     *lexicon.Lexicon
	logger *slog.Logger

	name         extract.Extractor[string]
	email        extract.Extractor[string]
	phone        extract.Extractor[string]
	city         extract.Extractor[string]
	degrees      extract.Extractor[[]entity.DegreeEntry]
	status       extract.Extractor[string]
	occupation   extract.Extractor[extract.Occupation]
	jobTitle     extract.Extractor[string]
	statusPhrase extract.Extractor[string]
	skills       extract.Extractor[[]string]
	experience   extract.Extractor[int]
}

// NewAssembler builds the standard extractor set. ner and clock may be nil.
func NewAssembler(lx *lexicon.Lexicon, ner llm.EntityRecognizer, clock extract.Clock, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		lx:           lx,
		logger:       logger,
		name:         extract.NewNameExtractor(lx, ner, logger),
		email:        extract.EmailExtractor{},
		phone:        extract.PhoneExtractor{},
		city:         extract.NewCityExtractor(lx, logger),
		degrees:      extract.NewDegreeExtractor(lx, logger),
		status:       extract.NewStatusExtractor(lx, logger),
		occupation:   extract.NewOccupationExtractor(lx, logger),
		jobTitle:     extract.NewJobTitleExtractor(lx),
		statusPhrase: extract.NewStatusPhraseExtractor(lx),
		skills:       extract.NewSkillsExtractor(lx),
		experience:   extract.NewExperienceExtractor(lx, clock, logger),
	}
}

// Assemble runs every extractor on in. A failing or panicking extractor
// leaves its field empty; the others still run.
func (a *Assembler) Assemble(ctx context.Context, in extract.Input) *entity.Record {
	rec := &entity.Record{Language: string(in.Language)}

	rec.Name = value(ctx, a.logger, a.name, in)
	rec.Email = value(ctx, a.logger, a.email, in)
	rec.Phone = value(ctx, a.logger, a.phone, in)
	rec.City = value(ctx, a.logger, a.city, in)
	rec.Status = value(ctx, a.logger, a.status, in)

	if occ, ok := run(ctx, a.logger, a.occupation, in); ok {
		rec.Occupation, rec.Level = occ.Value.Name, occ.Value.Level
	} else {
		rec.JobTitle = value(ctx, a.logger, a.jobTitle, in)
	}
	rec.StatusPhrase = value(ctx, a.logger, a.statusPhrase, in)

	rec.Degrees = extract.DisqualifyDegrees(value(ctx, a.logger, a.degrees, in), a.lx.DisqualifyingFieldWords)
	rec.Skills = value(ctx, a.logger, a.skills, in)
	if rec.Skills == nil {
		rec.Skills = []string{}
	}
	rec.ExperienceYears = max(0, value(ctx, a.logger, a.experience, in))
	return rec
}

func value[T any](ctx context.Context, logger *slog.Logger, ex extract.Extractor[T], in extract.Input) T {
	c, _ := run(ctx, logger, ex, in)
	return c.Value
}

// run calls one extractor, turning errors and panics into a miss.
func run[T any](ctx context.Context, logger *slog.Logger, ex extract.Extractor[T], in extract.Input) (c extract.Candidate[T], ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline.extractor.panic", "extractor", ex.Name(), "panic", r)
			c, ok = extract.Candidate[T]{}, false
		}
	}()

	var err error
	c, ok, err = ex.Extract(ctx, in)
	if err != nil {
		logger.Warn("pipeline.extractor.failed", "extractor", ex.Name(), "err", err)
		return extract.Candidate[T]{}, false
	}
	if !ok {
		logger.Debug("pipeline.extractor.miss", "extractor", ex.Name())
		return c, false
	}
	logger.Debug("pipeline.extractor.ok",
		"extractor", ex.Name(),
		"strategy", c.Strategy,
		"confidence", c.Confidence,
	)
	return c, true
}
