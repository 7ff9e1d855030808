package extract

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/joseph-ayodele/resume-tracker/constants"
	"github.com/joseph-ayodele/resume-tracker/internal/lexicon"
)

// Occupation is the winning occupation and, when a cue was found, its level.
type Occupation struct {
	Name  string
	Level string
}

// StatusExtractor picks the candidate status whose patterns match most often
// in the résumé language. Ties go to the earlier status in the lexicon.
type StatusExtractor struct {
	lx     *lexicon.Lexicon
	logger *slog.Logger
}

func NewStatusExtractor(lx *lexicon.Lexicon, logger *slog.Logger) *StatusExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusExtractor{lx: lx, logger: logger}
}

func (e *StatusExtractor) Name() string { return "status" }

func (e *StatusExtractor) Extract(_ context.Context, in Input) (Candidate[string], bool, error) {
	lang := string(in.Language)
	best, bestCount := -1, 0
	for i, r := range e.lx.StatusPatterns {
		n := countMatches(in.Text, r.Regexps(lang))
		if n > bestCount {
			best, bestCount = i, n
		}
	}
	if best < 0 {
		return Candidate[string]{}, false, nil
	}
	status := e.lx.StatusPatterns[best].Status
	e.logger.Debug("extract.status.found", "status", status, "matches", bestCount, "lang", lang)
	return Candidate[string]{
		Value:      status,
		Confidence: min(1, float64(bestCount)*StatusWeight),
		Strategy:   "pattern_count",
	}, true, nil
}

// OccupationExtractor picks the occupation whose patterns match most often,
// then looks for a seniority cue scoped to that occupation.
type OccupationExtractor struct {
	lx     *lexicon.Lexicon
	logger *slog.Logger
}

func NewOccupationExtractor(lx *lexicon.Lexicon, logger *slog.Logger) *OccupationExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &OccupationExtractor{lx: lx, logger: logger}
}

func (e *OccupationExtractor) Name() string { return "occupation" }

func (e *OccupationExtractor) Extract(_ context.Context, in Input) (Candidate[Occupation], bool, error) {
	lang := string(in.Language)
	best, bestCount := -1, 0
	for i, r := range e.lx.OccupationPatterns {
		n := countMatches(in.Text, r.Regexps(lang))
		if n > bestCount {
			best, bestCount = i, n
		}
	}
	if best < 0 {
		return Candidate[Occupation]{}, false, nil
	}
	rule := e.lx.OccupationPatterns[best]
	occ := Occupation{Name: rule.Occupation, Level: e.level(in.Text, rule)}
	e.logger.Debug("extract.occupation.found", "occupation", occ.Name, "level", occ.Level, "matches", bestCount)
	return Candidate[Occupation]{
		Value:      occ,
		Confidence: min(1, float64(bestCount)*OccupationWeight),
		Strategy:   "pattern_count",
	}, true, nil
}

// level returns the first level of rule with a matching pattern. Without
// one, a bachelor or master mention implies a student.
func (e *OccupationExtractor) level(text string, rule lexicon.OccupationRule) string {
	for _, l := range rule.Levels {
		if anyMatch(text, l.Regexps()) {
			return l.Level
		}
	}
	for _, l := range e.lx.EducationLevels {
		if _, ok := constants.StudentEducationLevels[l.Level]; ok && anyMatch(text, l.Regexps()) {
			return string(constants.LevelStudent)
		}
	}
	return ""
}

func countMatches(text string, res []*regexp.Regexp) int {
	n := 0
	for _, re := range res {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}

func anyMatch(text string, res []*regexp.Regexp) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
