package extract

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/resume-tracker/internal/fuzzy"
	"github.com/joseph-ayodele/resume-tracker/internal/lexicon"
	"github.com/joseph-ayodele/resume-tracker/internal/section"
	"github.com/joseph-ayodele/resume-tracker/internal/textnorm"
)

const cityTrim = ",.;:()"

// CityExtractor matches words of the résumé against the city gazetteer.
// Profile and contact sections are searched before the full text.
type CityExtractor struct {
	lx     *lexicon.Lexicon
	logger *slog.Logger
}

func NewCityExtractor(lx *lexicon.Lexicon, logger *slog.Logger) *CityExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CityExtractor{lx: lx, logger: logger}
}

func (e *CityExtractor) Name() string { return "city" }

func (e *CityExtractor) Extract(_ context.Context, in Input) (Candidate[string], bool, error) {
	sources := []struct{ name, text string }{
		{"profile", section.Extract(in.Text, e.lx.ProfileHeaders, e.lx.NextSection)},
		{"contact", section.Extract(in.Text, e.lx.ContactHeaders, e.lx.NextSection)},
		{"full_text", in.Text},
	}
	for _, src := range sources {
		if strings.TrimSpace(src.text) == "" {
			continue
		}
		if c, ok := e.best(src.text); ok {
			c.Strategy = src.name
			return c, true, nil
		}
	}
	return Candidate[string]{}, false, nil
}

// best scores every unigram and bigram of text and keeps the strictly best
// match at or above CityThreshold. Candidates are visited in text order.
func (e *CityExtractor) best(text string) (Candidate[string], bool) {
	cities := e.lx.NormalizedCities()
	var best Candidate[string]
	found := false
	for _, cand := range cityCandidates(text) {
		m, ok := fuzzy.ExtractOne(cand, cities, fuzzy.WRatio, CityThreshold)
		if !ok || (found && m.Score <= best.Confidence) {
			continue
		}
		best = Candidate[string]{Value: e.lx.Cities[m.Index], Confidence: m.Score, Source: cand}
		found = true
		e.logger.Debug("extract.city.candidate", "candidate", cand, "city", best.Value, "score", m.Score)
	}
	return best, found
}

func cityCandidates(text string) []string {
	words := strings.Fields(textnorm.Fold(strings.ToLower(text)))
	seen := make(map[string]struct{}, 2*len(words))
	out := make([]string, 0, 2*len(words))
	add := func(c string) {
		c = strings.Trim(c, cityTrim)
		if utf8.RuneCountInString(c) < CityMinLen {
			return
		}
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for i, w := range words {
		add(w)
		if i+1 < len(words) {
			add(w + " " + words[i+1])
		}
	}
	return out
}
