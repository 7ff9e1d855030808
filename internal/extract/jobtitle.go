package extract

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/resume-tracker/internal/fuzzy"
	"github.com/joseph-ayodele/resume-tracker/internal/lexicon"
)

// JobTitleExtractor maps résumé lines onto canonical job titles.
type JobTitleExtractor struct {
	lx *lexicon.Lexicon
}

func NewJobTitleExtractor(lx *lexicon.Lexicon) *JobTitleExtractor {
	return &JobTitleExtractor{lx: lx}
}

func (e *JobTitleExtractor) Name() string { return "job_title" }

func (e *JobTitleExtractor) Extract(_ context.Context, in Input) (Candidate[string], bool, error) {
	var lines []string
	for _, l := range strings.Split(strings.ToLower(in.Text), "\n") {
		l = strings.TrimSpace(l)
		if utf8.RuneCountInString(l) > JobTitleMinLineLen && strings.IndexFunc(l, unicode.IsLetter) >= 0 {
			lines = append(lines, l)
		}
	}

	var best Candidate[string]
	for _, jt := range e.lx.CanonicalJobTitles {
		for _, phrase := range jt.Phrases {
			p := strings.ToLower(phrase)
			for _, l := range lines {
				if s := fuzzy.TokenSetRatio(p, l); s > best.Confidence {
					best = Candidate[string]{Value: jt.Title, Confidence: s, Source: l, Strategy: "token_set"}
				}
			}
		}
	}
	if best.Confidence < JobTitleThreshold {
		return Candidate[string]{}, false, nil
	}
	return best, true, nil
}
