package extract

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/joseph-ayodele/resume-tracker/internal/fuzzy"
	"github.com/joseph-ayodele/resume-tracker/internal/lexicon"
	"github.com/joseph-ayodele/resume-tracker/internal/section"
	"github.com/joseph-ayodele/resume-tracker/internal/textnorm"
)

var reSkillSeparators = regexp.MustCompile(`[:,•·\-|;/]`)

// SkillsExtractor matches tokens of the skills section (or of the whole
// text when there is none) against the skills vocabulary.
type SkillsExtractor struct {
	lx *lexicon.Lexicon
}

func NewSkillsExtractor(lx *lexicon.Lexicon) *SkillsExtractor {
	return &SkillsExtractor{lx: lx}
}

func (e *SkillsExtractor) Name() string { return "skills" }

func (e *SkillsExtractor) Extract(_ context.Context, in Input) (Candidate[[]string], bool, error) {
	src, strategy := section.Extract(in.Text, e.lx.SkillsHeaders, e.lx.NextSection), "skills_section"
	if src == "" {
		src, strategy = in.Text, "full_text"
	}

	vocab := e.lx.NormalizedSkills()
	found := make(map[string]struct{})
	for _, line := range strings.Split(src, "\n") {
		for _, tok := range reSkillSeparators.Split(textnorm.Normalize(line), -1) {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			if m, ok := fuzzy.ExtractOne(tok, vocab, fuzzy.WRatio, SkillThreshold); ok {
				found[e.lx.Skills[m.Index]] = struct{}{}
			}
		}
	}
	if len(found) == 0 {
		return Candidate[[]string]{}, false, nil
	}
	skills := make([]string, 0, len(found))
	for s := range found {
		skills = append(skills, s)
	}
	sort.Strings(skills)
	return Candidate[[]string]{Value: skills, Confidence: 1, Strategy: strategy}, true, nil
}
