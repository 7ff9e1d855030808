package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/resume-tracker/internal/lexicon"
	"github.com/joseph-ayodele/resume-tracker/internal/section"
	"github.com/joseph-ayodele/resume-tracker/internal/textnorm"
)

const (
	statusCue = `(?:currently|presently|enrolled|pursuing|studying|ongoing|candidate|apprentice|graduate|student|engineer)`
	degreeCue = `(?:master|bachelor|phd|licence|degree|engineering)`
)

var (
	// A word holding a status cue, then within five words one holding a
	// degree cue, with up to five words of context on each side.
	reStatusDegree = regexp.MustCompile(`(?i)(?:\S+\s+){0,5}\S*` + statusCue + `\S*(?:\s+\S+){0,5}?\s+\S*` + degreeCue + `\S*(?:\s+\S+){0,5}`)
	// A status cue alone with a wider window.
	reStatusOnly = regexp.MustCompile(`(?i)(?:\S+\s+){0,20}\S*` + statusCue + `\S*(?:\s+\S+){0,20}`)

	reTrailingPunct = regexp.MustCompile(`[,;:\-\s]+$`)
)

// StatusPhraseExtractor returns a short free-text description of the
// candidate's situation, such as "final year engineering student".
// Profile, then education, then the whole text are searched; within the
// first source with matches, the shortest cleaned phrase wins.
type StatusPhraseExtractor struct {
	lx *lexicon.Lexicon
}

func NewStatusPhraseExtractor(lx *lexicon.Lexicon) *StatusPhraseExtractor {
	return &StatusPhraseExtractor{lx: lx}
}

func (e *StatusPhraseExtractor) Name() string { return "status_phrase" }

func (e *StatusPhraseExtractor) Extract(_ context.Context, in Input) (Candidate[string], bool, error) {
	text := strings.ToLower(in.Text)
	sources := []string{
		section.Extract(text, e.lx.ProfileHeaders, e.lx.NextSection),
		section.Extract(text, e.lx.EducationHeaders, e.lx.NextSection),
		text,
	}
	for _, re := range []*regexp.Regexp{reStatusDegree, reStatusOnly} {
		for _, src := range sources {
			if src == "" {
				continue
			}
			if p, ok := e.shortest(re.FindAllString(src, -1)); ok {
				return Candidate[string]{Value: p, Confidence: 0.5, Source: p, Strategy: "window"}, true, nil
			}
		}
	}
	return Candidate[string]{}, false, nil
}

func (e *StatusPhraseExtractor) shortest(matches []string) (string, bool) {
	best, found := "", false
	for _, m := range matches {
		c := CleanStatusPhrase(m, e.lx.CutoffWords)
		if c == "" {
			continue
		}
		if !found || utf8.RuneCountInString(c) < utf8.RuneCountInString(best) {
			best, found = c, true
		}
	}
	return best, found
}

// CleanStatusPhrase collapses spaces, cuts the phrase at the first cutoff
// word found past StatusPhraseMinCut, strips trailing punctuation and caps
// the length at StatusPhraseMaxLen characters.
func CleanStatusPhrase(s string, cutoffWords []string) string {
	s = textnorm.CollapseSpaces(s)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	for _, w := range cutoffWords {
		if w == "" {
			continue
		}
		if idx := strings.Index(lower, strings.ToLower(w)); idx > StatusPhraseMinCut {
			s = strings.TrimSpace(s[:idx])
			break
		}
	}
	s = reTrailingPunct.ReplaceAllString(s, "")
	if r := []rune(s); len(r) > StatusPhraseMaxLen {
		s = strings.TrimRight(string(r[:StatusPhraseMaxLen]), " \t") + "..."
	}
	return s
}
