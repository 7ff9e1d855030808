package extract

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/resume-tracker/internal/entity"
	"github.com/joseph-ayodele/resume-tracker/internal/fuzzy"
	"github.com/joseph-ayodele/resume-tracker/internal/lexicon"
	"github.com/joseph-ayodele/resume-tracker/internal/textnorm"
)

var (
	// Field phrases after a degree word, tried most specific first. They run
	// on normalized (folded, lower-cased) text.
	reFieldAfterDegreeWord  = regexp.MustCompile(`(?:deplome|diplome|formation|degree|master|bachelor|license|licence|cycle)\s+(?:en|in|de|of)\s+([a-z\s,&-]+)`)
	reFieldAfterPreposition = regexp.MustCompile(`(?:^|\s)(?:en|in|de|of)\s+([a-z\s,&-]{4,})`)

	yearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:19|20)\d{2}\s*[-–—/]\s*(?:(?:19|20)\d{2}|présent|present|en cours|currently|current|aujourd'hui|now)`),
		regexp.MustCompile(`\b(?:19|20)\d{2}\b`),
	}

	reProperInstitution = regexp.MustCompile(`(?i)\p{L}{2,}\s+(?:university|school|institute|faculty)`)
)

// DegreeExtractor finds academic degrees.
//
// The scan is a cascade: lines near an education header first, then every
// line, then a lenient pass on bare degree keywords at a fixed low score.
// Every pass deduplicates by signature and drops entries whose field names
// a project rather than a subject.
type DegreeExtractor struct {
	lx            *lexicon.Lexicon
	eduHeaders    []string
	nonEducation  []string
	disqualifying []string
	keywordRes    [][]*regexp.Regexp // parallel to lx.DegreeAliases
	fieldRes      []*regexp.Regexp   // parallel to lx.DegreeAliases
	logger        *slog.Logger
}

func NewDegreeExtractor(lx *lexicon.Lexicon, logger *slog.Logger) *DegreeExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &DegreeExtractor{
		lx:            lx,
		eduHeaders:    normalizeList(lx.EducationHeaders),
		nonEducation:  normalizeList(lx.NonEducationKeywords),
		disqualifying: normalizeList(lx.DisqualifyingFieldWords),
		logger:        logger,
	}
	for _, d := range lx.DegreeAliases {
		var res []*regexp.Regexp
		for _, a := range d.NormalizedAliases() {
			if a == "" {
				continue
			}
			res = append(res, regexp.MustCompile(`(?:^|[^\p{L}\p{N}])`+regexp.QuoteMeta(a)+`(?:$|[^\p{L}\p{N}])`))
		}
		e.keywordRes = append(e.keywordRes, res)
		e.fieldRes = append(e.fieldRes, regexp.MustCompile(regexp.QuoteMeta(textnorm.Normalize(d.Degree))+`\s+(?:en|in|de|of)\s+([a-z\s,&-]+)`))
	}
	return e
}

func (e *DegreeExtractor) Name() string { return "degrees" }

func (e *DegreeExtractor) Extract(_ context.Context, in Input) (Candidate[[]entity.DegreeEntry], bool, error) {
	lines := textnorm.Lines(in.Text)

	passes := []struct {
		name string
		run  func([]string) []entity.DegreeEntry
	}{
		{"education_window", func(ls []string) []entity.DegreeEntry { return e.scan(ls, true) }},
		{"all_lines", func(ls []string) []entity.DegreeEntry { return e.scan(ls, false) }},
		{"lenient", e.lenient},
	}
	for _, p := range passes {
		entries := e.disqualify(p.run(lines))
		if len(entries) == 0 {
			continue
		}
		best := 0.0
		for _, d := range entries {
			best = max(best, d.Confidence)
		}
		e.logger.Debug("extract.degrees.found", "pass", p.name, "count", len(entries))
		return Candidate[[]entity.DegreeEntry]{Value: entries, Confidence: best, Strategy: p.name}, true, nil
	}
	return Candidate[[]entity.DegreeEntry]{}, false, nil
}

func (e *DegreeExtractor) scan(lines []string, restrict bool) []entity.DegreeEntry {
	var out []entity.DegreeEntry
	seen := make(map[string]struct{})
	for idx, line := range lines {
		if utf8.RuneCountInString(line) < DegreeMinLineLen {
			continue
		}
		norm := textnorm.Normalize(line)
		if textnorm.ContainsAny(norm, e.nonEducation) {
			continue
		}
		if restrict && !e.inEducationWindow(lines, idx) {
			continue
		}

		degree, score := e.matchDegree(norm)
		if degree < 0 {
			continue
		}
		d := e.describe(lines, idx, degree, score)
		if _, dup := seen[d.Signature()]; dup {
			continue
		}
		seen[d.Signature()] = struct{}{}
		out = append(out, d)
	}
	return out
}

// matchDegree returns the index of the best alias group for a normalized
// line, or -1. An alias counts only when its token-set score clears
// DegreeAliasThreshold and it either appears literally or scores above
// DegreePartialThreshold on partial similarity.
func (e *DegreeExtractor) matchDegree(norm string) (int, float64) {
	best, bestScore := -1, 0.0
	for i, d := range e.lx.DegreeAliases {
		for _, alias := range d.NormalizedAliases() {
			if alias == "" {
				continue
			}
			score := fuzzy.TokenSetRatio(norm, alias)
			if score <= DegreeAliasThreshold || score <= bestScore {
				continue
			}
			if strings.Contains(norm, alias) || fuzzy.PartialRatio(norm, alias) > DegreePartialThreshold {
				best, bestScore = i, score
			}
		}
	}
	return best, bestScore
}

func (e *DegreeExtractor) lenient(lines []string) []entity.DegreeEntry {
	var out []entity.DegreeEntry
	seen := make(map[string]struct{})
	for idx, line := range lines {
		norm := textnorm.Normalize(line)
		if textnorm.ContainsAny(norm, e.nonEducation) {
			continue
		}
		degree := -1
		for i, res := range e.keywordRes {
			for _, re := range res {
				if re.MatchString(norm) {
					degree = i
					break
				}
			}
			if degree >= 0 {
				break
			}
		}
		if degree < 0 {
			continue
		}
		d := e.describe(lines, idx, degree, DegreeLenientConfidence)
		if _, dup := seen[d.Signature()]; dup {
			continue
		}
		seen[d.Signature()] = struct{}{}
		out = append(out, d)
	}
	return out
}

// inEducationWindow reports whether an education header word appears from
// EducationWindow lines before idx to two lines after it.
func (e *DegreeExtractor) inEducationWindow(lines []string, idx int) bool {
	start := max(0, idx-EducationWindow)
	end := min(len(lines), idx+EducationWindow)
	near := textnorm.Normalize(strings.Join(lines[start:end], " "))
	return textnorm.ContainsAny(near, e.eduHeaders)
}

func (e *DegreeExtractor) describe(lines []string, idx, degree int, score float64) entity.DegreeEntry {
	start := max(0, idx-DegreeContextWindow)
	end := min(len(lines), idx+DegreeContextWindow+1)
	window := strings.Join(lines[start:end], " ")
	return entity.DegreeEntry{
		Degree:      e.lx.DegreeAliases[degree].Degree,
		Field:       e.field(window, degree),
		Institution: e.institution(lines, idx),
		YearRange:   YearRange(window),
		Source:      lines[idx],
		Confidence:  score,
	}
}

// field finds a field of study in window and returns the vocabulary entry
// it matches best, title cased.
func (e *DegreeExtractor) field(window string, degree int) string {
	norm := textnorm.Normalize(window)
	fields := e.lx.NormalizedFields()
	best, bestScore := -1, 0.0
	for _, re := range []*regexp.Regexp{e.fieldRes[degree], reFieldAfterDegreeWord, reFieldAfterPreposition} {
		for _, m := range re.FindAllStringSubmatch(norm, -1) {
			for _, phrase := range leadingPhrases(textnorm.CleanFieldName(m[1])) {
				match, ok := fuzzy.ExtractOne(phrase, fields, fuzzy.TokenSortRatio, 0)
				if ok && match.Score > bestScore && match.Score > DegreeFieldThreshold {
					best, bestScore = match.Index, match.Score
				}
			}
		}
	}
	if best < 0 {
		return ""
	}
	return textnorm.TitleCase(e.lx.FieldsOfStudy[best])
}

// leadingPhrases returns the whole phrase followed by its first one to four
// words, so that a subject followed by an institution name still matches.
func leadingPhrases(phrase string) []string {
	if phrase == "" {
		return nil
	}
	words := strings.Fields(phrase)
	out := []string{phrase}
	for n := 1; n <= 4 && n < len(words); n++ {
		out = append(out, strings.Join(words[:n], " "))
	}
	return out
}

// YearRange returns the first explicit year range in text, else the first
// bare year.
func YearRange(text string) string {
	for _, re := range yearPatterns {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// institution scans the lines around idx, nearest-first from the top of the
// window, for a keyword-led or "X University" institution name.
func (e *DegreeExtractor) institution(lines []string, idx int) string {
	kw := e.lx.InstitutionPattern()
	for off := -DegreeContextWindow; off <= DegreeContextWindow; off++ {
		i := idx + off
		if i < 0 || i >= len(lines) {
			continue
		}
		line := lines[i]
		if kw != nil {
			if m := kw.FindStringSubmatch(line); m != nil {
				if s := strings.TrimSpace(m[1]); utf8.RuneCountInString(s) > InstitutionMinLen {
					return s
				}
			}
		}
		if m := reProperInstitution.FindString(line); utf8.RuneCountInString(m) > InstitutionMinLen {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// disqualify drops entries whose field contains a disqualifying word.
func (e *DegreeExtractor) disqualify(entries []entity.DegreeEntry) []entity.DegreeEntry {
	kept := DisqualifyDegrees(entries, e.disqualifying)
	if n := len(entries) - len(kept); n > 0 {
		e.logger.Debug("extract.degrees.disqualified", "dropped", n)
	}
	return kept
}

// DisqualifyDegrees returns the entries whose field names none of words.
// Matching is accent- and case-insensitive. entries is not modified.
func DisqualifyDegrees(entries []entity.DegreeEntry, words []string) []entity.DegreeEntry {
	words = normalizeList(words)
	out := make([]entity.DegreeEntry, 0, len(entries))
	for _, d := range entries {
		if d.Field != "" && textnorm.ContainsAny(textnorm.Normalize(d.Field), words) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := textnorm.Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}
