package extract

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/resume-tracker/internal/lexicon"
	"github.com/joseph-ayodele/resume-tracker/internal/section"
)

// Experience claims, in priority order. Ranges capture a start year and an
// end that is a year or a word meaning "now".
var (
	reYearsOfExperience = regexp.MustCompile(`(\d+)\s+years?\s+of\s+experience`)
	reOverYears         = regexp.MustCompile(`over\s+(\d+)\s+years`)
	reSinceYear         = regexp.MustCompile(`since\s+((?:19|20)\d{2})`)
	reYearRange         = regexp.MustCompile(`((?:19|20)\d{2})\s*[-–—]\s*((?:19|20)\d{2}|present|now|current|aujourd'hui|aujourd’hui)`)
	rePlusYears         = regexp.MustCompile(`(\d+)\+?\s+years`)
	reExperienceOf      = regexp.MustCompile(`experience\s+of\s+(\d+)\s+years`)
)

// Clock returns the current time.
type Clock func() time.Time

// ExperienceExtractor estimates years of experience. Every pattern match
// yields a claim; the largest plausible claim wins and 0 means none.
type ExperienceExtractor struct {
	lx     *lexicon.Lexicon
	now    Clock
	logger *slog.Logger
}

// NewExperienceExtractor builds an ExperienceExtractor. A nil clock uses
// time.Now.
func NewExperienceExtractor(lx *lexicon.Lexicon, now Clock, logger *slog.Logger) *ExperienceExtractor {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExperienceExtractor{lx: lx, now: now, logger: logger}
}

func (e *ExperienceExtractor) Name() string { return "experience_years" }

// Extract reads only experience sections. Every line naming an experience
// header is tried, with the rest of that line ("Experience: 2017 - present")
// counted as part of its section; the largest claim wins. Without such a
// line the result is a miss, so education dates are never read as work.
func (e *ExperienceExtractor) Extract(_ context.Context, in Input) (Candidate[int], bool, error) {
	years, source := 0, ""
	for _, occ := range section.Occurrences(in.Text, e.lx.ExperienceHeaders, e.lx.NextSection) {
		n := ExperienceYears(occ.Tail+"\n"+occ.Text, e.now().Year())
		if n > years {
			years, source = n, occ.Tail+" "+firstLine(occ.Text)
		}
	}
	if years == 0 {
		return Candidate[int]{}, false, nil
	}
	e.logger.Debug("extract.experience.found", "years", years, "source", source)
	return Candidate[int]{Value: years, Confidence: 1, Source: strings.TrimSpace(source), Strategy: "experience_section"}, true, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// ExperienceYears returns the largest claim in text, in years, given the
// current year. Claims outside 1..ExperienceMaxYears are ignored.
func ExperienceYears(text string, currentYear int) int {
	text = strings.ToLower(text)
	best := 0
	keep := func(n int) {
		if n > 0 && n <= ExperienceMaxYears && n > best {
			best = n
		}
	}

	for _, re := range []*regexp.Regexp{reYearsOfExperience, reOverYears} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			keep(atoi(m[1]))
		}
	}
	for _, m := range reSinceYear.FindAllStringSubmatch(text, -1) {
		keep(currentYear - atoi(m[1]))
	}
	for _, m := range reYearRange.FindAllStringSubmatch(text, -1) {
		end := currentYear
		if n, err := strconv.Atoi(m[2]); err == nil {
			end = n
		}
		keep(end - atoi(m[1]))
	}
	for _, re := range []*regexp.Regexp{rePlusYears, reExperienceOf} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			keep(atoi(m[1]))
		}
	}
	return best
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
