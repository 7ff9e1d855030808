package extract

import (
	"context"
	"regexp"
)

var (
	reAtSpaces  = regexp.MustCompile(`\s*@\s*`)
	reEmail     = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	reNonDigit  = regexp.MustCompile(`\D`)
	reTrunkZero = regexp.MustCompile(`\(\s*0\s*\)`)
)

// phonePattern is one Moroccan number shape. Matches are reduced to digits
// and cut to the national length.
type phonePattern struct {
	re     *regexp.Regexp
	digits int
}

// Tried in order; the first pattern with a match wins.
var phonePatterns = []phonePattern{
	{regexp.MustCompile(`\+212[ \t-]*(?:\(\s*0\s*\)[ \t-]*)?[67][\d \t()/.-]{6,}`), 12},
	{regexp.MustCompile(`\b0[67][\d \t().-]{8,}`), 10},
	{regexp.MustCompile(`\b212[ \t-]*[67][\d \t().-]{8,}`), 12},
}

// FindEmail returns the first e-mail address in text.
func FindEmail(text string) (string, bool) {
	m := reEmail.FindString(reAtSpaces.ReplaceAllString(text, "@"))
	return m, m != ""
}

// FindPhone returns the first Moroccan phone number in text, digits only.
func FindPhone(text string) (string, bool) {
	for _, p := range phonePatterns {
		for _, m := range p.re.FindAllString(text, -1) {
			digits := reNonDigit.ReplaceAllString(reTrunkZero.ReplaceAllString(m, ""), "")
			if len(digits) < p.digits {
				continue
			}
			if len(digits) > p.digits {
				digits = digits[:p.digits]
			}
			return digits, true
		}
	}
	return "", false
}

// EmailExtractor finds the candidate's e-mail address.
type EmailExtractor struct{}

func (EmailExtractor) Name() string { return "email" }

func (EmailExtractor) Extract(_ context.Context, in Input) (Candidate[string], bool, error) {
	m, ok := FindEmail(in.Text)
	if !ok {
		return Candidate[string]{}, false, nil
	}
	return Candidate[string]{Value: m, Confidence: 1, Source: m, Strategy: "regex"}, true, nil
}

// PhoneExtractor finds the candidate's phone number.
type PhoneExtractor struct{}

func (PhoneExtractor) Name() string { return "phone" }

func (PhoneExtractor) Extract(_ context.Context, in Input) (Candidate[string], bool, error) {
	m, ok := FindPhone(in.Text)
	if !ok {
		return Candidate[string]{}, false, nil
	}
	return Candidate[string]{Value: m, Confidence: 1, Strategy: "regex"}, true, nil
}
