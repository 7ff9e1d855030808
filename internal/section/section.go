// Package section slices reconstructed résumé text into named sections using
// header and next-header boundary matching.
package section

import (
	"strings"

	"github.com/joseph-ayodele/resume-tracker/internal/textnorm"
)

// Section is a named slice of résumé text. Text never includes the header line.
type Section struct {
	Name string
	Text string
}

// Extract returns the lines following the first line that contains any of names,
// up to but excluding the next line that contains any of next. Matching is
// case- and accent-insensitive. Without a start header the result is empty.
//
// The start line itself is always consumed, so next may overlap names: with
// next equal to names, the section runs until the following header line.
func Extract(text string, names, next []string) string {
	names = fold(names)
	next = fold(next)

	var collected []string
	inSection := false
	for _, line := range strings.Split(text, "\n") {
		clean := textnorm.Normalize(line)
		if !inSection {
			if textnorm.ContainsAny(clean, names) {
				inSection = true
			}
			continue
		}
		if textnorm.ContainsAny(clean, next) {
			break
		}
		collected = append(collected, line)
	}
	return strings.TrimSpace(strings.Join(collected, "\n"))
}

// Occurrence is one candidate section: the rest of its header line after the
// matched name, and the lines up to the next header.
type Occurrence struct {
	Tail string
	Text string
}

// Occurrences returns an Occurrence for every line that contains any of
// names, in document order. Tail is normalized; Text keeps the original lines.
// Unlike Extract, a name mentioned inside prose still yields an Occurrence, so
// callers can look past it to the real header.
func Occurrences(text string, names, next []string) []Occurrence {
	names = fold(names)
	next = fold(next)

	lines := strings.Split(text, "\n")
	var out []Occurrence
	for i, line := range lines {
		clean := textnorm.Normalize(line)
		end := -1
		for _, n := range names {
			if j := strings.Index(clean, n); j >= 0 && j+len(n) > end {
				end = j + len(n)
			}
		}
		if end < 0 {
			continue
		}
		occ := Occurrence{Tail: strings.TrimLeft(clean[end:], " :-–—|")}
		var collected []string
		for _, l := range lines[i+1:] {
			if textnorm.ContainsAny(textnorm.Normalize(l), next) {
				break
			}
			collected = append(collected, l)
		}
		occ.Text = strings.TrimSpace(strings.Join(collected, "\n"))
		out = append(out, occ)
	}
	return out
}

// Named wraps Extract into a Section value.
func Named(name, text string, names, next []string) Section {
	return Section{Name: name, Text: Extract(text, names, next)}
}

// FirstNonEmpty returns the text of the first non-empty section, or fallback.
func FirstNonEmpty(fallback string, sections ...Section) string {
	for _, s := range sections {
		if s.Text != "" {
			return s.Text
		}
	}
	return fallback
}

func fold(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if n := textnorm.Normalize(w); n != "" {
			out = append(out, n)
		}
	}
	return out
}
