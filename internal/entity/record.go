package entity

import (
	"strings"
)

// DegreeEntry is one academic degree found in a résumé.
type DegreeEntry struct {
	Degree      string  `json:"degree"`
	Field       string  `json:"field,omitempty"`
	Institution string  `json:"institution,omitempty"`
	YearRange   string  `json:"year_range,omitempty"`
	Source      string  `json:"source"`
	Confidence  float64 `json:"confidence"` // similarity score, 0..100
}

// Signature is the deduplication key: degree, field and year range.
func (d DegreeEntry) Signature() string {
	return d.Degree + "\x1f" + d.Field + "\x1f" + d.YearRange
}

// Display renders "Degree in Field at Institution (Years)", omitting the
// parts that are unknown.
func (d DegreeEntry) Display() string {
	var b strings.Builder
	b.WriteString(d.Degree)
	if d.Field != "" {
		b.WriteString(" in ")
		b.WriteString(d.Field)
	}
	if d.Institution != "" {
		b.WriteString(" at ")
		b.WriteString(d.Institution)
	}
	if d.YearRange != "" {
		b.WriteString(" (")
		b.WriteString(d.YearRange)
		b.WriteString(")")
	}
	return b.String()
}

// Record is the canonical result of extracting one résumé. Empty strings
// mean the field was not found.
type Record struct {
	Name            string        `json:"name,omitempty"`
	Email           string        `json:"email,omitempty"`
	Phone           string        `json:"phone,omitempty"`
	City            string        `json:"city,omitempty"`
	Status          string        `json:"status,omitempty"`
	Occupation      string        `json:"occupation,omitempty"`
	Level           string        `json:"level,omitempty"`
	JobTitle        string        `json:"job_title,omitempty"`
	StatusPhrase    string        `json:"status_phrase,omitempty"`
	Language        string        `json:"language"`
	Degrees         []DegreeEntry `json:"degrees"`
	Skills          []string      `json:"skills"`
	ExperienceYears int           `json:"experience_years"`
	DocumentPath    string        `json:"document_path"`
}

// DegreeStrings returns the display form of every degree, in order.
func (r *Record) DegreeStrings() []string {
	out := make([]string, 0, len(r.Degrees))
	for _, d := range r.Degrees {
		out = append(out, d.Display())
	}
	return out
}
