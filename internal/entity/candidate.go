package entity

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is a stored record.
type Candidate struct {
	ID              uuid.UUID `json:"id"`
	Name            *string   `json:"name,omitempty"`
	Email           *string   `json:"email,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	City            *string   `json:"city,omitempty"`
	Status          *string   `json:"status,omitempty"`
	Occupation      *string   `json:"occupation,omitempty"`
	Level           *string   `json:"level,omitempty"`
	JobTitle        *string   `json:"job_title,omitempty"`
	StatusPhrase    *string   `json:"status_phrase,omitempty"`
	Language        string    `json:"language"`
	ExperienceYears int       `json:"experience_years"`
	Degrees         []string  `json:"degrees"`
	Skills          []string  `json:"skills"`
	PDFPath         string    `json:"pdf_path"`
	CreatedAt       time.Time `json:"created_at"`
}

// CandidateFilter narrows candidate listings. Zero values do not filter.
type CandidateFilter struct {
	Keyword       string `json:"keyword,omitempty"` // occupation, job title or status
	City          string `json:"city,omitempty"`
	Degree        string `json:"degree,omitempty"`
	Skill         string `json:"skill,omitempty"`
	MinExperience int    `json:"min_experience,omitempty"`
	Limit         int    `json:"limit,omitempty"`
	Offset        int    `json:"offset,omitempty"`
}
