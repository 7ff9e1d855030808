package entity

import (
	"time"

	"github.com/google/uuid"
)

// ExtractJob tracks one pipeline run over one file.
type ExtractJob struct {
	ID           uuid.UUID  `json:"id"`
	FilePath     string     `json:"file_path"`
	ContentHash  string     `json:"content_hash"`
	CandidateID  *uuid.UUID `json:"candidate_id,omitempty"`
	Status       string     `json:"status"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}
