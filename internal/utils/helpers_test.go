package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/resume-tracker/internal/entity"
)

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.pdf")
	if err := os.WriteFile(path, []byte("abc"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Fatalf("HashFile = %q, want %q", got, want)
	}
	if _, err := HashFile(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Fatalf("HashFile of missing file returned nil error")
	}
}

func TestToPBCandidate(t *testing.T) {
	city := "Rabat"
	c := &entity.Candidate{
		ID:              uuid.MustParse("7b0f3c4e-1f7a-4a53-9d7e-2b8f0f6f0c11"),
		City:            &city,
		Language:        "english",
		ExperienceYears: 4,
		Degrees:         []string{"Master in Finance"},
		Skills:          []string{"SQL"},
		PDFPath:         "/cv/a.pdf",
		CreatedAt:       time.Date(2025, 1, 2, 3, 4, 5, 600, time.UTC),
	}
	s, err := ToPBCandidate(c)
	if err != nil {
		t.Fatalf("ToPBCandidate: %v", err)
	}
	f := s.GetFields()
	if got := f["city"].GetStringValue(); got != "Rabat" {
		t.Fatalf("city = %q, want %q", got, "Rabat")
	}
	if _, ok := f["name"]; ok {
		t.Fatalf("name present for a nil field")
	}
	if got := f["experience_years"].GetNumberValue(); got != 4 {
		t.Fatalf("experience_years = %v, want 4", got)
	}
	if got := f["created_at"].GetStringValue(); got != "2025-01-02T03:04:05Z" {
		t.Fatalf("created_at = %q", got)
	}
	if got := f["skills"].GetListValue().GetValues()[0].GetStringValue(); got != "SQL" {
		t.Fatalf("skills[0] = %q, want SQL", got)
	}
}

func TestToCandidateFilter(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{
		"city":           "Casablanca",
		"skill":          "go",
		"min_experience": 3,
		"limit":          10,
	})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	f, err := ToCandidateFilter(s)
	if err != nil {
		t.Fatalf("ToCandidateFilter: %v", err)
	}
	want := entity.CandidateFilter{City: "Casablanca", Skill: "go", MinExperience: 3, Limit: 10}
	if f != want {
		t.Fatalf("ToCandidateFilter = %+v, want %+v", f, want)
	}

	if f, err := ToCandidateFilter(nil); err != nil || f != (entity.CandidateFilter{}) {
		t.Fatalf("ToCandidateFilter(nil) = %+v, %v", f, err)
	}

	bad, _ := structpb.NewStruct(map[string]any{"min_experience": "many"})
	if _, err := ToCandidateFilter(bad); err == nil {
		t.Fatalf("ToCandidateFilter accepted a string min_experience")
	}
}
