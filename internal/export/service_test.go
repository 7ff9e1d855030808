package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/resume-tracker/internal/entity"
	"github.com/joseph-ayodele/resume-tracker/internal/repository"
)

// pagedCandidates serves Filter from a fixed slice.
type pagedCandidates struct {
	repository.CandidateRepository
	all     []*entity.Candidate
	filters []entity.CandidateFilter
	err     error
}

func (p *pagedCandidates) Filter(_ context.Context, f entity.CandidateFilter) ([]*entity.Candidate, error) {
	p.filters = append(p.filters, f)
	if p.err != nil {
		return nil, p.err
	}
	if f.Offset >= len(p.all) {
		return nil, nil
	}
	end := min(f.Offset+f.Limit, len(p.all))
	return p.all[f.Offset:end], nil
}

func ptr(s string) *string { return &s }

func candidates(n int) []*entity.Candidate {
	out := make([]*entity.Candidate, n)
	for i := range out {
		out[i] = &entity.Candidate{
			ID:        uuid.New(),
			Name:      ptr(fmt.Sprintf("Candidate %d", i)),
			Language:  "english",
			PDFPath:   fmt.Sprintf("/cv/%d.pdf", i),
			CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func newService(repo repository.CandidateRepository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestExportCandidatesXLSX(t *testing.T) {
	first := &entity.Candidate{
		ID:              uuid.New(),
		Name:            ptr("Salma Idrissi"),
		Email:           ptr("salma@example.com"),
		City:            ptr("Rabat"),
		Language:        "french",
		ExperienceYears: 6,
		Degrees:         []string{"Master in Finance (2015-2017)", "Bachelor"},
		Skills:          []string{"Excel", "SQL"},
		PDFPath:         "/cv/salma.pdf",
		CreatedAt:       time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC),
	}
	repo := &pagedCandidates{all: []*entity.Candidate{first}}

	b, err := newService(repo).ExportCandidatesXLSX(context.Background(), entity.CandidateFilter{City: "Rabat"})
	if err != nil {
		t.Fatalf("ExportCandidatesXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetName {
		t.Fatalf("sheets = %v, want [%s]", sheets, SheetName)
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][0] != "Name" || len(rows[0]) != len(Headers) {
		t.Fatalf("header = %v", rows[0])
	}
	tests := []struct {
		col  int
		want string
	}{
		{0, "Salma Idrissi"},
		{1, "salma@example.com"},
		{2, ""},
		{3, "Rabat"},
		{8, "6"},
		{9, "Master in Finance (2015-2017); Bachelor"},
		{10, "Excel; SQL"},
		{11, "french"},
		{12, "/cv/salma.pdf"},
		{13, "2025-04-02"},
	}
	for _, tt := range tests {
		if got := rows[1][tt.col]; got != tt.want {
			t.Fatalf("row 2 col %d (%s) = %q, want %q", tt.col, Headers[tt.col], got, tt.want)
		}
	}
	if repo.filters[0].City != "Rabat" {
		t.Fatalf("filter passed = %+v", repo.filters[0])
	}
}

func TestExportPagesThroughAllCandidates(t *testing.T) {
	repo := &pagedCandidates{all: candidates(repository.MaxListLimit + 3)}

	b, err := newService(repo).ExportCandidatesXLSX(context.Background(), entity.CandidateFilter{})
	if err != nil {
		t.Fatalf("ExportCandidatesXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(SheetName)
	if got, want := len(rows), repository.MaxListLimit+3+1; got != want {
		t.Fatalf("rows = %d, want %d", got, want)
	}
	if len(repo.filters) != 2 || repo.filters[1].Offset != repository.MaxListLimit {
		t.Fatalf("filters = %+v, want two pages", repo.filters)
	}
}

func TestExportExplicitLimit(t *testing.T) {
	repo := &pagedCandidates{all: candidates(10)}
	b, err := newService(repo).ExportCandidatesXLSX(context.Background(), entity.CandidateFilter{Limit: 4})
	if err != nil {
		t.Fatalf("ExportCandidatesXLSX: %v", err)
	}
	f, _ := excelize.OpenReader(bytes.NewReader(b))
	defer f.Close()
	if rows, _ := f.GetRows(SheetName); len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
}

func TestExportQueryError(t *testing.T) {
	boom := errors.New("db down")
	_, err := newService(&pagedCandidates{err: boom}).ExportCandidatesXLSX(context.Background(), entity.CandidateFilter{})
	if !errors.Is(err, boom) {
		t.Fatalf("ExportCandidatesXLSX = %v, want wrapped %v", err, boom)
	}
}
