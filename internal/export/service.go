package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/resume-tracker/internal/entity"
	"github.com/joseph-ayodele/resume-tracker/internal/repository"
	"github.com/joseph-ayodele/resume-tracker/internal/utils"
)

const (
	SheetName = "Candidates"
	// maxRows caps one workbook.
	maxRows = 10000
)

var Headers = []string{
	"Name",
	"Email",
	"Phone",
	"City",
	"Status",
	"Occupation",
	"Level",
	"Job Title",
	"Experience (years)",
	"Degrees",
	"Skills",
	"Language",
	"Résumé Path",
	"Added",
}

// Service produces XLSX bytes for candidate exports.
type Service struct {
	candidates repository.CandidateRepository
	logger     *slog.Logger
}

func NewService(candidates repository.CandidateRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{candidates: candidates, logger: logger}
}

// ExportCandidatesXLSX returns a workbook with one row per candidate matching
// filter. A zero Limit exports every match up to maxRows.
func (s *Service) ExportCandidatesXLSX(ctx context.Context, filter entity.CandidateFilter) ([]byte, error) {
	start := time.Now()

	cands, err := s.collect(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("export.xlsx.close_failed", "err", err)
		}
	}()
	// The default sheet is renamed so the workbook has exactly one.
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(Headers), 1)
		_ = f.SetCellStyle(SheetName, "A1", last, style)
	}

	for i, c := range cands {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		write(1, utils.StrOrEmpty(c.Name))
		write(2, utils.StrOrEmpty(c.Email))
		write(3, utils.StrOrEmpty(c.Phone))
		write(4, utils.StrOrEmpty(c.City))
		write(5, utils.StrOrEmpty(c.Status))
		write(6, utils.StrOrEmpty(c.Occupation))
		write(7, utils.StrOrEmpty(c.Level))
		write(8, utils.StrOrEmpty(c.JobTitle))
		write(9, c.ExperienceYears)
		write(10, strings.Join(c.Degrees, "; "))
		write(11, strings.Join(c.Skills, "; "))
		write(12, c.Language)
		write(13, c.PDFPath)
		write(14, c.CreatedAt.UTC().Format("2006-01-02"))
	}

	_ = f.SetColWidth(SheetName, "A", "B", 28) // name, email
	_ = f.SetColWidth(SheetName, "C", "H", 18)
	_ = f.SetColWidth(SheetName, "I", "I", 10)
	_ = f.SetColWidth(SheetName, "J", "K", 60) // degrees, skills
	_ = f.SetColWidth(SheetName, "M", "M", 60) // path

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(cands),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// collect pages through Filter when no explicit limit is given.
func (s *Service) collect(ctx context.Context, filter entity.CandidateFilter) ([]*entity.Candidate, error) {
	if filter.Limit > 0 {
		return s.candidates.Filter(ctx, filter)
	}
	var out []*entity.Candidate
	filter.Limit = repository.MaxListLimit
	for len(out) < maxRows {
		page, err := s.candidates.Filter(ctx, filter)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < filter.Limit {
			break
		}
		filter.Offset += len(page)
	}
	if len(out) > maxRows {
		out = out[:maxRows]
	}
	return out, nil
}
