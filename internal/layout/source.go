package layout

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Glyph is one positioned text run on a page. Top grows downwards from the
// top edge of the page.
type Glyph struct {
	Text     string
	X        float64
	Top      float64
	W        float64
	FontSize float64
}

// Source gives page-wise access to the positioned text of a document.
// Pages are 1-based.
type Source interface {
	NumPages() int
	PageGlyphs(page int) ([]Glyph, error)
	Close() error
}

// Opener opens a document for reconstruction.
type Opener func(path string) (Source, error)

const defaultPageHeight = 792.0 // US letter, points

type pdfSource struct {
	f *os.File
	r *pdf.Reader
}

// OpenPDF opens path with the native PDF text reader.
func OpenPDF(path string) (Source, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &pdfSource{f: f, r: r}, nil
}

func (s *pdfSource) NumPages() int { return s.r.NumPage() }

func (s *pdfSource) Close() error { return s.f.Close() }

func (s *pdfSource) PageGlyphs(n int) (glyphs []Glyph, err error) {
	p := s.r.Page(n)
	if p.V.IsNull() {
		return nil, nil
	}
	// The content parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			glyphs, err = nil, fmt.Errorf("page %d content: %v", n, r)
		}
	}()

	height := pageHeight(p)
	content := p.Content()
	glyphs = make([]Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		glyphs = append(glyphs, Glyph{
			Text:     t.S,
			X:        t.X,
			Top:      height - t.Y - t.FontSize,
			W:        t.W,
			FontSize: t.FontSize,
		})
	}
	return glyphs, nil
}

func pageHeight(p pdf.Page) float64 {
	box := p.V.Key("MediaBox")
	if box.IsNull() {
		box = p.V.Key("Parent").Key("MediaBox")
	}
	if box.Len() != 4 {
		return defaultPageHeight
	}
	h := box.Index(3).Float64() - box.Index(1).Float64()
	if h <= 0 {
		return defaultPageHeight
	}
	return h
}
