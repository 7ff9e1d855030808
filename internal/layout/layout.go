// Package layout rebuilds reading-order text from PDF pages. Native text is
// grouped into positioned blocks; pages without native text go through OCR.
package layout

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/lexicon"
	"github.com/joseph-ayodele/resume-tracker/internal/ocr"
	"github.com/joseph-ayodele/resume-tracker/internal/textnorm"
)

// RowBucket is the vertical band, in layout units, within which blocks count
// as the same visual row and are read left to right.
const RowBucket = 20.0

const (
	lineTolerance      = 3.0
	wordGapFactor      = 0.25
	columnGapFactor    = 3.0
	paragraphGapFactor = 0.9
	indentTolerance    = 12.0
	fontTolerance      = 0.5

	headerMaxLen      = 50
	scannedMinRunes   = 40 // letters and digits an image page needs to skip OCR
	headerMaxKeywords = 6 // words; longer lines are prose even if they name a section
)

var capsHeader = regexp.MustCompile(`^[\p{Lu}][\p{Lu}\s&/'-]*:?$`)

// PageRecognizer renders and recognizes one page of a document.
type PageRecognizer interface {
	OCRPage(ctx context.Context, path string, page int) (ocr.Result, error)
}

// Block is a run of consecutive lines sharing font and indentation.
type Block struct {
	Text     string
	Lines    []string
	Page     int
	X0       float64
	Top      float64
	X1       float64
	Bottom   float64
	FontSize float64
	Header   bool
}

// Page is the reconstructed content of one page.
type Page struct {
	Number     int
	Text       string
	Blocks     []Block
	OCR        bool
	Confidence float32
}

// Document is a reconstructed document.
type Document struct {
	Path  string
	Pages []Page
}

// Text joins the page texts with a blank line.
func (d *Document) Text() string {
	parts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		parts = append(parts, p.Text)
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// Blocks returns every block of every page in reading order.
func (d *Document) Blocks() []Block {
	var out []Block
	for _, p := range d.Pages {
		out = append(out, p.Blocks...)
	}
	return out
}

// Reconstructor turns documents into ordered text.
type Reconstructor struct {
	headers  []string
	ocr      PageRecognizer
	open     Opener
	inspect  Inspector
	forceOCR bool
	logger   *slog.Logger
}

type Option func(*Reconstructor)

// WithOpener replaces the native PDF reader.
func WithOpener(o Opener) Option { return func(r *Reconstructor) { r.open = o } }

// WithInspector replaces the structural check run before reading. A nil
// inspector disables it.
func WithInspector(i Inspector) Option { return func(r *Reconstructor) { r.inspect = i } }

// WithForceOCR sends every page through OCR, ignoring native text.
func WithForceOCR(force bool) Option { return func(r *Reconstructor) { r.forceOCR = force } }

// New builds a Reconstructor. rec may be nil, in which case pages without
// native text come out empty.
func New(lx *lexicon.Lexicon, rec PageRecognizer, logger *slog.Logger, opts ...Option) *Reconstructor {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Reconstructor{
		ocr:     rec,
		open:    OpenPDF,
		inspect: Inspect,
		logger:  logger,
	}
	if lx != nil {
		for _, h := range lx.SectionHeaders {
			if h = strings.TrimSpace(h); h != "" {
				r.headers = append(r.headers, strings.ToUpper(textnorm.Fold(h)))
			}
		}
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Reconstruct reads every page of path. Only an unreadable document is an
// error; pages that yield no text are kept as empty pages.
func (r *Reconstructor) Reconstruct(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ins *Inspection
	if r.inspect != nil {
		var err error
		if ins, err = r.inspect(path); err != nil {
			r.logger.Warn("layout.inspect.failed", "path", path, "err", err)
		}
	}

	src, err := r.open(path)
	if err != nil {
		return nil, common.DocumentError(path, err)
	}
	defer src.Close()

	n := src.NumPages()
	if n <= 0 {
		return nil, common.DocumentError(path, errors.New("document has no pages"))
	}
	if ins != nil && ins.PageCount != n {
		r.logger.Warn("layout.page_count.mismatch", "path", path, "native", n, "inspected", ins.PageCount)
	}

	doc := &Document{Path: path, Pages: make([]Page, 0, n)}
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.Pages = append(doc.Pages, r.page(ctx, src, path, i, ins))
	}

	r.logger.Debug("layout.document.ok", "path", path, "pages", n, "chars", len(doc.Text()))
	return doc, nil
}

func (r *Reconstructor) page(ctx context.Context, src Source, path string, n int, ins *Inspection) Page {
	// On a page that carries an image, a few native glyphs are usually a
	// scanner stamp or page number over the scanned content.
	scanned := ins != nil && ins.ImagePages[n]

	var native *Page
	if !r.forceOCR {
		glyphs, err := src.PageGlyphs(n)
		if err != nil {
			r.logger.Warn("layout.page.native_failed", "path", path, "page", n, "err", err)
		}
		blocks := r.blocks(glyphs, n)
		if hasText(blocks) {
			p := Page{Number: n, Text: render(blocks), Blocks: blocks}
			if !scanned || textRunes(blocks) >= scannedMinRunes {
				return p
			}
			native = &p
		}
	}

	if r.ocr == nil {
		if native != nil {
			return *native
		}
		r.logger.Warn("layout.page.empty", "path", path, "page", n, "reason", "no ocr engine")
		return Page{Number: n}
	}
	r.logger.Info("layout.page.ocr_fallback", "path", path, "page", n,
		"scanned", scanned, "sparse_native", native != nil, "forced", r.forceOCR)

	res, err := r.ocr.OCRPage(ctx, path, n)
	if err != nil {
		r.logger.Warn("layout.page.ocr_failed", "path", path, "page", n, "err", err)
		if native != nil {
			return *native
		}
		return Page{Number: n, OCR: true}
	}
	blocks := r.ocrBlocks(res.Text, n)
	if !hasText(blocks) && native != nil {
		return *native
	}
	return Page{Number: n, Text: render(blocks), Blocks: blocks, OCR: true, Confidence: res.Confidence}
}

// textRunes counts letters and digits across blocks.
func textRunes(bs []Block) int {
	n := 0
	for _, b := range bs {
		for _, r := range b.Text {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				n++
			}
		}
	}
	return n
}

// line is a horizontal run of glyphs with no column gap inside it.
type line struct {
	text     string
	x0, x1   float64
	top, bot float64
	font     float64
}

func (r *Reconstructor) blocks(glyphs []Glyph, page int) []Block {
	lines := groupLines(glyphs)
	if len(lines) == 0 {
		return nil
	}

	var out []Block
	open := make([]int, 0, 4) // indexes into out of blocks that can still grow
	for _, l := range lines {
		header := r.IsHeader(l.text)
		if !header {
			if idx := continuation(out, open, l); idx >= 0 {
				b := &out[idx]
				b.Lines = append(b.Lines, l.text)
				b.X0 = math.Min(b.X0, l.x0)
				b.X1 = math.Max(b.X1, l.x1)
				b.Bottom = math.Max(b.Bottom, l.bot)
				b.FontSize = math.Max(b.FontSize, l.font)
				continue
			}
		}
		out = append(out, Block{
			Lines:    []string{l.text},
			Page:     page,
			X0:       l.x0,
			Top:      l.top,
			X1:       l.x1,
			Bottom:   l.bot,
			FontSize: l.font,
			Header:   header,
		})
		if !header {
			open = append(open, len(out)-1)
		}
	}

	for i := range out {
		out[i].Text = strings.Join(out[i].Lines, "\n")
	}
	sortBlocks(out)
	return out
}

// continuation returns the open block l extends: same font, same indent,
// directly below the block's last line.
func continuation(blocks []Block, open []int, l line) int {
	for j := len(open) - 1; j >= 0; j-- {
		b := blocks[open[j]]
		if math.Abs(b.FontSize-l.font) > fontTolerance || math.Abs(b.X0-l.x0) > indentTolerance {
			continue
		}
		gap := l.top - b.Bottom
		if gap >= -lineTolerance && gap <= paragraphGapFactor*math.Max(l.font, 1) {
			return open[j]
		}
	}
	return -1
}

func groupLines(glyphs []Glyph) []line {
	if len(glyphs) == 0 {
		return nil
	}
	gs := make([]Glyph, len(glyphs))
	copy(gs, glyphs)
	sort.SliceStable(gs, func(i, j int) bool {
		if math.Abs(gs[i].Top-gs[j].Top) > lineTolerance {
			return gs[i].Top < gs[j].Top
		}
		return gs[i].X < gs[j].X
	})

	var rows [][]Glyph
	for _, g := range gs {
		if n := len(rows); n > 0 && math.Abs(rows[n-1][0].Top-g.Top) <= lineTolerance {
			rows[n-1] = append(rows[n-1], g)
			continue
		}
		rows = append(rows, []Glyph{g})
	}

	var out []line
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		out = append(out, splitColumns(row)...)
	}
	return out
}

// splitColumns cuts a visual row wherever the horizontal gap is wide enough
// to separate two columns.
func splitColumns(row []Glyph) []line {
	var out []line
	var sb strings.Builder
	cur := line{x0: row[0].X, top: row[0].Top}
	prevEnd := row[0].X

	flush := func() {
		if t := strings.TrimSpace(sb.String()); t != "" {
			cur.text = textnorm.CollapseSpaces(t)
			out = append(out, cur)
		}
		sb.Reset()
	}

	for i, g := range row {
		size := math.Max(g.FontSize, 1)
		if i > 0 {
			gap := g.X - prevEnd
			switch {
			case gap > columnGapFactor*size:
				flush()
				cur = line{x0: g.X, top: g.Top}
			case gap > wordGapFactor*size:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(g.Text)
		cur.x1 = math.Max(cur.x1, g.X+g.W)
		cur.top = math.Min(cur.top, g.Top)
		cur.bot = math.Max(cur.bot, g.Top+g.FontSize)
		cur.font = math.Max(cur.font, g.FontSize)
		prevEnd = math.Max(prevEnd, g.X+g.W)
	}
	flush()
	return out
}

// sortBlocks orders blocks by row bucket, then left to right. The trailing
// keys make the order total so repeated runs agree.
func sortBlocks(bs []Block) {
	sort.SliceStable(bs, func(i, j int) bool {
		bi, bj := math.Floor(bs[i].Top/RowBucket), math.Floor(bs[j].Top/RowBucket)
		if bi != bj {
			return bi < bj
		}
		if bs[i].X0 != bs[j].X0 {
			return bs[i].X0 < bs[j].X0
		}
		if bs[i].Top != bs[j].Top {
			return bs[i].Top < bs[j].Top
		}
		return bs[i].Text < bs[j].Text
	})
}

// ocrBlocks turns recognized text into one block per line, positioned by
// line index so that ordering and font-size ranking stay well defined.
func (r *Reconstructor) ocrBlocks(text string, page int) []Block {
	var out []Block
	for i, l := range textnorm.Lines(text) {
		top := float64(i) * RowBucket
		out = append(out, Block{
			Text:   l,
			Lines:  []string{l},
			Page:   page,
			Top:    top,
			Bottom: top + RowBucket,
			Header: r.IsHeader(l),
		})
	}
	return out
}

// IsHeader reports whether a line looks like a section header.
func (r *Reconstructor) IsHeader(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	if len(strings.Fields(t)) <= headerMaxKeywords {
		upper := strings.ToUpper(textnorm.Fold(t))
		for _, h := range r.headers {
			if strings.Contains(upper, h) {
				return true
			}
		}
	}
	if len([]rune(t)) < headerMaxLen && isUpper(t) {
		return true
	}
	return capsHeader.MatchString(t)
}

// isUpper mirrors str.isupper: at least one cased letter and no lower-case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func hasText(bs []Block) bool {
	for _, b := range bs {
		if strings.TrimSpace(b.Text) != "" {
			return true
		}
	}
	return false
}

// render emits blocks in order, headers upper-cased between blank lines.
func render(bs []Block) string {
	var sb strings.Builder
	for _, b := range bs {
		if b.Header {
			sb.WriteString("\n")
			sb.WriteString(strings.ToUpper(b.Text))
			sb.WriteString("\n\n")
			continue
		}
		sb.WriteString(b.Text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(collapseBlank.ReplaceAllString(sb.String(), "\n\n"))
}

var collapseBlank = regexp.MustCompile(`\n{3,}`)
