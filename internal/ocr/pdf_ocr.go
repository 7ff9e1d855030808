package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// renderPage rasterizes one page with pdftoppm and returns the PNG path.
func (p *PageOCR) renderPage(ctx context.Context, path string, page int, dir string) (string, []string, error) {
	if page < 1 {
		return "", nil, fmt.Errorf("ocr: invalid page %d", page)
	}
	prefix := filepath.Join(dir, "page")
	n := strconv.Itoa(page)

	// pdftoppm -r 300 -png -f N -l N -singlefile <in.pdf> <tmp/page>
	_, errb, err := p.runner.Run(ctx, p.cfg.Pdftoppm,
		"-r", strconv.Itoa(p.cfg.DPI), "-png", "-f", n, "-l", n, "-singlefile", path, prefix)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("pdftoppm: %w", err)
	}

	out := prefix + ".png"
	if _, err := os.Stat(out); err != nil {
		return "", []string{"pdftoppm produced no image"}, fmt.Errorf("page %d not rendered: %w", page, err)
	}
	return out, nil, nil
}
