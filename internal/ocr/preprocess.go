package ocr

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Preprocess enhances a rendered page for OCR and writes it next to the
// source as <name>-prep.png.
func Preprocess(src, dir string) (string, error) {
	img, err := imaging.Open(src)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}

	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 30)
	out = imaging.Sharpen(out, 1.5)
	out = imaging.AdjustBrightness(out, 10)
	out = imaging.AdjustGamma(out, 1.2)

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	dst := filepath.Join(dir, base+"-prep.png")
	if err := imaging.Save(out, dst); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return dst, nil
}
