package layout

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Inspection is the structural summary of a PDF.
type Inspection struct {
	PageCount int
	// ImagePages holds the 1-based pages that reference image XObjects.
	ImagePages map[int]bool
	// HasImages is set when any image stream exists, even if it could not be
	// attributed to a page.
	HasImages bool
}

// Inspector validates a document before reconstruction.
type Inspector func(path string) (*Inspection, error)

// Inspect validates path and reports its page count and image pages.
func Inspect(path string) (*Inspection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	ins := &Inspection{PageCount: ctx.PageCount, ImagePages: make(map[int]bool)}
	if ctx.Optimize != nil {
		for p := 1; p <= ctx.PageCount; p++ {
			if len(pdfcpu.ImageObjNrs(ctx, p)) > 0 {
				ins.ImagePages[p] = true
				ins.HasImages = true
			}
		}
	}
	if !ins.HasImages {
		ins.HasImages = hasImageStream(ctx)
	}
	return ins, nil
}

func hasImageStream(ctx *model.Context) bool {
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, found := sd.Find("Subtype"); found {
			if name, isName := subtype.(types.Name); isName && name == "Image" {
				return true
			}
		}
	}
	return false
}
