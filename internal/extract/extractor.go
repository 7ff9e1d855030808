// Package extract holds the field extractors. Each one is a cascade of
// strategies over the reconstructed text of a résumé and the lexicon.
package extract

import (
	"context"

	"github.com/joseph-ayodele/resume-tracker/internal/layout"
	"github.com/joseph-ayodele/resume-tracker/internal/textnorm"
)

// Input is what every extractor sees of a document.
type Input struct {
	Text     string
	Blocks   []layout.Block
	Language textnorm.Language
}

// Candidate is a field value with its provenance.
type Candidate[T any] struct {
	Value T
	// Confidence is in [0,1] for pattern counts and heuristics, or a 0..100
	// similarity score where the strategy is fuzzy.
	Confidence float64
	Source     string
	Strategy   string
}

// Extractor produces zero or one candidate for one field. A miss is
// (zero, false, nil); errors are reserved for failures of injected services
// and context cancellation.
type Extractor[T any] interface {
	Name() string
	Extract(ctx context.Context, in Input) (Candidate[T], bool, error)
}
