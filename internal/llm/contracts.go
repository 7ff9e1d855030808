package llm

import "context"

// Entity labels understood by the pipeline.
const (
	LabelPerson   = "PERSON"
	LabelLocation = "GPE"
	LabelOrg      = "ORG"
)

// Entity is one named entity found in a text span.
type Entity struct {
	Text  string  `json:"text"`
	Label string  `json:"label"`
	Score float32 `json:"score,omitempty"` // optional (0..1)
}

// EntityRecognizer is the named-entity model the name extractor depends on.
// Implementations must be safe for concurrent use.
type EntityRecognizer interface {
	Entities(ctx context.Context, text string) ([]Entity, error)
}

// FirstOf returns the first entity carrying label.
func FirstOf(entities []Entity, label string) (Entity, bool) {
	for _, e := range entities {
		if e.Label == label {
			return e, true
		}
	}
	return Entity{}, false
}
