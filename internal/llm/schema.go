package llm

// BuildEntityJSONSchema returns the JSON-Schema of a recognizer answer as a
// generic map. It is sent to the model and used locally to validate.
func BuildEntityJSONSchema(labels []string) map[string]any {
	label := map[string]any{"type": "string", "minLength": 1}
	if len(labels) > 0 {
		label = map[string]any{"type": "string", "enum": labels}
	}
	entity := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"text":  map[string]any{"type": "string", "minLength": 1},
			"label": label,
			"score": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"required": []string{"text", "label"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"entities": map[string]any{"type": "array", "items": entity},
		},
		"required": []string{"entities"},
	}
}

// DefaultLabels are the entity kinds requested from the model.
var DefaultLabels = []string{LabelPerson, LabelLocation, LabelOrg}
