package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

var labelSynonyms = map[string]string{
	"PER":          LabelPerson,
	"PERSON":       LabelPerson,
	"NAME":         LabelPerson,
	"LOC":          LabelLocation,
	"LOCATION":     LabelLocation,
	"CITY":         LabelLocation,
	"GPE":          LabelLocation,
	"ORG":          LabelOrg,
	"ORGANIZATION": LabelOrg,
	"ORGANISATION": LabelOrg,
}

// NormalizeEntitiesJSON repairs common deviations in a model answer so that
// it can still validate:
//   - a bare array is wrapped into {"entities": [...]}
//   - "entity"/"name"/"type" keys are renamed to "text"/"label"
//   - labels are upper-cased and mapped through known synonyms
//   - entries with empty text or unknown labels are dropped
//
// It returns the repaired document and the list of changes applied.
func NormalizeEntitiesJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var top any
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var changes []string
	var items []any
	switch t := top.(type) {
	case []any:
		items = t
		changes = append(changes, "wrapped_array")
	case map[string]any:
		list, ok := t["entities"].([]any)
		if !ok && t["entities"] != nil {
			return nil, nil, fmt.Errorf("sanitize: entities is %T", t["entities"])
		}
		items = list
		if len(t) > 1 {
			changes = append(changes, "dropped_top_level_keys")
		}
	default:
		return nil, nil, fmt.Errorf("sanitize: unexpected top-level %T", top)
	}

	out := make([]map[string]any, 0, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			changes = append(changes, fmt.Sprintf("dropped[%d](type)", i))
			continue
		}
		text := firstString(m, "text", "entity", "name", "value")
		label := strings.ToUpper(strings.TrimSpace(firstString(m, "label", "type", "entity_type")))
		if mapped, ok := labelSynonyms[label]; ok {
			label = mapped
		} else {
			changes = append(changes, fmt.Sprintf("dropped[%d](label=%s)", i, label))
			continue
		}
		if text = strings.TrimSpace(text); text == "" {
			changes = append(changes, fmt.Sprintf("dropped[%d](empty)", i))
			continue
		}
		e := map[string]any{"text": text, "label": label}
		if s, ok := m["score"].(float64); ok && s >= 0 && s <= 1 {
			e["score"] = s
		}
		out = append(out, e)
	}

	b, err := json.Marshal(map[string]any{"entities": out})
	if err != nil {
		return nil, nil, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(changes) > 0 {
		logger.Debug("llm.sanitize.applied", "changes", changes)
	}
	return b, changes, nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
