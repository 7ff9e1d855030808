package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-tracker/internal/llm"
)

// ErrNoAPIKey is returned when no key is configured.
var ErrNoAPIKey = errors.New("openai: api key not configured")

// Entities implements llm.EntityRecognizer using text-only chat/completions
// in JSON mode.
func (c *Client) Entities(ctx context.Context, text string) ([]llm.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if c.cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	rid := uuid.New().String()
	start := time.Now()
	c.log.Debug("llm.ner.start", "req_id", rid, "model", c.cfg.Model, "text_len", len(text))

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt(c.cfg.Labels)},
			{"role": "user", "content": llm.BuildUserPrompt(text)},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(c.schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.log)
	if err != nil {
		c.log.Error("llm.ner.http_error", "req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("openai: %w", err)
	}

	content, err := messageContent(raw)
	if err != nil {
		c.log.Error("llm.ner.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return nil, err
	}

	if err := c.validator.Validate(content); err != nil {
		if c.cfg.Strict {
			c.log.Error("llm.ner.schema_validation_failed", "req_id", rid, "error", err, "content", string(content))
			return nil, fmt.Errorf("schema validation failed: %w", err)
		}
		cleaned, changes, sErr := llm.NormalizeEntitiesJSON(content, c.log)
		if sErr != nil {
			c.log.Error("llm.ner.sanitize_failed", "req_id", rid, "error", sErr)
			return nil, fmt.Errorf("sanitize failed: %w", sErr)
		}
		if vErr := c.validator.Validate(cleaned); vErr != nil {
			c.log.Error("llm.ner.schema_validation_failed", "req_id", rid, "error", vErr, "content", string(content))
			return nil, fmt.Errorf("schema validation failed: %w", vErr)
		}
		c.log.Warn("llm.ner.lenient_sanitize_applied", "req_id", rid, "changes", changes)
		content = cleaned
	}

	var out struct {
		Entities []llm.Entity `json:"entities"`
	}
	if err := json.Unmarshal(content, &out); err != nil {
		return nil, fmt.Errorf("unmarshal entities: %w", err)
	}

	c.log.Info("llm.ner.ok", "req_id", rid, "entities", len(out.Entities),
		"elapsed_ms", time.Since(start).Milliseconds())
	return out.Entities, nil
}

func messageContent(raw []byte) ([]byte, error) {
	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return nil, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return nil, errors.New("no choices in openai response")
	}
	return []byte(strings.TrimSpace(cc.Choices[0].Message.Content)), nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
