package openai

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joseph-ayodele/resume-tracker/internal/llm"
)

// Config for the OpenAI client.
type Config struct {
	APIKey      string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL     string        // default https://api.openai.com/v1
	Model       string        // e.g., "gpt-4o-mini"
	Temperature float32       // 0..2
	Timeout     time.Duration // http client timeout
	Labels      []string      // entity labels requested; default PERSON, GPE, ORG
	// Strict disables the repair pass on answers that fail schema validation.
	Strict bool
}

// Client is an llm.EntityRecognizer over the chat/completions API.
type Client struct {
	cfg       Config
	http      *http.Client
	validator *llm.SchemaValidator
	schema    map[string]any
	log       *slog.Logger
}

var _ llm.EntityRecognizer = (*Client)(nil)

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if len(cfg.Labels) == 0 {
		cfg.Labels = llm.DefaultLabels
	}
	if logger == nil {
		logger = slog.Default()
	}
	schema := llm.BuildEntityJSONSchema(cfg.Labels)
	v, err := llm.CompileSchema(schema)
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		validator: v,
		schema:    schema,
		log:       logger,
	}, nil
}
