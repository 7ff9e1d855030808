package common

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("OCR_ENGINE", "")
	t.Setenv("PIPELINE_DOC_TIMEOUT", "")

	cfg := LoadConfig()
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("Driver = %q, want %q", cfg.Database.Driver, "postgres")
	}
	if cfg.OCR.Engine != "tesseract" {
		t.Fatalf("Engine = %q, want %q", cfg.OCR.Engine, "tesseract")
	}
	if cfg.OCR.DPI != 300 {
		t.Fatalf("DPI = %d, want 300", cfg.OCR.DPI)
	}
	if cfg.Pipeline.DocTimeout != 2*time.Minute {
		t.Fatalf("DocTimeout = %v, want 2m", cfg.Pipeline.DocTimeout)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_URL", "file:test.db")
	t.Setenv("PIPELINE_WORKERS", "6")
	t.Setenv("PIPELINE_DOC_TIMEOUT", "15s")
	t.Setenv("OCR_PREPROCESS", "false")

	cfg := LoadConfig()
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("Driver = %q, want %q", cfg.Database.Driver, "sqlite")
	}
	if cfg.Pipeline.Workers != 6 {
		t.Fatalf("Workers = %d, want 6", cfg.Pipeline.Workers)
	}
	if cfg.Pipeline.DocTimeout != 15*time.Second {
		t.Fatalf("DocTimeout = %v, want 15s", cfg.Pipeline.DocTimeout)
	}
	if cfg.OCR.Preprocess {
		t.Fatal("expected OCR_PREPROCESS=false to disable preprocessing")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "sqlite", DSN: "file:x.db"},
			Server:   ServerConfig{GRPCAddr: ":0"},
			OCR:      OCRConfig{Engine: "tesseract", DPI: 300},
			Pipeline: PipelineConfig{Workers: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }},
		{"missing addr", func(c *Config) { c.Server.GRPCAddr = "" }},
		{"azure without key", func(c *Config) { c.OCR.Engine = "azure"; c.OCR.AzureEndpoint = "https://x" }},
		{"unknown engine", func(c *Config) { c.OCR.Engine = "paddle" }},
		{"low dpi", func(c *Config) { c.OCR.DPI = 10 }},
		{"no workers", func(c *Config) { c.Pipeline.Workers = 0 }},
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("base config should validate: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("Validate() = %v, want ErrConfig", err)
			}
		})
	}
}
