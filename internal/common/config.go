package common

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	LLM      LLMConfig
	Pipeline PipelineConfig
	Ingest   IngestConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string // postgres or sqlite
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Engine           string // tesseract or azure
	DPI              int
	Languages        string
	TessdataDir      string
	ArtifactCacheDir string
	Preprocess       bool
	AzureEndpoint    string
	AzureKey         string
}

// LLMConfig configures the named-entity recognizer used for candidate names.
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// PipelineConfig holds extraction pipeline settings
type PipelineConfig struct {
	LexiconPath    string
	DocTimeout     time.Duration
	Workers        int
	QueueSize      int
	PersistRecords bool
}

// IngestConfig holds directory ingestion settings
type IngestConfig struct {
	WatchDir  string
	Recursive bool
	Debounce  time.Duration
}

// LoadConfig loads configuration from environment variables. A .env file in the
// working directory, when present, seeds variables that are not already set.
func LoadConfig() *Config {
	loadDotEnv(".env")
	return &Config{
		Database: DatabaseConfig{
			Driver:           strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		},
		OCR: OCRConfig{
			Engine:           strings.ToLower(getEnv("OCR_ENGINE", "tesseract")),
			DPI:              getEnvAsInt("OCR_DPI", 300),
			Languages:        getEnv("OCR_LANGUAGES", "eng+fra"),
			TessdataDir:      getEnv("TESSDATA_PREFIX", ""),
			ArtifactCacheDir: getEnv("ARTIFACT_CACHE_DIR", "./tmp"),
			Preprocess:       getEnvAsBool("OCR_PREPROCESS", true),
			AzureEndpoint:    getEnv("AZURE_VISION_ENDPOINT", ""),
			AzureKey:         getEnv("AZURE_VISION_KEY", ""),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 30*time.Second),
		},
		Pipeline: PipelineConfig{
			LexiconPath:    getEnv("LEXICON_PATH", ""),
			DocTimeout:     getEnvAsDuration("PIPELINE_DOC_TIMEOUT", 2*time.Minute),
			Workers:        getEnvAsInt("PIPELINE_WORKERS", 2),
			QueueSize:      getEnvAsInt("PIPELINE_QUEUE_SIZE", 64),
			PersistRecords: getEnvAsBool("PIPELINE_PERSIST", true),
		},
		Ingest: IngestConfig{
			WatchDir:  getEnv("WATCH_DIR", ""),
			Recursive: getEnvAsBool("WATCH_RECURSIVE", true),
			Debounce:  getEnvAsDuration("WATCH_DEBOUNCE", 2*time.Second),
		},
	}
}

var dotEnvErr error

// loadDotEnv never overrides variables already present in the environment.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		dotEnvErr = err
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if dotEnvErr != nil {
		return ConfigError("cannot parse .env", dotEnvErr)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return ConfigError("DB_DRIVER must be postgres or sqlite", nil)
	}
	if c.Database.DSN == "" {
		return ConfigError("DB_URL is required", nil)
	}
	if c.Server.GRPCAddr == "" {
		return ConfigError("GRPC_ADDR is required", nil)
	}
	return c.ValidatePipeline()
}

// ValidatePipeline checks only the settings the extraction pipeline needs,
// so CLIs that never touch the database can validate on their own.
func (c *Config) ValidatePipeline() error {
	switch c.OCR.Engine {
	case "tesseract":
	case "azure":
		if c.OCR.AzureEndpoint == "" || c.OCR.AzureKey == "" {
			return ConfigError("AZURE_VISION_ENDPOINT and AZURE_VISION_KEY are required for the azure OCR engine", nil)
		}
	default:
		return ConfigError("OCR_ENGINE must be tesseract or azure", nil)
	}
	if c.OCR.DPI < 72 {
		return ConfigError("OCR_DPI must be at least 72", nil)
	}
	if c.Pipeline.Workers < 1 {
		return ConfigError("PIPELINE_WORKERS must be positive", nil)
	}
	return nil
}
