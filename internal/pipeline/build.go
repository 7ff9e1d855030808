package pipeline

import (
	"log/slog"

	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/layout"
	"github.com/joseph-ayodele/resume-tracker/internal/lexicon"
	"github.com/joseph-ayodele/resume-tracker/internal/llm/openai"
	"github.com/joseph-ayodele/resume-tracker/internal/ocr"
)

// BuildOptions adjusts FromConfig for a single command.
type BuildOptions struct {
	ForceOCR bool
	// NoNER skips the named-entity recognizer even when an API key is set.
	NoNER bool
}

// LoadLexicon loads the configured lexicon, or the embedded default.
func LoadLexicon(cfg *common.Config) (*lexicon.Lexicon, error) {
	lx, err := lexicon.LoadOrDefault(cfg.Pipeline.LexiconPath)
	if err != nil {
		return nil, common.ConfigError("cannot load lexicon", err)
	}
	return lx, nil
}

// NewReconstructor wires the configured OCR engine behind the page renderer.
func NewReconstructor(cfg *common.Config, lx *lexicon.Lexicon, logger *slog.Logger, forceOCR bool) *layout.Reconstructor {
	ocrCfg := ocr.Config{
		Languages:   cfg.OCR.Languages,
		DPI:         cfg.OCR.DPI,
		TessdataDir: cfg.OCR.TessdataDir,
		Preprocess:  cfg.OCR.Preprocess,
		WorkDir:     cfg.OCR.ArtifactCacheDir,
	}
	var rec ocr.Recognizer
	switch cfg.OCR.Engine {
	case "azure":
		rec = ocr.NewAzureRecognizer(ocr.AzureConfig{
			Endpoint: cfg.OCR.AzureEndpoint,
			Key:      cfg.OCR.AzureKey,
			Language: ocr.AzureLanguage(cfg.OCR.Languages),
		}, logger)
	default:
		rec = ocr.NewTesseract(ocrCfg, nil, logger)
	}
	pages := ocr.NewPageOCR(ocrCfg, rec, nil, logger)
	return layout.New(lx, pages, logger, layout.WithForceOCR(forceOCR))
}

// FromConfig builds a Processor from the application configuration: the
// lexicon, the reconstructor and, when an API key is configured, the
// named-entity recognizer.
func FromConfig(cfg *common.Config, logger *slog.Logger, bo BuildOptions) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.ValidatePipeline(); err != nil {
		return nil, err
	}
	lx, err := LoadLexicon(cfg)
	if err != nil {
		return nil, err
	}
	recon := NewReconstructor(cfg, lx, logger, bo.ForceOCR)

	opts := []Option{WithDocTimeout(cfg.Pipeline.DocTimeout)}
	if cfg.LLM.APIKey != "" && !bo.NoNER {
		ner, err := openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		if err != nil {
			return nil, common.ConfigError("cannot build entity recognizer", err)
		}
		opts = append(opts, WithEntityRecognizer(ner))
	} else {
		logger.Info("pipeline.ner.disabled", "api_key_set", cfg.LLM.APIKey != "")
	}

	logger.Info("pipeline.ready",
		"ocr_engine", cfg.OCR.Engine,
		"lexicon", cfg.Pipeline.LexiconPath,
		"doc_timeout", cfg.Pipeline.DocTimeout,
	)
	return NewProcessor(lx, recon, logger, opts...), nil
}
