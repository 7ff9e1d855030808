package ocr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"
)

// AzureConfig configures the Azure Computer Vision recognizer.
type AzureConfig struct {
	Endpoint string
	Key      string
	Language string // OCR language code, "unk" lets the service detect it
}

var azureLanguages = map[string]computervision.OcrLanguages{
	"ara": computervision.OcrLanguagesAr,
	"deu": computervision.OcrLanguagesDe,
	"eng": computervision.OcrLanguagesEn,
	"spa": computervision.OcrLanguagesEs,
	"fra": computervision.OcrLanguagesFr,
	"ita": computervision.OcrLanguagesIt,
	"nld": computervision.OcrLanguagesNl,
	"por": computervision.OcrLanguagesPt,
}

// AzureLanguage maps tesseract language codes ("fra", "eng+fra") to the
// single language Azure accepts. Several or unknown languages map to "unk".
func AzureLanguage(langs string) string {
	parts := strings.FieldsFunc(langs, func(r rune) bool { return r == '+' || r == ',' })
	if len(parts) != 1 {
		return string(computervision.OcrLanguagesUnk)
	}
	code := strings.ToLower(strings.TrimSpace(parts[0]))
	if l, ok := azureLanguages[code]; ok {
		return string(l)
	}
	if len(code) == 2 {
		for _, l := range azureLanguages {
			if string(l) == code {
				return code
			}
		}
	}
	return string(computervision.OcrLanguagesUnk)
}

// azureOCRClient is the subset of computervision.BaseClient we call.
type azureOCRClient interface {
	RecognizePrintedTextInStream(ctx context.Context, detectOrientation bool, image io.ReadCloser, language computervision.OcrLanguages) (computervision.OcrResult, error)
}

// AzureRecognizer runs printed-text OCR through Azure Computer Vision.
type AzureRecognizer struct {
	client   azureOCRClient
	language computervision.OcrLanguages
	logger   *slog.Logger
}

func NewAzureRecognizer(cfg AzureConfig, logger *slog.Logger) *AzureRecognizer {
	client := computervision.New(cfg.Endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(cfg.Key)
	return newAzureRecognizer(client, cfg.Language, logger)
}

func newAzureRecognizer(client azureOCRClient, language string, logger *slog.Logger) *AzureRecognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if language == "" {
		language = string(computervision.OcrLanguagesUnk)
	}
	return &AzureRecognizer{client: client, language: computervision.OcrLanguages(language), logger: logger}
}

func (a *AzureRecognizer) Recognize(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return Result{Engine: "azure"}, fmt.Errorf("open image: %w", err)
	}
	// the SDK closes the body once the request is sent
	res, err := a.client.RecognizePrintedTextInStream(ctx, true, f, a.language)
	if err != nil {
		_ = f.Close()
		return Result{Engine: "azure"}, fmt.Errorf("azure ocr: %w", err)
	}

	txt := Normalize(ocrResultText(res))
	a.logger.Debug("ocr.azure.ok", "path", path, "chars", len(txt), "elapsed_ms", time.Since(start).Milliseconds())
	return Result{
		Text:       txt,
		Engine:     "azure",
		Confidence: heuristicConfidence(txt),
		Duration:   time.Since(start),
	}, nil
}

// ocrResultText joins words into lines and regions into paragraphs.
func ocrResultText(res computervision.OcrResult) string {
	if res.Regions == nil {
		return ""
	}
	var b strings.Builder
	for _, region := range *res.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			words := make([]string, 0, len(*line.Words))
			for _, w := range *line.Words {
				if w.Text != nil {
					words = append(words, *w.Text)
				}
			}
			b.WriteString(strings.Join(words, " "))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
