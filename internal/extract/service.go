package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flapetina/smartocr/internal/common"
	"github.com/flapetina/smartocr/internal/llm"
	"github.com/flapetina/smartocr/internal/parser"
)

// DefaultModel is the text model used when none is configured.
const DefaultModel = "llama3.2"

// Service extracts structured JSON from text using a text model. The schema
// string is passed into the prompt byte-for-byte and never interpreted here.
type Service struct {
	client llm.Client
	model  string
	logger *slog.Logger
}

func NewService(client llm.Client, model string, logger *slog.Logger) *Service {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, model: model, logger: logger}
}

// Extract prompts the model with schema + text and sanitizes the response
// into a single JSON document. Model failures carry the extraction stage
// code; sanitization failures keep their own codes.
func (s *Service) Extract(ctx context.Context, text, schemaJSON string) (json.RawMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.NewAppError(common.CodeBlankText, "text must not be blank", nil)
	}
	if strings.TrimSpace(schemaJSON) == "" {
		return nil, common.NewAppError(common.CodeBlankSchema, "extraction schema must not be blank", nil)
	}

	rid := uuid.New().String()
	start := time.Now()
	s.logger.Info("extract.start", "req_id", rid, "model", s.model, "text_len", len(text))

	prompt := llm.BuildExtractionPrompt(schemaJSON, text)
	raw, err := s.client.Generate(ctx, s.model, prompt)
	if err != nil {
		s.logger.Error("extract.failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, common.NewAppError(common.CodeExtractionFailed, "extraction failed", err)
	}

	doc, err := parser.ExtractJSON(raw)
	if err != nil {
		s.logger.Error("extract.sanitize_failed", "req_id", rid, "error", err,
			"raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	s.logger.Info("extract.ok", "req_id", rid, "doc_bytes", len(doc),
		"elapsed_ms", time.Since(start).Milliseconds())
	return doc, nil
}
