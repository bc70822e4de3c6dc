package ocr

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flapetina/smartocr/internal/common"
	"github.com/flapetina/smartocr/internal/llm"
	"github.com/flapetina/smartocr/internal/parser"
)

// DefaultModel is the vision model used when none is configured.
const DefaultModel = "llama3.2-vision"

// Service extracts plain text from images using a vision-capable model.
// The model's markdown habits are stripped from the response before it is
// handed downstream.
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

// ExtractText runs the vision model over the image and returns normalized
// plain text. Upstream failures are wrapped with the OCR stage code and the
// original cause preserved.
func (s *Service) ExtractText(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", common.NewAppError(common.CodeEmptyImage, "image must not be empty", nil)
	}

	rid := uuid.New().String()
	start := time.Now()
	s.logger.Info("ocr.start", "req_id", rid, "model", s.model, "image_bytes", len(image))

	raw, err := s.client.GenerateVision(ctx, s.model, llm.BuildOCRPrompt(), image)
	if err != nil {
		s.logger.Error("ocr.failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", common.NewAppError(common.CodeOCRFailed, "ocr failed", err)
	}

	text := parser.StripMarkdown(raw)
	s.logger.Info("ocr.ok", "req_id", rid,
		"raw_bytes", len(raw), "text_bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}
