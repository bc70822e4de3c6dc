package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/flapetina/smartocr/internal/common"
)

// Recognizer turns image bytes into plain text (vision OCR).
type Recognizer interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// Extractor turns text plus an opaque schema string into a JSON document.
type Extractor interface {
	Extract(ctx context.Context, text, schemaJSON string) (json.RawMessage, error)
}

// Request carries the inputs for one parse. Image presence is Image != nil;
// text presence is a non-empty string. A whitespace-only text is present but
// blank and rejected as such.
type Request struct {
	// Image takes precedence over Text whenever it is set, even if the
	// image path subsequently fails.
	Image []byte
	Text  string
}

// Pipeline decides which input feeds extraction and drives the stages in
// order: recognition, then structured extraction. It holds no state and is
// safe for concurrent use when its collaborators are.
type Pipeline struct {
	ocr       Recognizer
	extractor Extractor
	logger    *slog.Logger
}

func New(ocr Recognizer, extractor Extractor, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{ocr: ocr, extractor: extractor, logger: logger}
}

// Run validates the request, resolves the one text stream to extract from,
// and returns the extracted JSON document. No failure is retried or replaced
// by a default result.
func (p *Pipeline) Run(ctx context.Context, req Request, schemaJSON string) (json.RawMessage, error) {
	if req.Image == nil && req.Text == "" {
		return nil, common.NewAppError(common.CodeMissingInput,
			"at least one of image or text must be provided", nil)
	}
	if strings.TrimSpace(schemaJSON) == "" {
		return nil, common.NewAppError(common.CodeBlankSchema,
			"extraction schema must not be blank", nil)
	}

	text, err := p.resolveText(ctx, req)
	if err != nil {
		return nil, err
	}

	return p.extractor.Extract(ctx, text, schemaJSON)
}

func (p *Pipeline) resolveText(ctx context.Context, req Request) (string, error) {
	if req.Image != nil {
		if len(req.Image) == 0 {
			return "", common.NewAppError(common.CodeEmptyImage, "image must not be empty", nil)
		}
		p.logger.Debug("pipeline.resolve", "source", "image", "image_bytes", len(req.Image))
		return p.ocr.ExtractText(ctx, req.Image)
	}

	if strings.TrimSpace(req.Text) == "" {
		return "", common.NewAppError(common.CodeBlankText, "text must not be blank", nil)
	}
	// Caller-supplied text is used as-is; normalization exists for
	// recognition output only.
	p.logger.Debug("pipeline.resolve", "source", "text", "text_len", len(req.Text))
	return req.Text, nil
}
