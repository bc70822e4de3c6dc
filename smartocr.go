// Package smartocr extracts structured JSON from images or free-form text by
// driving a vision model for optical recognition and a text model for
// schema-guided extraction, then sanitizing the model output into a single
// trustworthy JSON document.
package smartocr

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/flapetina/smartocr/internal/extract"
	"github.com/flapetina/smartocr/internal/llm"
	"github.com/flapetina/smartocr/internal/llm/ollama"
	"github.com/flapetina/smartocr/internal/ocr"
	"github.com/flapetina/smartocr/internal/pipeline"
)

// Request mirrors pipeline.Request: an optional image (presence = non-nil)
// and an optional text (presence = non-empty). Image wins when both are set.
type Request = pipeline.Request

// Parser is the front door: it wires the OCR and extraction services behind
// a single pipeline. Safe for concurrent use.
type Parser struct {
	pipeline *pipeline.Pipeline
}

type options struct {
	baseURL      string
	visionModel  string
	textModel    string
	timeout      time.Duration
	maxRetries   uint
	visionClient llm.Client
	textClient   llm.Client
	logger       *slog.Logger
}

// Option configures a Parser.
type Option func(*options)

// WithBaseURL points both models at an Ollama server. Ignored for a model
// whose client was injected directly.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithVisionModel sets the vision model name (default llama3.2-vision).
func WithVisionModel(model string) Option {
	return func(o *options) { o.visionModel = model }
}

// WithTextModel sets the text model name (default llama3.2).
func WithTextModel(model string) Option {
	return func(o *options) { o.textModel = model }
}

// WithTimeout sets the transport timeout for the default clients.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMaxRetries sets the transport retry attempts for the default clients.
func WithMaxRetries(n uint) Option {
	return func(o *options) { o.maxRetries = n }
}

// WithVisionClient injects the client used for recognition calls.
func WithVisionClient(c llm.Client) Option {
	return func(o *options) { o.visionClient = c }
}

// WithTextClient injects the client used for extraction calls.
func WithTextClient(c llm.Client) Option {
	return func(o *options) { o.textClient = c }
}

// WithClient injects one client for both recognition and extraction.
func WithClient(c llm.Client) Option {
	return func(o *options) {
		o.visionClient = c
		o.textClient = c
	}
}

// WithPoolConfigs builds round-robin endpoint pools from the given YAML
// files, one per model role.
func WithPoolConfigs(visionPath, textPath string, logger *slog.Logger) (Option, error) {
	visionPool, err := ollama.NewPoolFromFile(visionPath, logger)
	if err != nil {
		return nil, err
	}
	textPool, err := ollama.NewPoolFromFile(textPath, logger)
	if err != nil {
		return nil, err
	}
	return func(o *options) {
		o.visionClient = visionPool
		o.textClient = textPool
	}, nil
}

// WithLogger sets the structured logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New builds a Parser. With no options it targets a local Ollama instance
// with the default models.
func New(opts ...Option) *Parser {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	if o.visionClient == nil || o.textClient == nil {
		shared := ollama.NewClient(ollama.Config{
			BaseURL:    o.baseURL,
			Timeout:    o.timeout,
			MaxRetries: o.maxRetries,
		}, o.logger)
		if o.visionClient == nil {
			o.visionClient = shared
		}
		if o.textClient == nil {
			o.textClient = shared
		}
	}

	ocrSvc := ocr.NewService(o.visionClient, o.visionModel, o.logger)
	extractSvc := extract.NewService(o.textClient, o.textModel, o.logger)
	return &Parser{
		pipeline: pipeline.New(ocrSvc, extractSvc, o.logger),
	}
}

// Parse extracts a JSON document from the request per the precedence rule:
// an image, when present, is recognized and its text used; otherwise the
// supplied text is used directly.
func (p *Parser) Parse(ctx context.Context, req Request, schemaJSON string) (json.RawMessage, error) {
	return p.pipeline.Run(ctx, req, schemaJSON)
}

// ParseImage extracts a JSON document from an image.
func (p *Parser) ParseImage(ctx context.Context, image []byte, schemaJSON string) (json.RawMessage, error) {
	return p.pipeline.Run(ctx, Request{Image: image}, schemaJSON)
}

// ParseText extracts a JSON document from raw text.
func (p *Parser) ParseText(ctx context.Context, text, schemaJSON string) (json.RawMessage, error) {
	return p.pipeline.Run(ctx, Request{Text: text}, schemaJSON)
}
