package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/flapetina/smartocr/internal/llm"
)

// Config for the Ollama client.
type Config struct {
	BaseURL    string        // default http://localhost:11434
	Timeout    time.Duration // http client timeout, default 5m
	MaxRetries uint          // transport retry attempts, default 3
}

// Client talks to an Ollama server's /api/generate endpoint.
// It owns the transport retry policy; 4xx responses are not retried.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Stream bool     `json:"stream"`
	Images []string `json:"images,omitempty"`
}

type generateResponse struct {
	Response *string `json:"response"`
}

// Generate implements llm.Client.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	return c.generate(ctx, generateRequest{Model: model, Prompt: prompt})
}

// GenerateVision implements llm.Client. The image is sent base64-encoded in
// the request's images array.
func (c *Client) GenerateVision(ctx context.Context, model, prompt string, image []byte) (string, error) {
	return c.generate(ctx, generateRequest{
		Model:  model,
		Prompt: prompt,
		Images: []string{base64.StdEncoding.EncodeToString(image)},
	})
}

func (c *Client) generate(ctx context.Context, body generateRequest) (string, error) {
	endpoint := c.cfg.BaseURL + "/api/generate"

	var raw []byte
	err := retry.Do(
		func() error {
			b, status, err := llm.SendJSON(ctx, c.http, endpoint, body, nil, c.logger)
			if err != nil {
				if status >= 400 && status < 500 {
					return retry.Unrecoverable(fmt.Errorf("ollama status %d: %s", status, string(b)))
				}
				return err
			}
			raw = b
			return nil
		},
		retry.Attempts(c.cfg.MaxRetries),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if gr.Response == nil {
		return "", fmt.Errorf("no response field in ollama reply")
	}
	return *gr.Response, nil
}
