package llm

import "context"

// Client is the transport boundary to a generative model runtime.
// Implementations own connection handling, timeouts and retry policy;
// callers never retry on top of them.
type Client interface {
	// Generate sends a text prompt to the named model and returns the raw
	// response text.
	Generate(ctx context.Context, model, prompt string) (string, error)

	// GenerateVision sends a prompt plus image bytes to a vision-capable
	// model and returns the raw response text.
	GenerateVision(ctx context.Context, model, prompt string, image []byte) (string, error)
}
