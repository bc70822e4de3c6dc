package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/goccy/go-yaml"
)

// PoolConfig describes a set of Ollama endpoints that share load.
type PoolConfig struct {
	Endpoints      []PoolEndpoint `yaml:"endpoints"`
	TimeoutSeconds int            `yaml:"timeout_seconds"`
	MaxRetries     uint           `yaml:"max_retries"`
}

type PoolEndpoint struct {
	BaseURL string `yaml:"base_url"`
}

// LoadPoolConfig reads a pool configuration from a YAML file.
func LoadPoolConfig(path string) (PoolConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return PoolConfig{}, fmt.Errorf("read pool config: %w", err)
	}
	var cfg PoolConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return PoolConfig{}, fmt.Errorf("parse pool config %s: %w", path, err)
	}
	if len(cfg.Endpoints) == 0 {
		return PoolConfig{}, fmt.Errorf("pool config %s has no endpoints", path)
	}
	for i, ep := range cfg.Endpoints {
		if ep.BaseURL == "" {
			return PoolConfig{}, fmt.Errorf("pool config %s: endpoint %d has no base_url", path, i)
		}
	}
	return cfg, nil
}

// Pool distributes requests round-robin over one client per endpoint.
// It implements llm.Client, so callers cannot tell a pool from a single
// endpoint.
type Pool struct {
	clients []*Client
	next    atomic.Uint64
}

func NewPool(cfg PoolConfig, logger *slog.Logger) (*Pool, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("pool needs at least one endpoint")
	}
	clients := make([]*Client, 0, len(cfg.Endpoints))
	for _, ep := range cfg.Endpoints {
		clients = append(clients, NewClient(Config{
			BaseURL:    ep.BaseURL,
			Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
			MaxRetries: cfg.MaxRetries,
		}, logger))
	}
	return &Pool{clients: clients}, nil
}

// NewPoolFromFile is a convenience wrapper over LoadPoolConfig + NewPool.
func NewPoolFromFile(path string, logger *slog.Logger) (*Pool, error) {
	cfg, err := LoadPoolConfig(path)
	if err != nil {
		return nil, err
	}
	return NewPool(cfg, logger)
}

func (p *Pool) pick() *Client {
	n := p.next.Add(1) - 1
	return p.clients[n%uint64(len(p.clients))]
}

// Generate implements llm.Client.
func (p *Pool) Generate(ctx context.Context, model, prompt string) (string, error) {
	return p.pick().Generate(ctx, model, prompt)
}

// GenerateVision implements llm.Client.
func (p *Pool) GenerateVision(ctx context.Context, model, prompt string, image []byte) (string, error) {
	return p.pick().GenerateVision(ctx, model, prompt, image)
}
