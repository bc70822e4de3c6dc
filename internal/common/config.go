package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	LLM     LLMConfig
	History HistoryConfig
}

// LLMConfig holds model runtime configuration
type LLMConfig struct {
	BaseURL          string
	VisionModel      string
	TextModel        string
	Timeout          time.Duration
	MaxRetries       int
	VisionPoolConfig string
	TextPoolConfig   string
}

// HistoryConfig holds run-history store configuration
type HistoryConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:          getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			VisionModel:      getEnv("OLLAMA_VISION_MODEL", "llama3.2-vision"),
			TextModel:        getEnv("OLLAMA_TEXT_MODEL", "llama3.2"),
			Timeout:          getEnvAsDuration("OLLAMA_TIMEOUT", 5*time.Minute),
			MaxRetries:       getEnvAsInt("OLLAMA_MAX_RETRIES", 3),
			VisionPoolConfig: getEnv("OLLAMA_VISION_POOL_CONFIG", ""),
			TextPoolConfig:   getEnv("OLLAMA_TEXT_POOL_CONFIG", ""),
		},
		History: HistoryConfig{
			Path: getEnv("SMARTOCR_HISTORY_PATH", "./smartocr-history.db"),
		},
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.BaseURL == "" && c.LLM.VisionPoolConfig == "" && c.LLM.TextPoolConfig == "" {
		return NewAppError("CONFIG_ERROR", "OLLAMA_BASE_URL is required when no pool config is set", nil)
	}
	if c.LLM.VisionModel == "" || c.LLM.TextModel == "" {
		return NewAppError("CONFIG_ERROR", "vision and text model names must not be empty", nil)
	}
	return nil
}
