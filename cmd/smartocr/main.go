package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/flapetina/smartocr"
	"github.com/flapetina/smartocr/internal/common"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "smartocr",
		Short:         "Extract structured JSON from images or text using local models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional; env vars win either way.
			_ = godotenv.Load()

			level := slog.LevelInfo
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				level = slog.LevelInfo
			}
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newParseCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newExportCmd())
	return root
}

// buildParser wires a Parser from environment configuration, using endpoint
// pools when pool config files are set.
func buildParser(cfg *common.Config, logger *slog.Logger) (*smartocr.Parser, error) {
	opts := []smartocr.Option{
		smartocr.WithLogger(logger),
		smartocr.WithBaseURL(cfg.LLM.BaseURL),
		smartocr.WithVisionModel(cfg.LLM.VisionModel),
		smartocr.WithTextModel(cfg.LLM.TextModel),
		smartocr.WithTimeout(cfg.LLM.Timeout),
		smartocr.WithMaxRetries(uint(cfg.LLM.MaxRetries)),
	}
	if cfg.LLM.VisionPoolConfig != "" && cfg.LLM.TextPoolConfig != "" {
		poolOpt, err := smartocr.WithPoolConfigs(cfg.LLM.VisionPoolConfig, cfg.LLM.TextPoolConfig, logger)
		if err != nil {
			return nil, fmt.Errorf("load pool configs: %w", err)
		}
		opts = append(opts, poolOpt)
	}
	return smartocr.New(opts...), nil
}
