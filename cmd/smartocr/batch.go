package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flapetina/smartocr/internal/common"
	"github.com/flapetina/smartocr/internal/history"
	"github.com/flapetina/smartocr/internal/schema"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
}

func newBatchCmd() *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Parse every image in a directory, recording each run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()
			cfg := common.LoadConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}

			schemaRaw, err := os.ReadFile(schemaPath)
			if err != nil {
				return fmt.Errorf("read schema: %w", err)
			}
			sch, err := schema.FromString(string(schemaRaw))
			if err != nil {
				return err
			}

			parser, err := buildParser(cfg, logger)
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.History.Path, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := os.ReadDir(args[0])
			if err != nil {
				return fmt.Errorf("read dir: %w", err)
			}

			var ok, failed int
			for _, de := range entries {
				if de.IsDir() || !imageExts[strings.ToLower(filepath.Ext(de.Name()))] {
					continue
				}
				path := filepath.Join(args[0], de.Name())
				img, err := os.ReadFile(path)
				if err != nil {
					logger.Error("batch.read_failed", "path", path, "error", err)
					failed++
					continue
				}

				start := time.Now()
				doc, parseErr := parser.ParseImage(cmd.Context(), img, sch.Raw())

				entry := history.Entry{
					Source:     "image",
					SourceName: path,
					Status:     history.StatusOK,
					ResultJSON: string(doc),
					Duration:   time.Since(start),
				}
				if parseErr != nil {
					entry.Status = history.StatusFailed
					entry.ErrorMessage = parseErr.Error()
					entry.ResultJSON = ""
					logger.Error("batch.parse_failed", "path", path, "error", parseErr)
					failed++
				} else {
					logger.Info("batch.parse_ok", "path", path,
						"doc_bytes", len(doc), "elapsed_ms", time.Since(start).Milliseconds())
					ok++
				}
				if err := store.Record(cmd.Context(), entry); err != nil {
					logger.Warn("history record failed", "path", path, "error", err)
				}
			}

			logger.Info("batch.done", "ok", ok, "failed", failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, ok+failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to the extraction schema JSON (required)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
