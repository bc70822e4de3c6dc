package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/flapetina/smartocr"
	"github.com/flapetina/smartocr/internal/common"
	"github.com/flapetina/smartocr/internal/history"
	"github.com/flapetina/smartocr/internal/schema"
)

func newParseCmd() *cobra.Command {
	var (
		imagePath  string
		text       string
		textFile   string
		schemaPath string
		outPath    string
		validate   bool
		record     bool
	)

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse one image or text input into structured JSON",
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

			req := smartocr.Request{}
			sourceName := "stdin"
			source := "text"
			switch {
			case imagePath != "":
				img, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("read image: %w", err)
				}
				req.Image = img
				source, sourceName = "image", imagePath
			case textFile != "":
				b, err := os.ReadFile(textFile)
				if err != nil {
					return fmt.Errorf("read text file: %w", err)
				}
				req.Text = string(b)
				sourceName = textFile
			default:
				req.Text = text
				sourceName = "--text"
			}

			parser, err := buildParser(cfg, logger)
			if err != nil {
				return err
			}

			start := time.Now()
			doc, parseErr := parser.Parse(cmd.Context(), req, sch.Raw())

			if record {
				store, err := history.Open(cfg.History.Path, logger)
				if err != nil {
					return err
				}
				defer store.Close()
				entry := history.Entry{
					Source:     source,
					SourceName: sourceName,
					Status:     history.StatusOK,
					ResultJSON: string(doc),
					Duration:   time.Since(start),
				}
				if parseErr != nil {
					entry.Status = history.StatusFailed
					entry.ErrorMessage = parseErr.Error()
					entry.ResultJSON = ""
				}
				if err := store.Record(cmd.Context(), entry); err != nil {
					logger.Warn("history record failed", "error", err)
				}
			}
			if parseErr != nil {
				return parseErr
			}

			if validate {
				if err := sch.Validate(doc); err != nil {
					return fmt.Errorf("extracted document failed schema validation: %w", err)
				}
			}

			if outPath != "" {
				return os.WriteFile(outPath, append([]byte(doc), '\n'), 0o644)
			}
			fmt.Println(string(doc))
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "image file to recognize and parse")
	cmd.Flags().StringVar(&text, "text", "", "text to parse (ignored when --image is set)")
	cmd.Flags().StringVar(&textFile, "text-file", "", "file containing text to parse")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to the extraction schema JSON (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the result to a file instead of stdout")
	cmd.Flags().BoolVar(&validate, "validate", false, "validate the result against the schema locally")
	cmd.Flags().BoolVar(&record, "record", false, "record this run in the history store")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
