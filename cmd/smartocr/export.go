package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/flapetina/smartocr/internal/common"
	"github.com/flapetina/smartocr/internal/export"
	"github.com/flapetina/smartocr/internal/history"
)

func newExportCmd() *cobra.Command {
	var (
		outPath string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recorded parse runs to an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()
			cfg := common.LoadConfig()
			store, err := history.Open(cfg.History.Path, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := export.NewService(store, logger)
			b, err := svc.RunsXLSX(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return os.WriteFile(outPath, b, 0o644)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "smartocr-runs.xlsx", "output XLSX path")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum runs to export (0 = all)")
	return cmd
}
