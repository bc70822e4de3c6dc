package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/flapetina/smartocr/internal/common"
	"github.com/flapetina/smartocr/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded parse runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := common.LoadConfig()
			store, err := history.Open(cfg.History.Path, slog.Default())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				line := fmt.Sprintf("%s  %s  %-6s  %-6s  %6dms  %s",
					r.ID, r.CreatedAt.Format(time.RFC3339), r.Source, r.Status,
					r.Duration.Milliseconds(), r.SourceName)
				if r.ErrorMessage != "" {
					line += "  " + r.ErrorMessage
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum runs to list (0 = all)")
	return cmd
}
