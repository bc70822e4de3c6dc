package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/flapetina/smartocr/internal/history"
)

// Service produces XLSX bytes from recorded parse runs.
type Service struct {
	store  *history.Store
	logger *slog.Logger
}

func NewService(store *history.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// RunsXLSX returns an XLSX workbook (as bytes) of up to limit recorded runs,
// newest first. limit <= 0 exports everything.
func (s *Service) RunsXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	runs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Runs"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Run ID",
		"Timestamp",
		"Source",
		"Source Name",
		"Status",
		"Duration (ms)",
		"Error",
		"Result JSON",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range runs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.ID.String())
		write(2, r.CreatedAt.Format(time.RFC3339))
		write(3, r.Source)
		write(4, r.SourceName)
		write(5, r.Status)
		write(6, r.Duration.Milliseconds())
		write(7, truncate(r.ErrorMessage, 200))
		write(8, truncate(r.ResultJSON, 1000))

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 38) // run id
	_ = f.SetColWidth(sheet, "B", "B", 22) // timestamp
	_ = f.SetColWidth(sheet, "D", "D", 32) // source name
	_ = f.SetColWidth(sheet, "G", "H", 48) // error / result

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.runs.ok", "rows", len(runs),
		"bytes", buf.Len(), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
