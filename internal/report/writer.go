package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/seoscan/seoscan/internal/model"
)

// csvHeader is the fixed header row of every report file. The reader
// rejects files that do not start with exactly this header.
var csvHeader = []string{"Metric", "Value", "Detail"}

// Write serializes a page report as CSV, preserving row order.
// encoding/csv applies RFC 4180 quoting, so values containing commas,
// quotes, or newlines round-trip through Read without loss.
func Write(w io.Writer, r *model.PageReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	for _, row := range r.Rows {
		if err := cw.Write([]string{row.Metric, row.Value, row.Detail}); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the report to path with owner-only permissions,
// overwriting any existing file. Reports are written whole so an
// interrupt between URLs never leaves a truncated file behind.
func WriteFile(path string, r *model.PageReport) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := Write(f, r); err != nil {
		_ = f.Close() //nolint:errcheck // Write error takes precedence
		return err
	}
	return f.Close()
}
