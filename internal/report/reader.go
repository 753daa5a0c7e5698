package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/seoscan/seoscan/internal/model"
)

// ErrInvalidReport is returned for files that do not carry the expected
// Metric/Value/Detail header. The compiler treats such files as foreign
// and skips them instead of failing the whole compile.
var ErrInvalidReport = errors.New("not a report file: unexpected header")

// Read parses a report file back into a PageReport, the exact inverse of
// Write. The report URL is recovered from the "URL" metric row when present.
func Read(rd io.Reader) (*model.PageReport, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = 3

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read report header: %w", err)
	}
	if !slices.Equal(header, csvHeader) {
		return nil, ErrInvalidReport
	}

	report := &model.PageReport{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed report row: %w", err)
		}
		report.Add(rec[0], rec[1], rec[2])
	}

	report.URL = report.Value(model.MetricURL)
	return report, nil
}

// ReadFile reads and parses the report file at path.
func ReadFile(path string) (*model.PageReport, error) {
	f, err := os.Open(path) //nolint:gosec // Report paths come from directory discovery
	if err != nil {
		return nil, fmt.Errorf("failed to open report file: %w", err)
	}
	defer f.Close()

	return Read(f)
}
