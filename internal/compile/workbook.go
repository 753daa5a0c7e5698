package compile

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names for the aggregate views.
const (
	sheetSummary    = "Summary"
	sheetComparison = "Comparison"
)

// Column width presentation limits.
const (
	columnWidthPadding = 2
	maxColumnWidth     = 50
)

// DefaultWorkbookName returns the timestamped default output file name.
func DefaultWorkbookName(now time.Time) string {
	return "seo_analysis_" + now.Format("20060102_150405") + ".xlsx"
}

// WriteWorkbook renders the compiled workbook as an xlsx file at path.
// Sheet order is Summary, Comparison, then one sheet per report in
// discovery order.
func WriteWorkbook(wb *Workbook, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	// The file starts with a single default sheet; rename it instead of
	// creating and deleting.
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSheet(f, sheetSummary, wb.Summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetComparison); err != nil {
		return fmt.Errorf("failed to create comparison sheet: %w", err)
	}
	if err := writeSheet(f, sheetComparison, wb.Comparison); err != nil {
		return err
	}

	for _, page := range wb.Pages {
		if _, err := f.NewSheet(page.Name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", page.Name, err)
		}
		rows := [][]string{{"Metric", "Value", "Detail"}}
		for _, row := range page.Report.Rows {
			rows = append(rows, []string{row.Metric, row.Value, row.Detail})
		}
		if err := writeSheet(f, page.Name, rows); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeSheet fills one sheet with rows and auto-sizes its columns.
func writeSheet(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d on %q: %w", i+1, sheet, err)
		}
		// SetSheetRow needs a typed slice pointer.
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d on %q: %w", i+1, sheet, err)
		}
	}
	return autoSizeColumns(f, sheet, rows)
}

// autoSizeColumns widens each column to its longest cell plus padding,
// capped so a single long value cannot blow up the layout.
func autoSizeColumns(f *excelize.File, sheet string, rows [][]string) error {
	widths := make(map[int]int)
	for _, row := range rows {
		for j, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[j] {
				widths[j] = n
			}
		}
	}
	for j, w := range widths {
		width := float64(w + columnWidthPadding)
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return fmt.Errorf("failed to name column %d on %q: %w", j+1, sheet, err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s on %q: %w", col, sheet, err)
		}
	}
	return nil
}
