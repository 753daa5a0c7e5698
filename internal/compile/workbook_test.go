package compile

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/seoscan/seoscan/internal/model"
	"github.com/xuri/excelize/v2"
)

func TestDefaultWorkbookName(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	got := DefaultWorkbookName(ts)
	want := "seo_analysis_20250314_092653.xlsx"
	if got != want {
		t.Errorf("DefaultWorkbookName = %q, want %q", got, want)
	}
}

func TestWriteWorkbook(t *testing.T) {
	t.Parallel()

	rep := model.NewPageReport("https://example.com")
	rep.Add(model.MetricURL, "https://example.com", "")
	rep.Add(model.MetricTitle, "Example", "Length: 7 chars (too short, under 30)")

	wb := &Workbook{
		Summary: [][]string{
			{"Name", "URL", "Title"},
			{"example.com", "https://example.com", "Example"},
		},
		Comparison: [][]string{
			{"Metric", "example.com"},
			{"Title", "Example"},
		},
		Pages: []PageSheet{{Name: "example.com", Report: rep}},
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteWorkbook(wb, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{"Summary", "Comparison", "example.com"}
	if len(sheets) != len(want) {
		t.Fatalf("expected %d sheets, got %v", len(want), sheets)
	}
	for i, name := range want {
		if sheets[i] != name {
			t.Errorf("sheet %d: expected %q, got %q", i, name, sheets[i])
		}
	}

	cell, err := f.GetCellValue("Summary", "B2")
	if err != nil {
		t.Fatal(err)
	}
	if cell != "https://example.com" {
		t.Errorf("unexpected Summary!B2: %q", cell)
	}

	cell, err = f.GetCellValue("example.com", "A1")
	if err != nil {
		t.Fatal(err)
	}
	if cell != "Metric" {
		t.Errorf("expected per-page header in A1, got %q", cell)
	}

	cell, err = f.GetCellValue("example.com", "C3")
	if err != nil {
		t.Fatal(err)
	}
	if cell != "Length: 7 chars (too short, under 30)" {
		t.Errorf("unexpected detail cell: %q", cell)
	}
}
