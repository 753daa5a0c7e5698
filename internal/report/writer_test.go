package report

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/seoscan/seoscan/internal/model"
)

// sampleReport builds a report exercising ordering and quoting.
func sampleReport() *model.PageReport {
	r := model.NewPageReport("https://example.com/page")
	r.Add(model.MetricURL, "https://example.com/page", "")
	r.Add(model.MetricTitle, "Hello, World", "Length: 12 chars (too short, under 30)")
	r.Add(model.MetricMetaDescription, `She said "hi"`, "contains quotes")
	r.Add(model.MetricH2Headings, "2", "First; Second\nwith newline")
	return r
}

func TestWrite(t *testing.T) {
	t.Parallel()

	t.Run("writes header and preserves row order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := Write(&buf, sampleReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.SplitN(buf.String(), "\n", 3)
		if lines[0] != "Metric,Value,Detail" {
			t.Errorf("unexpected header line: %q", lines[0])
		}
		if !strings.HasPrefix(lines[1], "URL,") {
			t.Errorf("expected URL as first data row, got %q", lines[1])
		}
	})

	t.Run("quotes values containing the delimiter", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := Write(&buf, sampleReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"Hello, World"`) {
			t.Error("expected comma-containing value to be quoted")
		}
	})
}

// TestRoundTrip verifies parse(write(report)) == report even when values
// contain the delimiter, quote characters, or embedded newlines.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("in memory", func(t *testing.T) {
		t.Parallel()

		original := sampleReport()
		var buf bytes.Buffer
		if err := Write(&buf, original); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		parsed, err := Read(&buf)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if !reflect.DeepEqual(parsed.Rows, original.Rows) {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", parsed.Rows, original.Rows)
		}
		if parsed.URL != original.URL {
			t.Errorf("expected URL %q recovered from rows, got %q", original.URL, parsed.URL)
		}
	})

	t.Run("through the filesystem", func(t *testing.T) {
		t.Parallel()

		original := sampleReport()
		path := filepath.Join(t.TempDir(), FileName(original.URL))
		if err := WriteFile(path, original); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		parsed, err := ReadFile(path)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if !reflect.DeepEqual(parsed.Rows, original.Rows) {
			t.Error("file round trip altered rows")
		}
	})
}
