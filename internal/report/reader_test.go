package report

import (
	"errors"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	t.Parallel()

	t.Run("rejects unexpected header", func(t *testing.T) {
		t.Parallel()

		_, err := Read(strings.NewReader("url,title,status\na,b,c\n"))
		if !errors.Is(err, ErrInvalidReport) {
			t.Errorf("expected ErrInvalidReport, got %v", err)
		}
	})

	t.Run("rejects rows with wrong column count", func(t *testing.T) {
		t.Parallel()

		_, err := Read(strings.NewReader("Metric,Value,Detail\nTitle,only-two\n"))
		if err == nil {
			t.Error("expected error for malformed row")
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := Read(strings.NewReader(""))
		if err == nil {
			t.Error("expected error for empty input")
		}
	})

	t.Run("parses a valid report", func(t *testing.T) {
		t.Parallel()

		input := "Metric,Value,Detail\nURL,https://example.com,\nTitle,Example,Length: 7 chars\n"
		r, err := Read(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(r.Rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(r.Rows))
		}
		if r.URL != "https://example.com" {
			t.Errorf("expected URL recovered from rows, got %q", r.URL)
		}
	})
}
