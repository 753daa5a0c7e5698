package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/report"
)

func TestCompileCmd(t *testing.T) {
	t.Parallel()

	t.Run("compiles reports into a workbook", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		r := model.NewPageReport("https://example.com")
		r.Add(model.MetricURL, "https://example.com", "")
		r.Add(model.MetricTitle, "Example", "Length: 7 chars (too short, under 30)")
		if err := report.WriteFile(filepath.Join(dir, report.FileName("https://example.com")), r); err != nil {
			t.Fatal(err)
		}

		output := filepath.Join(t.TempDir(), "out.xlsx")
		cmd := NewCompileCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--dir", dir, "--output", output})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "Compiled 1 reports into "+output) {
			t.Errorf("unexpected output: %q", out)
		}
		if !strings.Contains(out, "Summary") || !strings.Contains(out, "Comparison") {
			t.Errorf("expected sheet listing, got %q", out)
		}
	})

	t.Run("empty directory is an error", func(t *testing.T) {
		t.Parallel()

		cmd := NewCompileCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--dir", t.TempDir()})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for empty directory")
		}
	})
}
