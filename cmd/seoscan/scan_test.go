package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/seoscan/seoscan/internal/config"
	seolog "github.com/seoscan/seoscan/internal/log"
	"github.com/seoscan/seoscan/internal/model"
)

func TestReadURLList(t *testing.T) {
	t.Parallel()

	writeList := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "urls.csv")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("reads url column", func(t *testing.T) {
		t.Parallel()

		path := writeList(t, "name,url\nhome,https://example.com\npricing,https://example.com/pricing\n")
		urls, err := readURLList(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"https://example.com", "https://example.com/pricing"}
		if len(urls) != len(want) {
			t.Fatalf("expected %d urls, got %v", len(want), urls)
		}
		for i, u := range want {
			if urls[i] != u {
				t.Errorf("url %d: expected %q, got %q", i, u, urls[i])
			}
		}
	})

	t.Run("header match is case-insensitive", func(t *testing.T) {
		t.Parallel()

		path := writeList(t, "URL\nhttps://example.com\n")
		urls, err := readURLList(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(urls) != 1 || urls[0] != "https://example.com" {
			t.Errorf("unexpected urls: %v", urls)
		}
	})

	t.Run("blank cells are skipped", func(t *testing.T) {
		t.Parallel()

		path := writeList(t, "url\nhttps://example.com\n\nhttps://example.org\n")
		urls, err := readURLList(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(urls) != 2 {
			t.Errorf("expected 2 urls, got %v", urls)
		}
	})

	t.Run("missing url column is an error", func(t *testing.T) {
		t.Parallel()

		path := writeList(t, "name,address\nhome,https://example.com\n")
		if _, err := readURLList(path); err == nil {
			t.Error("expected error for missing url column")
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()

		if _, err := readURLList(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestBuildScanConfig(t *testing.T) {
	// Not parallel: subtests mutate the process environment.

	t.Run("flags populate config", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{
			"--api-key", "fc-flag",
			"--output-dir", "audit",
			"--timeout", "90s",
			"--concurrency", "4",
			"--no-history",
		}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildScanConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.APIKey != "fc-flag" {
			t.Errorf("unexpected api key: %q", cfg.APIKey)
		}
		if cfg.OutputDir != "audit" {
			t.Errorf("unexpected output dir: %q", cfg.OutputDir)
		}
		if cfg.Timeout != 90*time.Second {
			t.Errorf("unexpected timeout: %v", cfg.Timeout)
		}
		if cfg.Concurrency != 4 {
			t.Errorf("unexpected concurrency: %d", cfg.Concurrency)
		}
		if cfg.SaveHistory {
			t.Error("expected history to be disabled")
		}
		if len(cfg.Targets) != 1 || cfg.Targets[0] != "https://example.com" {
			t.Errorf("unexpected targets: %v", cfg.Targets)
		}
	})

	t.Run("environment supplies api key when flag absent", func(t *testing.T) {
		t.Setenv(config.APIKeyEnvVar, "fc-env")

		cmd := NewScanCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildScanConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.APIKey != "fc-env" {
			t.Errorf("expected env api key, got %q", cfg.APIKey)
		}
	})

	t.Run("flag overrides environment", func(t *testing.T) {
		t.Setenv(config.APIKeyEnvVar, "fc-env")

		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"--api-key", "fc-flag"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildScanConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.APIKey != "fc-flag" {
			t.Errorf("expected flag api key, got %q", cfg.APIKey)
		}
	})

	t.Run("list file appends to positional targets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "urls.csv")
		if err := os.WriteFile(path, []byte("url\nhttps://listed.example.com\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"--list", path, "--api-key", "fc-x"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildScanConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.Targets) != 2 {
			t.Fatalf("expected 2 targets, got %v", cfg.Targets)
		}
		if cfg.Targets[1] != "https://listed.example.com" {
			t.Errorf("unexpected listed target: %q", cfg.Targets[1])
		}
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		cmd := NewScanCmd()
		path := filepath.Join(t.TempDir(), "absent.yaml")
		if err := cmd.ParseFlags([]string{"--config", path}); err != nil {
			t.Fatal(err)
		}

		if _, err := buildScanConfig(cmd, []string{"https://example.com"}); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})

	t.Run("missing targets fail validation", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"--api-key", "fc-x"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildScanConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := cfg.Validate(); !errors.Is(err, config.ErrNoTarget) {
			t.Errorf("expected ErrNoTarget, got %v", err)
		}
	})
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	outcomes := []model.Outcome{
		{URL: "https://a.example.com", Success: true, ReportPath: "results/seo_report_a.csv"},
		{URL: "https://b.example.com", Err: "render timed out"},
	}

	t.Run("plain tally", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cfg := config.NewConfig()
		if err := printSummary(&buf, cfg, outcomes, 2*time.Second); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "1 succeeded, 1 failed") {
			t.Errorf("expected tally line, got %q", out)
		}
		if !strings.Contains(out, "render timed out") {
			t.Errorf("expected failure reason, got %q", out)
		}
	})

	t.Run("markdown summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cfg := config.NewConfig()
		cfg.MarkdownSummary = true
		if err := printSummary(&buf, cfg, outcomes, 2*time.Second); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "# SEO Scan Summary") {
			t.Errorf("expected markdown heading, got %q", out)
		}
		if !strings.Contains(out, "| URL") {
			t.Errorf("expected markdown table, got %q", out)
		}
	})
}

func TestRunScan(t *testing.T) {
	t.Parallel()

	newConfig := func(t *testing.T, baseURL string) *config.Config {
		t.Helper()
		cfg := config.NewConfig()
		cfg.APIKey = "fc-test"
		cfg.APIBaseURL = baseURL
		cfg.OutputDir = t.TempDir()
		cfg.SaveHistory = false
		return cfg
	}
	logger := seolog.NewSecureLogger(io.Discard, false)

	t.Run("all failures return errAllFailed", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		cfg := newConfig(t, srv.URL)
		cfg.Targets = []string{"https://a.example.com", "https://b.example.com"}

		var buf bytes.Buffer
		err := runScan(context.Background(), cfg, logger, &buf)
		if !errors.Is(err, errAllFailed) {
			t.Errorf("expected errAllFailed, got %v", err)
		}
	})

	t.Run("partial failure succeeds", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				fmt.Fprint(w, `{"success":true,"data":{"rawHtml":"<html><head><title>ok</title></head></html>","metadata":{"statusCode":200}}}`)
				return
			}
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		cfg := newConfig(t, srv.URL)
		cfg.Targets = []string{"https://a.example.com", "https://b.example.com"}

		var buf bytes.Buffer
		if err := runScan(context.Background(), cfg, logger, &buf); err != nil {
			t.Errorf("expected nil error when at least one URL succeeds, got %v", err)
		}
	})

	t.Run("compile after scan writes the workbook", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"success":true,"data":{"rawHtml":"<html><head><title>Example Domain Title</title></head><body><h1>Hi</h1></body></html>","metadata":{"title":"Example Domain Title","statusCode":200}}}`)
		}))
		defer srv.Close()

		cfg := newConfig(t, srv.URL)
		cfg.Targets = []string{"https://example.com"}
		cfg.CompileAfter = true
		cfg.WorkbookPath = filepath.Join(t.TempDir(), "audit.xlsx")

		var buf bytes.Buffer
		if err := runScan(context.Background(), cfg, logger, &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(cfg.WorkbookPath); err != nil {
			t.Errorf("expected workbook at %s: %v", cfg.WorkbookPath, err)
		}
		if !strings.Contains(buf.String(), "Compiled 1 reports") {
			t.Errorf("expected compile confirmation, got %q", buf.String())
		}
	})

	t.Run("compile is skipped when every URL fails", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		cfg := newConfig(t, srv.URL)
		cfg.Targets = []string{"https://a.example.com"}
		cfg.CompileAfter = true
		cfg.WorkbookPath = filepath.Join(t.TempDir(), "audit.xlsx")

		var buf bytes.Buffer
		if err := runScan(context.Background(), cfg, logger, &buf); !errors.Is(err, errAllFailed) {
			t.Fatalf("expected errAllFailed, got %v", err)
		}
		if _, err := os.Stat(cfg.WorkbookPath); err == nil {
			t.Error("expected no workbook after a fully failed scan")
		}
	})
}
