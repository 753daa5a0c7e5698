package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/report"
)

// stubFetcher returns canned results keyed by URL.
type stubFetcher struct {
	results map[string]*model.FetchResult
	errs    map[string]error
}

func (s *stubFetcher) Scrape(_ context.Context, url string) (*model.FetchResult, error) {
	if err, ok := s.errs[url]; ok {
		return nil, err
	}
	if res, ok := s.results[url]; ok {
		return res, nil
	}
	return &model.FetchResult{URL: url, HTML: "<html><title>stub</title></html>"}, nil
}

func TestRunnerRun(t *testing.T) {
	t.Parallel()

	t.Run("empty input returns ErrNoURLs", func(t *testing.T) {
		t.Parallel()

		r := New(&stubFetcher{}, WithOutputDir(t.TempDir()))
		if _, err := r.Run(context.Background(), nil); !errors.Is(err, ErrNoURLs) {
			t.Errorf("expected ErrNoURLs, got %v", err)
		}
	})

	t.Run("failed URL does not halt the batch", func(t *testing.T) {
		t.Parallel()

		urls := []string{
			"https://one.example.com",
			"https://two.example.com",
			"https://three.example.com",
		}
		fetcher := &stubFetcher{
			errs: map[string]error{
				"https://two.example.com": errors.New("render timed out"),
			},
		}
		dir := t.TempDir()
		r := New(fetcher, WithOutputDir(dir))

		outcomes, err := r.Run(context.Background(), urls)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(outcomes) != len(urls) {
			t.Fatalf("expected %d outcomes, got %d", len(urls), len(outcomes))
		}

		for i, u := range urls {
			if outcomes[i].URL != u {
				t.Errorf("outcome %d: expected URL %q, got %q", i, u, outcomes[i].URL)
			}
		}
		if outcomes[0].Success != true || outcomes[2].Success != true {
			t.Error("expected first and third URLs to succeed")
		}
		if outcomes[1].Success {
			t.Error("expected second URL to fail")
		}
		if !strings.Contains(outcomes[1].Err, "render timed out") {
			t.Errorf("expected fetch error in outcome, got %q", outcomes[1].Err)
		}
		if outcomes[1].ReportPath != "" {
			t.Errorf("failed URL must not have a report path, got %q", outcomes[1].ReportPath)
		}

		// Only the two successful URLs leave report files behind.
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 2 {
			t.Errorf("expected 2 report files, got %d", len(entries))
		}
	})

	t.Run("written reports are readable", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		r := New(&stubFetcher{}, WithOutputDir(dir))

		outcomes, err := r.Run(context.Background(), []string{"https://example.com/pricing"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !outcomes[0].Success {
			t.Fatalf("expected success, got %+v", outcomes[0])
		}

		got, err := report.ReadFile(outcomes[0].ReportPath)
		if err != nil {
			t.Fatalf("failed to read back report: %v", err)
		}
		if got.Value(model.MetricURL) != "https://example.com/pricing" {
			t.Errorf("unexpected URL metric: %q", got.Value(model.MetricURL))
		}
	})

	t.Run("cancelled context returns partial outcomes", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := New(&stubFetcher{}, WithOutputDir(t.TempDir()))
		outcomes, err := r.Run(ctx, []string{"https://a.example.com", "https://b.example.com"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(outcomes) != 0 {
			t.Errorf("expected no outcomes after immediate cancellation, got %d", len(outcomes))
		}
	})

	t.Run("concurrent run keeps input order", func(t *testing.T) {
		t.Parallel()

		urls := make([]string, 8)
		for i := range urls {
			urls[i] = fmt.Sprintf("https://site%d.example.com", i)
		}
		fetcher := &stubFetcher{
			errs: map[string]error{urls[3]: errors.New("boom")},
		}
		r := New(fetcher, WithOutputDir(t.TempDir()), WithConcurrency(4))

		outcomes, err := r.Run(context.Background(), urls)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, u := range urls {
			if outcomes[i].URL != u {
				t.Errorf("outcome %d: expected %q, got %q", i, u, outcomes[i].URL)
			}
		}
		success, failed := model.Tally(outcomes)
		if success != 7 || failed != 1 {
			t.Errorf("expected 7 successes and 1 failure, got %d and %d", success, failed)
		}
	})

	t.Run("custom extract func is used", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		called := false
		r := New(&stubFetcher{}, WithOutputDir(dir), WithExtractFunc(func(url string, _ *model.FetchResult) *model.PageReport {
			called = true
			rep := model.NewPageReport(url)
			rep.Add(model.MetricURL, url, "")
			return rep
		}))

		if _, err := r.Run(context.Background(), []string{"https://example.com"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !called {
			t.Error("expected custom extract func to be called")
		}
	})

	t.Run("output directory is created", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "results")
		r := New(&stubFetcher{}, WithOutputDir(dir))
		if _, err := r.Run(context.Background(), []string{"https://example.com"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("expected output directory to exist: %v", err)
		}
	})
}
