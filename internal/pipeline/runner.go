package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/seoscan/seoscan/internal/extract"
	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/report"
	"golang.org/x/sync/errgroup"
)

// ErrNoURLs is returned when a run is started with an empty URL list.
// This is the only whole-run failure; everything per-URL is an outcome.
var ErrNoURLs = errors.New("no URLs to process")

// Fetcher is the external fetch collaborator: it returns rendered HTML,
// status, and timing for one URL. Implemented by fetch.Client and by
// stubs in tests.
type Fetcher interface {
	Scrape(ctx context.Context, url string) (*model.FetchResult, error)
}

// ExtractFunc turns one fetch result into a page report. It must be
// total; the default is extract.Extractor.Extract.
type ExtractFunc func(url string, res *model.FetchResult) *model.PageReport

// Runner processes a list of URLs into report files.
//
// Design decision: There is no shared mutable state between URL
// iterations beyond the output directory, so the sequential and the
// bounded-concurrent paths share processOne unchanged; concurrency is
// purely a scheduling choice.
type Runner struct {
	fetcher     Fetcher
	extract     ExtractFunc
	outputDir   string
	concurrency int
	logger      *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutputDir sets the directory report files are written to.
func WithOutputDir(dir string) Option {
	return func(r *Runner) {
		r.outputDir = dir
	}
}

// WithConcurrency sets how many URLs are processed at once. Values below
// 2 keep the default sequential loop.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithExtractFunc replaces the extraction step, mainly for tests.
func WithExtractFunc(fn ExtractFunc) Option {
	return func(r *Runner) {
		r.extract = fn
	}
}

// New creates a Runner around the given fetcher.
func New(fetcher Fetcher, opts ...Option) *Runner {
	r := &Runner{
		fetcher:     fetcher,
		outputDir:   "results",
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.extract == nil {
		r.extract = extract.New().Extract
	}
	return r
}

// Run processes all URLs and returns one outcome per URL in input order.
// Per-URL failures are recorded, never returned; the error return is
// reserved for empty input, an unusable output directory, and context
// cancellation. On cancellation the outcomes collected so far are
// returned alongside ctx.Err(); already-written reports stay intact.
func (r *Runner) Run(ctx context.Context, urls []string) ([]model.Outcome, error) {
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	if err := os.MkdirAll(r.outputDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	outcomes := make([]model.Outcome, len(urls))
	for i, u := range urls {
		outcomes[i] = model.Outcome{URL: u, Err: "not processed"}
	}

	if r.concurrency > 1 {
		return r.runConcurrent(ctx, urls, outcomes)
	}

	for i, u := range urls {
		// Cancellation is honored between URLs so a report is never
		// left half-written.
		select {
		case <-ctx.Done():
			r.logger.Warn("batch cancelled", "processed", i, "total", len(urls))
			return outcomes[:i], ctx.Err()
		default:
		}
		outcomes[i] = r.processOne(ctx, u)
	}
	return outcomes, nil
}

// runConcurrent fans URLs out over a bounded worker set. Outcomes land in
// their input slot, so completion order never affects reporting order.
func (r *Runner) runConcurrent(ctx context.Context, urls []string, outcomes []model.Outcome) ([]model.Outcome, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			outcomes[i] = r.processOne(gctx, u)
			return nil
		})
	}

	err := g.Wait()
	return outcomes, err
}

// processOne runs fetch, extract, and write for a single URL. Every
// failure is downgraded to a failed outcome.
func (r *Runner) processOne(ctx context.Context, rawURL string) model.Outcome {
	outcome := model.Outcome{URL: rawURL}

	r.logger.Debug("fetching", "url", rawURL)
	res, err := r.fetcher.Scrape(ctx, rawURL)
	if err != nil {
		r.logger.Warn("fetch failed", "url", rawURL, "error", err)
		outcome.Err = err.Error()
		return outcome
	}
	outcome.StatusCode = res.StatusCode
	outcome.LoadTime = res.LoadTime

	pageReport := r.extract(rawURL, res)

	path := filepath.Join(r.outputDir, report.FileName(rawURL))
	if err := report.WriteFile(path, pageReport); err != nil {
		r.logger.Error("report write failed", "url", rawURL, "path", path, "error", err)
		outcome.Err = err.Error()
		return outcome
	}

	r.logger.Info("report written", "url", rawURL, "path", path)
	outcome.Success = true
	outcome.ReportPath = path
	return outcome
}
