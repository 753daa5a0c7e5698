package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/seoscan/seoscan/internal/compile"
	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/database"
	"github.com/seoscan/seoscan/internal/extract"
	"github.com/seoscan/seoscan/internal/fetch"
	seolog "github.com/seoscan/seoscan/internal/log"
	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/pipeline"
	"github.com/seoscan/seoscan/internal/report"
	"github.com/spf13/cobra"
)

// errAllFailed marks a run where every URL failed. Execute maps it to a
// distinct exit code so callers can tell total failure from bad input.
var errAllFailed = errors.New("all URLs failed")

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [url...]",
		Short: "Analyze web pages and write per-URL SEO reports",
		Long: `Scan fetches each URL through the crawling API, extracts SEO metrics
from the rendered HTML, and writes one CSV report per URL.

Extracted metrics include the title and meta tags with length flags,
canonical URL, Open Graph tags, heading counts, internal/external link
classification, image alt coverage, JSON-LD schema types, and hreflang
tags.

A URL that fails to fetch is recorded as failed and does not stop the
batch. Exit codes: 0 when at least one URL succeeds, 1 when every URL
fails, 2 on bad input or configuration.

Examples:
  # Analyze a single page
  seoscan scan https://example.com

  # Analyze several pages
  seoscan scan https://example.com https://example.com/pricing

  # Analyze URLs from a CSV file with a "url" column
  seoscan scan --list urls.csv

  # Scan and compile the reports into a workbook in one run
  seoscan scan --compile --workbook audit.xlsx --list urls.csv

  # Four pages at a time, reports in a custom directory
  seoscan scan --concurrency 4 --output-dir audit --list urls.csv

Configuration file (.seoscan) example:
  api_key: fc-your-key
  output_dir: results
  timeout_seconds: 60
  concurrency: 1`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("list", "l", "",
		"CSV file of URLs to analyze (must contain a \"url\" column)")
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory for per-URL report files")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each scrape request")
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of URLs processed concurrently")
	cmd.Flags().StringP("api-key", "k", "",
		"Crawling API key (overrides "+config.APIKeyEnvVar+" and the config file)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoscan in current or home directory)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the run summary as a markdown table")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")
	cmd.Flags().Bool("compile", false,
		"Compile the output directory into an xlsx workbook after scanning")
	cmd.Flags().String("workbook", "",
		"Workbook path for --compile (default: seo_analysis_<timestamp>.xlsx)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildScanConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := seolog.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildScanConfig creates a Config from flags, the environment, and the
// config file. Precedence: flag, then environment, then config file.
func buildScanConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.APIKey, err = cmd.Flags().GetString("api-key")
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(config.APIKeyEnvVar)
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output-dir")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownSummary, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	cfg.CompileAfter, err = cmd.Flags().GetBool("compile")
	if err != nil {
		return nil, err
	}

	cfg.WorkbookPath, err = cmd.Flags().GetString("workbook")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly named a config file, it must exist; an
	// implicitly discovered file is optional.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}

	cfg.Targets = args
	if listPath != "" {
		listed, err := readURLList(listPath)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, listed...)
	}

	return cfg, nil
}

// readURLList reads URLs from a CSV file. The file must have a header row
// containing a "url" column (matched case-insensitively); other columns
// are ignored. Blank cells are skipped.
func readURLList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read URL list header: %w", err)
	}

	urlCol := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "url") {
			urlCol = i
			break
		}
	}
	if urlCol < 0 {
		return nil, fmt.Errorf("URL list %s has no \"url\" column", path)
	}

	var urls []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed URL list row: %w", err)
		}
		if urlCol >= len(rec) {
			continue
		}
		if u := strings.TrimSpace(rec[urlCol]); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// runScan executes the scan and prints the end-of-run summary.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	logger.Info("starting scan",
		"targets", len(cfg.Targets),
		"outputDir", cfg.OutputDir,
		"concurrency", cfg.Concurrency,
	)

	client := fetch.NewClient(cfg.APIBaseURL, cfg.APIKey,
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
	)

	runner := pipeline.New(client,
		pipeline.WithOutputDir(cfg.OutputDir),
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithLogger(logger),
		pipeline.WithExtractFunc(extract.New().Extract),
	)

	startTime := time.Now()
	outcomes, err := runner.Run(ctx, cfg.Targets)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	elapsed := time.Since(startTime)

	if cfg.SaveHistory && len(outcomes) > 0 {
		saveRunHistory(ctx, cfg, outcomes, logger)
	}

	if err := printSummary(out, cfg, outcomes, elapsed); err != nil {
		return err
	}

	succeeded, failed := model.Tally(outcomes)
	if succeeded == 0 && failed > 0 {
		return fmt.Errorf("%w (%d URLs)", errAllFailed, failed)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	if cfg.CompileAfter {
		return compileReports(cfg, logger, out)
	}
	return nil
}

// compileReports builds the workbook from the scan's output directory.
// Runs only after a scan with at least one successful report.
func compileReports(cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	path := cfg.WorkbookPath
	if path == "" {
		path = compile.DefaultWorkbookName(time.Now())
	}

	compiler := compile.New(compile.WithLogger(logger))
	wb, err := compiler.CompileToFile(cfg.OutputDir, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Compiled %d reports into %s\n", len(wb.Pages), path)
	return nil
}

// saveRunHistory records the run in the history database. History is a
// convenience, so failures are logged and never fail the scan.
func saveRunHistory(ctx context.Context, cfg *config.Config, outcomes []model.Outcome, logger *slog.Logger) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "dir", cfg.DBDir, "error", err)
		return
	}
	defer db.Close()

	runID, err := db.SaveRun(ctx, cfg.OutputDir, outcomes)
	if err != nil {
		logger.Warn("failed to save run history", "error", err)
		return
	}
	logger.Info("run recorded", "runID", runID, "dir", cfg.DBDir)
}

// printSummary renders the end-of-run summary, either as a plain tally or
// a markdown table.
func printSummary(out io.Writer, cfg *config.Config, outcomes []model.Outcome, elapsed time.Duration) error {
	if cfg.MarkdownSummary {
		return report.NewMarkdownSummaryWriter(out).Write(outcomes)
	}

	succeeded, failed := model.Tally(outcomes)
	for _, o := range outcomes {
		if o.Success {
			fmt.Fprintf(out, "OK      %s -> %s\n", o.URL, o.ReportPath)
		} else {
			fmt.Fprintf(out, "FAILED  %s (%s)\n", o.URL, o.Err)
		}
	}
	fmt.Fprintf(out, "\n%d succeeded, %d failed in %s\n",
		succeeded, failed, elapsed.Round(time.Millisecond))
	return nil
}
