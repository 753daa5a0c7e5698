package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Where applicable these match the behavior
// of the crawl API the tool talks to.
const (
	// DefaultAPIBaseURL is the crawl API endpoint. The API renders pages in
	// a headless browser and returns the post-JavaScript HTML, which is why
	// the tool uses it instead of fetching pages directly.
	DefaultAPIBaseURL = "https://api.firecrawl.dev"

	// DefaultTimeout bounds a single scrape request. Rendering a page in a
	// headless browser routinely takes tens of seconds, so this is generous
	// compared to a plain HTTP fetch timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultConcurrency of 1 processes URLs sequentially. The crawl API
	// enforces per-account rate limits, so concurrency is opt-in.
	DefaultConcurrency = 1

	// DefaultOutputDir is where per-URL report files are written.
	DefaultOutputDir = "results"

	// AppName is the application name used for XDG directory paths.
	AppName = "seoscan"

	// APIKeyEnvVar is the environment variable consulted for the API key
	// when no flag or config file value is given.
	APIKeyEnvVar = "SEOSCAN_API_KEY"

	// DefaultUserAgent identifies the tool in requests to the crawl API.
	DefaultUserAgent = "seoscan/1.0 (+https://github.com/seoscan/seoscan)"
)

// Config holds all configuration options for a scan.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// APIKey authenticates against the crawl API. Resolved from the
	// --api-key flag, then APIKeyEnvVar, then the config file.
	APIKey string

	// APIBaseURL is the crawl API endpoint. Overridable mainly for
	// self-hosted API deployments and tests.
	APIBaseURL string

	// Timeout is the per-request timeout for scrape calls.
	Timeout time.Duration

	// Concurrency is the number of URLs processed at once.
	Concurrency int

	// OutputDir is the directory report files are written to.
	OutputDir string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .seoscan in the current directory and then in the
	// user's home directory.
	ConfigFilePath string

	// Targets is the list of URLs to analyze.
	Targets []string

	// MarkdownSummary switches the end-of-run summary from a plain tally
	// to a markdown table.
	MarkdownSummary bool

	// DBDir is the directory for the scan history database. Defaults to
	// the XDG data directory.
	DBDir string

	// SaveHistory indicates whether run outcomes are recorded in the
	// history database.
	SaveHistory bool

	// UserAgent is sent with every crawl API request.
	UserAgent string

	// CompileAfter compiles the output directory into an xlsx workbook
	// once the scan finishes with at least one successful report.
	CompileAfter bool

	// WorkbookPath is where the compiled workbook is written when
	// CompileAfter is set. Empty means a timestamped default name.
	WorkbookPath string
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		APIBaseURL:  DefaultAPIBaseURL,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		OutputDir:   DefaultOutputDir,
		DBDir:       XDGDataDir(),
		SaveHistory: true,
		UserAgent:   DefaultUserAgent,
	}
}

// XDGDataDir returns the XDG data directory for the tool.
// On Linux: ~/.local/share/seoscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the tool.
// On Linux: ~/.config/seoscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns a specific
// error describing the first problem found. It is called once after CLI
// parsing, before any fetching begins, so bad input fails fast.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.APIBaseURL == "" {
		return ErrInvalidBaseURL
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.OutputDir == "" {
		return ErrInvalidOutputDir
	}
	return nil
}
