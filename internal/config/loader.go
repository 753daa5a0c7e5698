package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".seoscan"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file contents. All fields are optional;
// zero values mean "not set" and leave the corresponding Config field
// untouched.
type File struct {
	// APIKey authenticates against the crawl API. Flags and the
	// environment take precedence over this value.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the crawl API endpoint.
	BaseURL string `yaml:"base_url"`

	// OutputDir overrides where report files are written.
	OutputDir string `yaml:"output_dir"`

	// TimeoutSeconds overrides the per-request timeout, in seconds.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// Concurrency overrides how many URLs are processed at once.
	Concurrency int `yaml:"concurrency"`
}

// LoadConfigFile loads configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle this error based on whether the path was explicitly specified.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies the file's set fields onto cfg. Fields already set on cfg
// are not overwritten; the file has the lowest precedence after flags and
// environment variables.
func (f *File) Apply(cfg *Config) {
	if cfg.APIKey == "" && f.APIKey != "" {
		cfg.APIKey = f.APIKey
	}
	if f.BaseURL != "" && cfg.APIBaseURL == DefaultAPIBaseURL {
		cfg.APIBaseURL = f.BaseURL
	}
	if f.OutputDir != "" && cfg.OutputDir == DefaultOutputDir {
		cfg.OutputDir = f.OutputDir
	}
	if f.TimeoutSeconds > 0 && cfg.Timeout == DefaultTimeout {
		cfg.Timeout = time.Duration(f.TimeoutSeconds) * time.Second
	}
	if f.Concurrency > 0 && cfg.Concurrency == DefaultConcurrency {
		cfg.Concurrency = f.Concurrency
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .seoscan in the current directory
// 3. Look for .seoscan in the user's home directory
//
// Returns the path to the configuration file, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
