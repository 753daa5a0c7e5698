package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no URL or list file is specified.
	ErrNoTarget = errors.New("no target specified: provide a URL or use --list")

	// ErrMissingAPIKey is returned when no crawl API key is available from
	// flags, the environment, or the config file. Every fetch goes through
	// the API, so nothing works without it.
	ErrMissingAPIKey = errors.New("missing API key: set --api-key, " + APIKeyEnvVar + ", or api_key in the config file")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidBaseURL is returned when the API base URL is empty.
	ErrInvalidBaseURL = errors.New("invalid base URL: must not be empty")

	// ErrInvalidOutputDir is returned when the output directory is empty.
	ErrInvalidOutputDir = errors.New("invalid output directory: must not be empty")
)
