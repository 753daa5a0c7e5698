// Package config defines the scan configuration, its defaults, validation,
// and the optional YAML configuration file. The Config struct is populated
// from CLI flags, the environment, and the config file, then passed through
// the application via dependency injection rather than global state.
package config
