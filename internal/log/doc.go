// Package log provides logging with automatic sanitization of credentials,
// built on top of the standard slog package.
//
// The tool holds a crawling API key for every request it makes, and that
// key must never leak into log output that users paste into bug reports.
// The SecureHandler masks attribute values whose keys look credential-like
// (api_key, authorization, token, ...) and values that match common token
// formats (bearer headers, JWTs, long opaque keys), even in verbose mode.
package log
