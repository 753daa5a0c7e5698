// Package extract turns a fetch result into an ordered page report of
// SEO metrics. Extraction is total: malformed or partial markup degrades
// to best-effort rows and a failed fetch yields a single error row, but
// Extract never returns an error.
package extract
