// Package database provides SQLite-based storage for scan history: each
// batch run and its per-URL outcomes are recorded so past results can be
// listed and compared without re-fetching pages.
package database
