// Package pipeline drives the per-URL scan flow: fetch through the
// external crawl API, extract metrics, write one report file. URLs are
// processed independently so a single failure never halts the batch, and
// outcomes are always reported in input order.
package pipeline
