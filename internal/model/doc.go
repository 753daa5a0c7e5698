// Package model defines the core data structures shared between the scan
// and compile pipelines: metric rows, page reports, fetch results, and
// batch outcomes. The report file format produced from these structures is
// the only integration point between the two pipelines.
package model
