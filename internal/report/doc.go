// Package report implements the per-URL report file format shared by the
// scan and compile pipelines: a three-column CSV (Metric, Value, Detail)
// with standard quoting so values containing delimiters, quotes, or
// newlines survive the write/read round trip exactly. It also derives
// deterministic report file names from URLs and renders markdown run
// summaries.
package report
