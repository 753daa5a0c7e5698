// Package compile turns a directory of per-URL report files into a single
// xlsx workbook: a Summary sheet with one row per page, a Comparison sheet
// with pages side by side, and one verbatim sheet per report. Compilation
// is a pure function of the report files; it never touches the network.
package compile
