package compile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/report"
)

// ErrNothingToCompile is returned when the input directory holds no
// readable report files.
var ErrNothingToCompile = errors.New("no valid report files found")

// summaryColumns are the fixed Summary sheet columns, one row per page.
var summaryColumns = []string{
	"Name",
	"URL",
	"Title",
	"Title Length",
	"Meta Description Length",
	"Canonical URL",
	"H1 Count",
	"H2 Count",
	"H3 Count",
	"Total Links",
	"Internal Links",
	"External Links",
	"Nofollow Links",
	"Total Images",
	"Images Missing Alt",
	"Schema Markup Count",
	"Hreflang Count",
	"Status Code",
	"Load Time",
	"Robots Meta",
	"OG Title",
	"OG Description",
	"OG Image",
}

// PageSheet is one per-report workbook sheet: the resolved sheet name plus
// the report it renders verbatim.
type PageSheet struct {
	Name   string
	Report *model.PageReport
}

// Workbook is the compiled, format-independent workbook content. Keeping it
// separate from the xlsx writer makes the sheet-building logic testable
// without parsing xlsx output.
type Workbook struct {
	Summary    [][]string
	Comparison [][]string
	Pages      []PageSheet
}

// Compiler builds workbooks from report directories.
type Compiler struct {
	logger *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// New creates a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Compile reads every report file in dir and assembles the workbook
// content. Files that are not reports, or that fail to parse, are skipped
// with a warning; only an unreadable directory or zero valid reports fail
// the compile. Reports appear in lexical file-name order throughout.
func (c *Compiler) Compile(dir string) (*Workbook, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read report directory: %w", err)
	}

	var (
		reports []*model.PageReport
		names   []string
	)
	for _, entry := range entries {
		if entry.IsDir() || !report.IsReportFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		r, err := report.ReadFile(path)
		if err != nil {
			c.logger.Warn("skipping unreadable report file", "path", path, "error", err)
			continue
		}
		reports = append(reports, r)
		names = append(names, report.DisplayName(entry.Name()))
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNothingToCompile, dir)
	}

	wb := &Workbook{
		Summary:    buildSummary(names, reports),
		Comparison: buildComparison(names, reports),
	}

	used := make(map[string]struct{}, len(reports))
	for i, r := range reports {
		wb.Pages = append(wb.Pages, PageSheet{
			Name:   uniqueSheetName(names[i], used),
			Report: r,
		})
	}

	c.logger.Info("workbook assembled", "reports", len(reports), "dir", dir)
	return wb, nil
}

// CompileToFile compiles dir and writes the workbook to path.
func (c *Compiler) CompileToFile(dir, path string) (*Workbook, error) {
	wb, err := c.Compile(dir)
	if err != nil {
		return nil, err
	}
	if err := WriteWorkbook(wb, path); err != nil {
		return nil, err
	}
	c.logger.Info("workbook written", "path", path, "sheets", len(wb.Pages)+2)
	return wb, nil
}

// buildSummary renders the fixed-column Summary rows. Metrics a report does
// not carry stay blank; length columns count runes of the stored value.
func buildSummary(names []string, reports []*model.PageReport) [][]string {
	rows := [][]string{summaryColumns}
	for i, r := range reports {
		rows = append(rows, []string{
			names[i],
			r.Value(model.MetricURL),
			r.Value(model.MetricTitle),
			valueLength(r, model.MetricTitle),
			valueLength(r, model.MetricMetaDescription),
			r.Value(model.MetricCanonicalURL),
			r.Value(model.MetricH1Headings),
			r.Value(model.MetricH2Headings),
			r.Value(model.MetricH3Headings),
			r.Value(model.MetricTotalLinks),
			r.Value(model.MetricInternalLinks),
			r.Value(model.MetricExternalLinks),
			r.Value(model.MetricNofollowLinks),
			r.Value(model.MetricTotalImages),
			r.Value(model.MetricImagesMissingAlt),
			r.Value(model.MetricSchemaMarkup),
			r.Value(model.MetricHreflangTags),
			r.Value(model.MetricStatusCode),
			r.Value(model.MetricLoadTime),
			r.Value(model.MetricRobotsMeta),
			r.Value(model.MetricOGTitle),
			r.Value(model.MetricOGDescription),
			r.Value(model.MetricOGImage),
		})
	}
	return rows
}

// buildComparison renders metrics as rows and pages as columns. The metric
// set is the union across all reports in first-seen order, so every page's
// rows are represented even when reports disagree on shape.
func buildComparison(names []string, reports []*model.PageReport) [][]string {
	header := append([]string{"Metric"}, names...)

	var order []string
	seen := make(map[string]struct{})
	for _, r := range reports {
		for _, row := range r.Rows {
			if _, ok := seen[row.Metric]; ok {
				continue
			}
			seen[row.Metric] = struct{}{}
			order = append(order, row.Metric)
		}
	}

	rows := [][]string{header}
	for _, metric := range order {
		row := make([]string, 0, len(reports)+1)
		row = append(row, metric)
		for _, r := range reports {
			if cell, ok := r.Lookup(metric); ok {
				row = append(row, cell.Value)
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// valueLength returns the rune count of a metric value as a cell string,
// or blank when the metric is absent.
func valueLength(r *model.PageReport, metric string) string {
	row, ok := r.Lookup(metric)
	if !ok {
		return ""
	}
	return strconv.Itoa(utf8.RuneCountInString(row.Value))
}
