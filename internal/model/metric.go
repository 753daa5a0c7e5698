package model

// Metric names used in page reports. The extractor emits rows under these
// names and the compiler looks them up by name when building the Summary
// sheet, so both sides must agree on the exact strings.
const (
	MetricTimestamp            = "Timestamp"
	MetricURL                  = "URL"
	MetricStatusCode           = "Status Code"
	MetricLoadTime             = "Load Time"
	MetricTitle                = "Title"
	MetricMetaDescription      = "Meta Description"
	MetricMetaKeywords         = "Meta Keywords"
	MetricCanonicalURL         = "Canonical URL"
	MetricSchemaMarkup         = "Schema Markup"
	MetricHreflangTags         = "Hreflang Tags"
	MetricRobotsMeta           = "Robots Meta"
	MetricViewportMeta         = "Viewport Meta"
	MetricCharset              = "Charset"
	MetricOGTitle              = "OG Title"
	MetricOGDescription        = "OG Description"
	MetricOGImage              = "OG Image"
	MetricH1Headings           = "H1 Headings"
	MetricH2Headings           = "H2 Headings"
	MetricH3Headings           = "H3 Headings"
	MetricTotalLinks           = "Total Links"
	MetricInternalLinks        = "Internal Links"
	MetricExternalLinks        = "External Links"
	MetricNofollowLinks        = "Nofollow Links"
	MetricTotalImages          = "Total Images"
	MetricImagesMissingAlt     = "Images Missing Alt"
	MetricImagesEmptyAlt       = "Images Empty Alt"
	MetricImagesWithDimensions = "Images With Dimensions"

	// MetricError is the single row emitted when a page could not be
	// fetched. A report containing this row has no other extraction rows.
	MetricError = "Error"
)

// ValueNotFound is the placeholder value for fields that could not be
// extracted from the page or the fetch metadata.
const ValueNotFound = "Not found"

// MetricRow is one extracted metric: a name, its value, and free-form
// detail text (lengths, flags, truncated content listings).
type MetricRow struct {
	Metric string
	Value  string
	Detail string
}

// PageReport is the ordered sequence of metric rows for exactly one URL.
// Row order is significant: it defines the display order in report files
// and per-URL workbook sheets. Reports are created fresh per fetch attempt
// and are immutable once written to disk.
type PageReport struct {
	// URL is the analyzed URL. When a report is read back from a file,
	// this is recovered from the "URL" metric row.
	URL string

	// Rows holds the metric rows in insertion order.
	Rows []MetricRow
}

// NewPageReport creates an empty report for the given URL.
func NewPageReport(url string) *PageReport {
	return &PageReport{URL: url}
}

// Add appends a metric row to the report.
func (r *PageReport) Add(metric, value, detail string) {
	r.Rows = append(r.Rows, MetricRow{Metric: metric, Value: value, Detail: detail})
}

// Lookup returns the first row with the given metric name.
// Metric names are treated as unique for lookup purposes; when a report
// contains duplicates, the first occurrence wins.
func (r *PageReport) Lookup(metric string) (MetricRow, bool) {
	for _, row := range r.Rows {
		if row.Metric == metric {
			return row, true
		}
	}
	return MetricRow{}, false
}

// Value returns the value of the first row with the given metric name,
// or the empty string when the metric is absent.
func (r *PageReport) Value(metric string) string {
	row, ok := r.Lookup(metric)
	if !ok {
		return ""
	}
	return row.Value
}
