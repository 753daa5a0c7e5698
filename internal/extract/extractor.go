package extract

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/seoscan/seoscan/internal/model"
)

// Recommended length ranges for title and meta description text.
// Values outside these ranges are flagged in the row detail.
const (
	titleMinLength = 30
	titleMaxLength = 60

	descriptionMinLength = 120
	descriptionMaxLength = 155
)

// maxDetailLength caps free-form detail text (heading content, URL
// listings) so report cells stay readable in spreadsheets.
const maxDetailLength = 300

// timestampFormat is the layout of the Timestamp metric row.
const timestampFormat = "2006-01-02 15:04:05"

// Extractor produces a PageReport from one fetch result.
//
// Design decision: We parse with goquery rather than regular expressions
// because real-world markup is frequently malformed and goquery (via
// golang.org/x/net/html) tolerates it the same way browsers do, which is
// exactly the degradation behavior this tool needs.
type Extractor struct {
	// now supplies the report timestamp; replaceable for deterministic tests.
	now func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock sets the time source used for the Timestamp row.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds the page report for one URL. It never returns an error:
// a failed or empty fetch yields a report containing a single error row,
// and malformed HTML degrades to whatever rows can still be extracted.
func (e *Extractor) Extract(pageURL string, res *model.FetchResult) *model.PageReport {
	report := model.NewPageReport(pageURL)

	if res == nil || res.Error != "" || strings.TrimSpace(res.HTML) == "" {
		reason := "unknown"
		if res != nil && res.Error != "" {
			reason = res.Error
		}
		report.Add(model.MetricError, "Fetch failed", reason)
		return report
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.HTML))
	if err != nil {
		// Degrade to metadata-only extraction over an empty document.
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}

	base := resolveBase(pageURL, res.FinalURL)

	report.Add(model.MetricTimestamp, e.now().Format(timestampFormat), "")
	report.Add(model.MetricURL, pageURL, "")
	report.Add(model.MetricStatusCode, formatStatusCode(res.StatusCode), "")
	report.Add(model.MetricLoadTime, formatLoadTime(res.LoadTime), "")

	e.extractTitle(report, doc, res.Metadata)
	e.extractDescription(report, doc, res.Metadata)
	e.extractKeywords(report, doc, res.Metadata)
	e.extractCanonical(report, doc, res.Metadata, base)
	e.extractSchema(report, doc)
	e.extractHreflang(report, doc)
	e.extractMetaTags(report, doc, res.Metadata)
	e.extractOpenGraph(report, doc, res.Metadata)
	e.extractHeadings(report, doc)
	e.extractLinks(report, doc, base)
	e.extractImages(report, doc, base)

	return report
}

// extractTitle emits the Title row with a length flag in the detail.
func (e *Extractor) extractTitle(report *model.PageReport, doc *goquery.Document, meta model.PageMetadata) {
	title := meta.Title
	if title == "" {
		title = normalizeText(doc.Find("title").First().Text())
	}

	value := title
	if value == "" {
		value = model.ValueNotFound
	}
	report.Add(model.MetricTitle, value, lengthDetail(title, titleMinLength, titleMaxLength))
}

// extractDescription emits the Meta Description row with a length flag.
func (e *Extractor) extractDescription(report *model.PageReport, doc *goquery.Document, meta model.PageMetadata) {
	desc := meta.Description
	if desc == "" {
		desc = metaContent(doc, "description")
	}

	value := desc
	if value == "" {
		value = model.ValueNotFound
	}
	report.Add(model.MetricMetaDescription, value, lengthDetail(desc, descriptionMinLength, descriptionMaxLength))
}

// extractKeywords emits the Meta Keywords row.
func (e *Extractor) extractKeywords(report *model.PageReport, doc *goquery.Document, meta model.PageMetadata) {
	report.Add(model.MetricMetaKeywords,
		fallback(meta.Keywords, metaContent(doc, "keywords")),
		"Comma-separated list of keywords")
}

// extractMetaTags emits the robots, viewport, and charset rows.
// Metadata from the fetch API wins; the HTML is the fallback source.
func (e *Extractor) extractMetaTags(report *model.PageReport, doc *goquery.Document, meta model.PageMetadata) {
	report.Add(model.MetricRobotsMeta,
		fallback(meta.Robots, metaContent(doc, "robots")),
		"Robots meta tag content")
	report.Add(model.MetricViewportMeta,
		fallback(meta.Viewport, metaContent(doc, "viewport")),
		"Viewport meta tag content")
	report.Add(model.MetricCharset,
		fallback(meta.Charset, htmlCharset(doc)),
		"Declared character encoding")
}

// extractCanonical emits the Canonical URL row. The metadata value is
// preferred; a disagreement with the HTML canonical tag is kept visible
// in the detail rather than silently discarded.
func (e *Extractor) extractCanonical(report *model.PageReport, doc *goquery.Document, meta model.PageMetadata, base *url.URL) {
	htmlCanonical := ""
	if href, ok := doc.Find("link[rel='canonical']").First().Attr("href"); ok {
		htmlCanonical = resolveHref(base, strings.TrimSpace(href))
	}

	switch {
	case meta.Canonical != "" && htmlCanonical != "" && meta.Canonical != htmlCanonical:
		report.Add(model.MetricCanonicalURL, meta.Canonical,
			"Metadata and HTML disagree; HTML canonical: "+htmlCanonical)
	case meta.Canonical != "":
		report.Add(model.MetricCanonicalURL, meta.Canonical, "Specified canonical URL")
	case htmlCanonical != "":
		report.Add(model.MetricCanonicalURL, htmlCanonical, "Specified canonical URL")
	default:
		report.Add(model.MetricCanonicalURL, model.ValueNotFound, "No canonical tag found")
	}
}

// extractOpenGraph emits the OG title, description, and image rows.
func (e *Extractor) extractOpenGraph(report *model.PageReport, doc *goquery.Document, meta model.PageMetadata) {
	report.Add(model.MetricOGTitle,
		fallback(meta.OGTitle, metaProperty(doc, "og:title")),
		"Open Graph title")
	report.Add(model.MetricOGDescription,
		fallback(meta.OGDescription, metaProperty(doc, "og:description")),
		"Open Graph description")
	report.Add(model.MetricOGImage,
		fallback(meta.OGImage, metaProperty(doc, "og:image")),
		"Open Graph image URL")
}

// extractHeadings emits the H1/H2/H3 rows. H1 counts other than one are
// flagged in the detail text.
func (e *Extractor) extractHeadings(report *model.PageReport, doc *goquery.Document) {
	h1Count, h1Texts := headingContent(doc, "h1")
	h2Count, h2Texts := headingContent(doc, "h2")
	h3Count, h3Texts := headingContent(doc, "h3")

	h1Detail := h1Texts
	switch {
	case h1Count == 0:
		h1Detail = "missing H1"
	case h1Count > 1:
		h1Detail = "multiple H1 tags; " + h1Texts
	}

	report.Add(model.MetricH1Headings, strconv.Itoa(h1Count), truncate(h1Detail, maxDetailLength))
	report.Add(model.MetricH2Headings, strconv.Itoa(h2Count), truncate(h2Texts, maxDetailLength))
	report.Add(model.MetricH3Headings, strconv.Itoa(h3Count), truncate(h3Texts, maxDetailLength))
}

// headingContent returns the tag count and the "; "-joined heading text.
func headingContent(doc *goquery.Document, tag string) (int, string) {
	var texts []string
	doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		if t := normalizeText(s.Text()); t != "" {
			texts = append(texts, t)
		}
	})
	return doc.Find(tag).Length(), strings.Join(texts, "; ")
}

// metaContent returns the content attribute of <meta name=...>.
func metaContent(doc *goquery.Document, name string) string {
	content, _ := doc.Find(fmt.Sprintf("meta[name='%s']", name)).First().Attr("content")
	return strings.TrimSpace(content)
}

// metaProperty returns the content attribute of <meta property=...>.
func metaProperty(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf("meta[property='%s']", property)).First().Attr("content")
	return strings.TrimSpace(content)
}

// htmlCharset finds the declared encoding: <meta charset> first, then the
// legacy http-equiv Content-Type form.
func htmlCharset(doc *goquery.Document) string {
	if cs, ok := doc.Find("meta[charset]").First().Attr("charset"); ok {
		return strings.TrimSpace(cs)
	}
	content, _ := doc.Find("meta[http-equiv='Content-Type']").First().Attr("content")
	for part := range strings.SplitSeq(content, ";") {
		part = strings.TrimSpace(part)
		if len(part) > len("charset=") && strings.EqualFold(part[:len("charset=")], "charset=") {
			return strings.TrimSpace(part[len("charset="):])
		}
	}
	return ""
}

// lengthDetail formats "Length: N chars" with an out-of-range flag.
func lengthDetail(text string, minLen, maxLen int) string {
	n := utf8.RuneCountInString(text)
	detail := fmt.Sprintf("Length: %d chars", n)
	switch {
	case n < minLen:
		detail += fmt.Sprintf(" (too short, under %d)", minLen)
	case n > maxLen:
		detail += fmt.Sprintf(" (too long, over %d)", maxLen)
	}
	return detail
}

// fallback returns primary unless empty, then secondary, then "Not found".
func fallback(primary, secondary string) string {
	if primary != "" {
		return primary
	}
	if secondary != "" {
		return secondary
	}
	return model.ValueNotFound
}

// formatStatusCode renders an optional status code.
func formatStatusCode(code *int) string {
	if code == nil {
		return model.ValueNotFound
	}
	return strconv.Itoa(*code)
}

// formatLoadTime renders an optional load time in seconds.
func formatLoadTime(d *time.Duration) string {
	if d == nil {
		return model.ValueNotFound
	}
	return fmt.Sprintf("%.2f seconds", d.Seconds())
}

// normalizeText collapses all whitespace runs to single spaces.
func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// truncate caps text at maxRunes, marking the cut with an ellipsis.
func truncate(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "..."
}

// resolveBase picks the base URL for resolving relative references:
// the redirect target when the fetch reports one, else the requested URL.
// Returns nil when neither parses; relative URLs then stay as-is.
func resolveBase(pageURL, finalURL string) *url.URL {
	if finalURL != "" {
		if u, err := url.Parse(finalURL); err == nil && u.Host != "" {
			return u
		}
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		return u
	}
	return nil
}

// resolveHref resolves href against base, returning href unchanged when
// it cannot be parsed or no base is available.
func resolveHref(base *url.URL, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}
