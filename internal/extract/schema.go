package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/seoscan/seoscan/internal/model"
	"golang.org/x/text/language"
)

// extractSchema emits the Schema Markup row: the count of parseable
// application/ld+json blocks and the distinct @type values found in them.
// Blocks that are not valid JSON are skipped, not errors.
func (e *Extractor) extractSchema(report *model.PageReport, doc *goquery.Document) {
	var count int
	var types []string
	seen := make(map[string]bool)

	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return
		}
		count++
		for _, t := range schemaTypes(data) {
			if !seen[t] {
				seen[t] = true
				types = append(types, t)
			}
		}
	})

	detail := "None found"
	if len(types) > 0 {
		detail = "Types: " + strings.Join(types, ", ")
	}
	report.Add(model.MetricSchemaMarkup, strconv.Itoa(count), detail)
}

// schemaTypes collects @type values from a decoded JSON-LD document.
// Handles a top-level object, a top-level array of objects, and @type
// given as either a string or an array of strings.
func schemaTypes(data any) []string {
	switch v := data.(type) {
	case map[string]any:
		return typeValues(v["@type"])
	case []any:
		var types []string
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				types = append(types, typeValues(obj["@type"])...)
			}
		}
		return types
	default:
		return nil
	}
}

// typeValues normalizes an @type field into a string slice.
func typeValues(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		var types []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				types = append(types, s)
			}
		}
		return types
	default:
		return nil
	}
}

// extractHreflang emits the Hreflang Tags row: the count of alternate
// link tags carrying an hreflang attribute and the distinct language codes
// they declare. Codes are normalized through the BCP 47 parser where
// possible so "EN-us" and "en-US" collapse to one entry.
func (e *Extractor) extractHreflang(report *model.PageReport, doc *goquery.Document) {
	var count int
	var codes []string
	seen := make(map[string]bool)

	doc.Find("link[rel='alternate'][hreflang]").Each(func(_ int, s *goquery.Selection) {
		code, _ := s.Attr("hreflang")
		code = strings.TrimSpace(code)
		if code == "" {
			return
		}
		count++

		normalized := code
		if tag, err := language.Parse(code); err == nil {
			normalized = tag.String()
		}
		if !seen[normalized] {
			seen[normalized] = true
			codes = append(codes, normalized)
		}
	})

	detail := "None found"
	if len(codes) > 0 {
		detail = strings.Join(codes, ", ")
	}
	report.Add(model.MetricHreflangTags, strconv.Itoa(count), detail)
}
