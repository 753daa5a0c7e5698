package extract

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/seoscan/seoscan/internal/model"
	"golang.org/x/net/publicsuffix"
)

// skippedSchemes are href prefixes that do not represent page links.
var skippedSchemes = []string{"javascript:", "mailto:", "tel:"}

// extractLinks emits the Total/Internal/External/Nofollow Links rows.
// Relative hrefs are resolved against the base URL before classification;
// internal means the same registered domain as the analyzed page.
func (e *Extractor) extractLinks(report *model.PageReport, doc *goquery.Document, base *url.URL) {
	var total int
	var internal, external, nofollow []string

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			// Anchors without an href are excluded from link counts.
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || hasSkippedScheme(href) {
			return
		}

		resolved := resolveHref(base, href)
		total++

		if isInternalLink(base, resolved) {
			internal = append(internal, resolved)
		} else {
			external = append(external, resolved)
		}

		if rel, ok := s.Attr("rel"); ok && hasRelToken(rel, "nofollow") {
			nofollow = append(nofollow, resolved)
		}
	})

	report.Add(model.MetricTotalLinks, strconv.Itoa(total), "Total number of links found")
	report.Add(model.MetricInternalLinks, strconv.Itoa(len(internal)), truncate(strings.Join(internal, "; "), maxDetailLength))
	report.Add(model.MetricExternalLinks, strconv.Itoa(len(external)), truncate(strings.Join(external, "; "), maxDetailLength))
	report.Add(model.MetricNofollowLinks, strconv.Itoa(len(nofollow)), truncate(strings.Join(nofollow, "; "), maxDetailLength))
}

// extractImages emits the image count rows: total, missing alt attribute,
// present-but-empty alt, and images carrying explicit dimensions.
func (e *Extractor) extractImages(report *model.PageReport, doc *goquery.Document, base *url.URL) {
	var total, emptyAlt, withDimensions int
	var missingAlt []string

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok {
			src, ok = s.Attr("data-src")
		}
		if !ok || strings.TrimSpace(src) == "" {
			return
		}
		total++

		alt, hasAlt := s.Attr("alt")
		switch {
		case !hasAlt:
			missingAlt = append(missingAlt, resolveHref(base, strings.TrimSpace(src)))
		case strings.TrimSpace(alt) == "":
			emptyAlt++
		}

		if w, ok := s.Attr("width"); ok && strings.TrimSpace(w) != "" {
			if h, ok := s.Attr("height"); ok && strings.TrimSpace(h) != "" {
				withDimensions++
			}
		}
	})

	report.Add(model.MetricTotalImages, strconv.Itoa(total), "Total number of images found")
	report.Add(model.MetricImagesMissingAlt, strconv.Itoa(len(missingAlt)), truncate(strings.Join(missingAlt, "; "), maxDetailLength))
	report.Add(model.MetricImagesEmptyAlt, strconv.Itoa(emptyAlt), "Alt attribute present but empty")
	report.Add(model.MetricImagesWithDimensions, strconv.Itoa(withDimensions),
		fmt.Sprintf("%d images with explicit dimensions", withDimensions))
}

// hasSkippedScheme reports whether href starts with a non-link scheme.
func hasSkippedScheme(href string) bool {
	lower := strings.ToLower(href)
	for _, scheme := range skippedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// hasRelToken reports whether the rel attribute contains the given token.
func hasRelToken(rel, token string) bool {
	for _, t := range strings.Fields(rel) {
		if strings.EqualFold(t, token) {
			return true
		}
	}
	return false
}

// isInternalLink reports whether the resolved link shares the registered
// domain (eTLD+1) of the page. Links that never resolved to an absolute
// URL count as internal, matching how a browser would navigate them.
func isInternalLink(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	if u.Host == "" {
		return true
	}
	if base == nil {
		return false
	}
	return registeredDomain(u.Hostname()) == registeredDomain(base.Hostname())
}

// registeredDomain returns the eTLD+1 of host, falling back to the host
// itself for IPs, localhost, and other names outside the suffix list.
func registeredDomain(host string) string {
	host = strings.ToLower(host)
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
