// Package main provides the entry point for the seoscan CLI.
//
// seoscan analyzes web pages for SEO issues. It fetches fully rendered
// HTML through a crawling API, extracts on-page metrics (title, meta tags,
// headings, links, images, structured data), writes one CSV report per
// URL, and compiles reports into an xlsx workbook for review.
//
// Usage:
//
//	seoscan scan https://example.com
//	seoscan scan --list urls.csv
//	seoscan compile --dir results
//
// See --help for all available options.
package main

// main is the entry point for seoscan.
func main() {
	Execute()
}
