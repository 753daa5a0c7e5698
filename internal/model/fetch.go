package model

import "time"

// FetchResult is what the external fetch collaborator returns for one URL.
// Every field beyond URL may be absent: optional scalars are pointers and
// optional strings use the empty string as the absent marker. The extractor
// must tolerate any combination of absent fields.
type FetchResult struct {
	// URL is the originally requested URL.
	URL string

	// FinalURL is the URL after redirects, when the fetch API reports one.
	// Empty when no redirect target is known; relative URLs on the page are
	// then resolved against the requested URL instead.
	FinalURL string

	// HTML is the rendered page markup. Empty means the fetch produced no
	// usable HTML and extraction is skipped in favor of an error row.
	HTML string

	// StatusCode is the HTTP status of the analyzed page, nil when unknown.
	StatusCode *int

	// LoadTime is how long the fetch took, nil when unknown.
	LoadTime *time.Duration

	// Error carries a fetch-level failure message. Empty means no error.
	Error string

	// Metadata holds page fields the fetch API extracted on its side.
	Metadata PageMetadata
}

// PageMetadata is the explicit optional field set supplied by the fetch
// API alongside the raw HTML. Empty string means the API did not report
// the field; the extractor then falls back to parsing the HTML itself.
type PageMetadata struct {
	Title         string
	Description   string
	Keywords      string
	Robots        string
	Viewport      string
	Charset       string
	Canonical     string
	OGTitle       string
	OGDescription string
	OGImage       string
}
