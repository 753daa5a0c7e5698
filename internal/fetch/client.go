package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/seoscan/seoscan/internal/model"
)

// Client defaults. The crawl API renders pages in a headless browser, so
// the request timeout must be generous compared to plain HTTP fetches.
const (
	// DefaultTimeout bounds one scrape request end to end.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxBodySize caps the API response body read. Rendered HTML
	// for a single page rarely exceeds a few megabytes.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// scrapeEndpoint is the render-and-scrape endpoint path.
	scrapeEndpoint = "/v1/scrape"
)

// Client calls the crawling API's scrape endpoint.
//
// Design decision: We hold a configured http.Client in a struct rather
// than passing one per call so connection pooling and the timeout are
// consistent across a batch, and tests can point the client at a local
// httptest server.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	userAgent   string
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header sent to the API.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize caps the API response body read.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// NewClient creates a Client for the API at baseURL, authenticating with
// the given key on every request.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// scrapeRequest is the API request body.
type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
	BlockAds        bool     `json:"blockAds"`
}

// scrapeResponse is the API response envelope.
type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		RawHTML  string `json:"rawHtml"`
		Metadata struct {
			Title         string `json:"title"`
			Description   string `json:"description"`
			Keywords      string `json:"keywords"`
			Robots        string `json:"robots"`
			Viewport      string `json:"viewport"`
			Charset       string `json:"charset"`
			Canonical     string `json:"canonical"`
			OGTitle       string `json:"ogTitle"`
			OGDescription string `json:"ogDescription"`
			OGImage       string `json:"ogImage"`
			StatusCode    *int   `json:"statusCode"`
			URL           string `json:"url"`
		} `json:"metadata"`
	} `json:"data"`
}

// Scrape fetches the rendered HTML and page metadata for one URL.
// The returned error covers network failures, non-2xx API responses, and
// API-level failures; the batch runner records it as a per-URL outcome.
func (c *Client) Scrape(ctx context.Context, pageURL string) (*model.FetchResult, error) {
	payload, err := json.Marshal(scrapeRequest{
		URL:             pageURL,
		Formats:         []string{"rawHtml"},
		OnlyMainContent: false,
		BlockAds:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+scrapeEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build scrape request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape request failed: %w", err)
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read scrape response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scrape API returned status %d: %s", resp.StatusCode, snippet(body))
	}

	var sr scrapeResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to decode scrape response: %w", err)
	}
	if !sr.Success {
		msg := sr.Error
		if msg == "" {
			msg = "no error message provided"
		}
		return nil, fmt.Errorf("scrape API reported failure: %s", msg)
	}

	result := &model.FetchResult{
		URL:      pageURL,
		HTML:     sr.Data.RawHTML,
		LoadTime: &elapsed,
		Metadata: model.PageMetadata{
			Title:         sr.Data.Metadata.Title,
			Description:   sr.Data.Metadata.Description,
			Keywords:      sr.Data.Metadata.Keywords,
			Robots:        sr.Data.Metadata.Robots,
			Viewport:      sr.Data.Metadata.Viewport,
			Charset:       sr.Data.Metadata.Charset,
			Canonical:     sr.Data.Metadata.Canonical,
			OGTitle:       sr.Data.Metadata.OGTitle,
			OGDescription: sr.Data.Metadata.OGDescription,
			OGImage:       sr.Data.Metadata.OGImage,
		},
	}

	// Page status: prefer what the renderer observed, fall back to the
	// API response status.
	if sr.Data.Metadata.StatusCode != nil {
		result.StatusCode = sr.Data.Metadata.StatusCode
	} else {
		status := resp.StatusCode
		result.StatusCode = &status
	}

	// The renderer reports the post-redirect URL in metadata.url.
	if sr.Data.Metadata.URL != "" && sr.Data.Metadata.URL != pageURL {
		result.FinalURL = sr.Data.Metadata.URL
	}

	return result, nil
}

// snippet truncates a response body for error messages.
func snippet(body []byte) string {
	const maxLen = 200
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
