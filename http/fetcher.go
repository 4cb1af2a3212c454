// Package http provides an HTTP-based implementation of deadlinks.Fetcher
// for checking pages that don't require JavaScript rendering.
package http

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/fwojciec/deadlinks"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with crawl.DefaultConfig().Timeout.
const DefaultFetchTimeout = 20 * time.Second

// DefaultMaxBodySize is the largest body read from a page, in bytes.
// Anything after it is ignored.
const DefaultMaxBodySize = 10 << 20

// DefaultUserAgent identifies the crawler to the sites it checks.
const DefaultUserAgent = "deadlinks/1.0 (+https://github.com/fwojciec/deadlinks)"

// Ensure Fetcher implements deadlinks.Fetcher at compile time.
var _ deadlinks.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages using HTTP GET requests.
// Unlike rod.Fetcher, this does not execute JavaScript, so links added by
// scripts are not seen.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests, redirects included.
// Defaults to DefaultFetchTimeout (20s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the largest body read from a page.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithClient sets the HTTP client. Its timeout is replaced by the
// fetcher's timeout.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	// The caller's client is copied so that the timeout does not leak into it.
	client := &http.Client{}
	if f.client != nil {
		*client = *f.client
	}
	client.Timeout = f.timeout
	f.client = client

	return f
}

// Fetch requests the page at url, following redirects.
//
// Any HTTP status is a response, not an error; errors are reserved for
// requests that got no response at all. The body is only read for HTML
// pages with a status below 400, decoded to UTF-8 using the declared
// charset.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*deadlinks.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result := &deadlinks.Response{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
	}

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode >= 400 || !isHTML(contentType) {
		return result, nil
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), contentType)
	if err != nil {
		return nil, fmt.Errorf("decoding body of %s: %w", url, err)
	}
	html, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	result.HTML = string(html)

	return result, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// isHTML reports whether a Content-Type may hold an HTML document.
// A missing Content-Type is treated as HTML.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return true
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
