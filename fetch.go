package deadlinks

import (
	"context"
	"fmt"
)

// Response is a single page retrieved by a Fetcher.
type Response struct {
	// URL is the URL that was requested.
	URL string

	// StatusCode is the HTTP status of the final response, after redirects.
	StatusCode int

	// HTML is the page body. Rendering fetchers return the DOM after
	// client-side scripts have run.
	HTML string
}

// Fetcher retrieves a page over some transport.
// A response with an error status is not an error: Fetch returns an error
// only when no response was obtained (timeouts, connection failures).
type Fetcher interface {
	// Fetch retrieves the page at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases transport resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// LinkExtractor finds hyperlinks in page content.
type LinkExtractor interface {
	// ExtractLinks returns the raw href values found in html, in document
	// order. Values are not resolved, filtered or deduplicated.
	ExtractLinks(html string) ([]string, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// FetchKind discriminates the outcome of fetching one URL.
type FetchKind int

// Fetch outcomes.
const (
	// FetchSuccess is a 2xx or 3xx response whose links were extracted.
	FetchSuccess FetchKind = iota
	// FetchClientError is a response with status 400 or above.
	FetchClientError
	// FetchTransportFailure means no response was obtained after all attempts.
	FetchTransportFailure
)

// String returns the outcome name.
func (k FetchKind) String() string {
	switch k {
	case FetchSuccess:
		return "success"
	case FetchClientError:
		return "client_error"
	case FetchTransportFailure:
		return "transport_failure"
	default:
		return fmt.Sprintf("FetchKind(%d)", int(k))
	}
}

// FetchResult is the classified outcome of fetching one URL.
type FetchResult struct {
	Kind FetchKind

	// StatusCode is set for FetchSuccess and FetchClientError.
	StatusCode int

	// Links holds the raw hrefs of a FetchSuccess page, in document order.
	Links []string

	// Err is the last transport error of a FetchTransportFailure.
	Err error
}

// Detail returns the human-readable reason recorded for a failed fetch of url.
// It returns an empty string for FetchSuccess.
func (r FetchResult) Detail(url string) string {
	switch r.Kind {
	case FetchClientError:
		return StatusDetail(url, r.StatusCode)
	case FetchTransportFailure:
		return ErrorDetail(url, r.Err)
	default:
		return ""
	}
}

// StatusDetail formats the detail of a link answered with an error status.
func StatusDetail(url string, status int) string {
	return fmt.Sprintf("%s - Status: %d", url, status)
}

// ErrorDetail formats the detail of a link that failed with err.
func ErrorDetail(url string, err error) string {
	return fmt.Sprintf("%s - Error: %v", url, err)
}

// InvalidDetail formats the detail of an href that is not a valid URL.
func InvalidDetail(url string) string {
	return "Invalid URL: " + url
}
