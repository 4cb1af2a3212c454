package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/deadlinks"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// Fetcher resolves one URL to a classified deadlinks.FetchResult. It wraps a
// transport (plain HTTP or a browser) with the crawl's politeness and retry
// policy, which is the same whichever transport is in use:
//
//   - before every attempt, retries included, it pauses for a random
//     duration in [MinDelay, MaxDelay] and waits for the host rate limit;
//   - an attempt that gets no response is retried after BackoffUnit * 2^n,
//     up to MaxAttempts attempts;
//   - a response with status 400 or above is final and never retried.
//
// Fetcher is safe for concurrent use if its transport and extractor are.
type Fetcher struct {
	backend   deadlinks.Fetcher
	extractor deadlinks.LinkExtractor
	limiter   deadlinks.DomainLimiter
	logger    *slog.Logger
	retryLog  LogFunc

	maxAttempts int
	timeout     time.Duration
	minDelay    time.Duration
	maxDelay    time.Duration
	backoffUnit time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithLimiter sets the per-host rate limiter, replacing the one built from
// Config.RequestsPerSecond.
func WithLimiter(l deadlinks.DomainLimiter) FetcherOption {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithLogger sets the structured logger used for retries.
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithRetryLog sets a function called before each retry, for operator output.
func WithRetryLog(fn LogFunc) FetcherOption {
	return func(f *Fetcher) {
		f.retryLog = fn
	}
}

// NewFetcher creates a Fetcher over the given transport and link extractor.
func NewFetcher(backend deadlinks.Fetcher, extractor deadlinks.LinkExtractor, cfg Config, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		backend:     backend,
		extractor:   extractor,
		logger:      discardLogger(),
		maxAttempts: max(cfg.MaxAttempts, 1),
		timeout:     cfg.Timeout,
		minDelay:    cfg.MinDelay,
		maxDelay:    cfg.MaxDelay,
		backoffUnit: cfg.BackoffUnit,
	}
	if cfg.RequestsPerSecond > 0 {
		f.limiter = NewDomainLimiter(cfg.RequestsPerSecond)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves and classifies the page at rawURL.
//
// The returned error is not about the link: it is non-nil only when the
// context was canceled or the page content could not be processed. Broken
// links are reported through the result.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (deadlinks.FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		if err := f.pause(ctx, rawURL); err != nil {
			return deadlinks.FetchResult{}, err
		}

		resp, err := f.attempt(ctx, rawURL)
		if err == nil {
			return f.classify(rawURL, resp)
		}
		lastErr = err

		// A canceled run is not a broken link.
		if ctx.Err() != nil {
			return deadlinks.FetchResult{}, ctx.Err()
		}

		// Don't wait after the last attempt
		if attempt >= f.maxAttempts-1 {
			break
		}

		wait := Backoff(f.backoffUnit, attempt)
		f.logger.Warn("fetch retry",
			"url", rawURL,
			"attempt", attempt+1,
			"wait", wait,
			"err", err,
		)
		if f.retryLog != nil {
			f.retryLog("Error for %s: %v, retrying in %s... (Attempt %d/%d)", rawURL, err, wait, attempt+1, f.maxAttempts)
		}
		if err := sleep(ctx, wait); err != nil {
			return deadlinks.FetchResult{}, err
		}
	}

	return deadlinks.FetchResult{
		Kind: deadlinks.FetchTransportFailure,
		Err:  lastErr,
	}, nil
}

// pause applies the politeness delay and host rate limit before an attempt.
func (f *Fetcher) pause(ctx context.Context, rawURL string) error {
	if err := sleep(ctx, Jitter(f.minDelay, f.maxDelay)); err != nil {
		return err
	}
	if f.limiter == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return f.limiter.Wait(ctx, u.Host)
}

// attempt performs one transport fetch under the per-attempt timeout.
func (f *Fetcher) attempt(ctx context.Context, rawURL string) (*deadlinks.Response, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	resp, err := f.backend.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("no response for %s", rawURL)
	}
	return resp, nil
}

// classify turns a response into a result, extracting links from pages
// with a 2xx or 3xx status.
func (f *Fetcher) classify(rawURL string, resp *deadlinks.Response) (deadlinks.FetchResult, error) {
	if resp.StatusCode >= 400 {
		return deadlinks.FetchResult{
			Kind:       deadlinks.FetchClientError,
			StatusCode: resp.StatusCode,
		}, nil
	}

	result := deadlinks.FetchResult{
		Kind:       deadlinks.FetchSuccess,
		StatusCode: resp.StatusCode,
	}
	if resp.StatusCode < 200 {
		return result, nil
	}

	links, err := f.extractor.ExtractLinks(resp.HTML)
	if err != nil {
		return deadlinks.FetchResult{}, fmt.Errorf("extracting links from %s: %w", rawURL, err)
	}
	result.Links = links
	return result, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
