// Package rod provides a browser-backed implementation of deadlinks.Fetcher
// that sees the page as rendered after its scripts run.
package rod

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/fwojciec/deadlinks"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 20 * time.Second

// DefaultRenderDelay is how long a loaded page is given to finish running
// scripts before its HTML is captured.
const DefaultRenderDelay = 2 * time.Second

// Ensure Fetcher implements deadlinks.Fetcher at compile time.
var _ deadlinks.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines; each fetch
// uses its own tab.
type Fetcher struct {
	manager     *BrowserManager
	timeout     time.Duration
	renderDelay time.Duration
	managerOpts []ManagerOption
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for a single page load.
// Defaults to DefaultFetchTimeout (20s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRenderDelay sets how long to wait after the load event before
// reading the page. Defaults to DefaultRenderDelay (2s).
func WithRenderDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.renderDelay = d
	}
}

// WithManagerOptions passes options to the BrowserManager the Fetcher
// launches.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, opts...)
	}
}

// NewFetcher creates a new Fetcher backed by a freshly launched browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		renderDelay: DefaultRenderDelay,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch loads the URL in a new tab and returns the rendered HTML together
// with the HTTP status of the main document. If the browser never reports
// a document response, the status is assumed to be 200.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*deadlinks.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.manager.Closed() {
		return nil, deadlinks.Errorf(deadlinks.EINVALID, "fetcher is closed")
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	browser := f.manager.Browser()
	if browser == nil {
		return nil, deadlinks.Errorf(deadlinks.EINVALID, "fetcher is closed")
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer page.Close()
	defer f.manager.IncrementPageCount()

	// Ends the event listener below once the fetch returns.
	pageCtx, cancelPage := context.WithCancel(ctx)
	defer cancelPage()
	page = page.Context(pageCtx)

	var status atomic.Int32
	go page.EachEvent(func(e *proto.NetworkResponseReceived) {
		if e.Type == proto.NetworkResourceTypeDocument {
			status.CompareAndSwap(0, int32(e.Response.Status))
		}
	})()

	if err := page.Navigate(url); err != nil {
		return nil, contextErr(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, contextErr(ctx, err)
	}

	if f.renderDelay > 0 {
		t := time.NewTimer(f.renderDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, contextErr(ctx, err)
	}

	code := int(status.Load())
	if code == 0 {
		code = http.StatusOK
	}

	return &deadlinks.Response{
		URL:        url,
		StatusCode: code,
		HTML:       html,
	}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// contextErr prefers the context's error over the browser's report of it.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
