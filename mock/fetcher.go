package mock

import (
	"context"

	"github.com/fwojciec/deadlinks"
)

var _ deadlinks.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of deadlinks.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*deadlinks.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*deadlinks.Response, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ deadlinks.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of deadlinks.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string) ([]string, error) {
	return e.ExtractLinksFn(html)
}

var _ deadlinks.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of deadlinks.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
