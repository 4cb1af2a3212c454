package crawl

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fwojciec/deadlinks"
	"golang.org/x/time/rate"
)

var _ deadlinks.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter caps the request rate per host using token buckets.
// Each host gets its own limiter, so hosts do not slow each other down.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a new DomainLimiter allowing rps requests per
// second to each host, with a burst of 1.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the host.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[host] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// Jitter returns a duration drawn uniformly from [lo, hi].
func Jitter(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}

// Backoff returns the wait after failed attempt n (counting from 0):
// unit * 2^n.
func Backoff(unit time.Duration, attempt int) time.Duration {
	return unit << attempt
}

// sleep pauses for d, returning early with the context's error if it is
// canceled first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
