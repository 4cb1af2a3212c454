package crawl

import (
	"time"

	"github.com/fwojciec/deadlinks"
)

// Config holds the tunables of a crawl run.
type Config struct {
	// MaxAttempts is the number of fetch attempts per URL, including the first.
	MaxAttempts int

	// Timeout bounds each fetch attempt. Zero means no timeout.
	Timeout time.Duration

	// MinDelay and MaxDelay bound the random pause taken before every
	// fetch attempt, retries included.
	MinDelay time.Duration
	MaxDelay time.Duration

	// BackoffUnit is the base of the exponential backoff between attempts:
	// attempt n (from 0) is followed by a wait of BackoffUnit * 2^n.
	BackoffUnit time.Duration

	// Workers bounds how many links of one page are crawled concurrently.
	Workers int

	// MaxDepth is the deepest link level crawled; the seed is depth 0.
	MaxDepth int

	// MaxInFlight, if positive, bounds concurrent fetches across the whole
	// run. Zero leaves concurrency bounded per page only.
	MaxInFlight int

	// RequestsPerSecond, if positive, caps the request rate per host on top
	// of the random delay.
	RequestsPerSecond float64
}

// DefaultConfig returns the default crawl configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		Timeout:     20 * time.Second,
		MinDelay:    1 * time.Second,
		MaxDelay:    3 * time.Second,
		BackoffUnit: 1 * time.Second,
		Workers:     5,
		MaxDepth:    3,
	}
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	switch {
	case c.MaxAttempts < 1:
		return deadlinks.Errorf(deadlinks.EINVALID, "max attempts must be at least 1, got %d", c.MaxAttempts)
	case c.Workers < 1:
		return deadlinks.Errorf(deadlinks.EINVALID, "workers must be at least 1, got %d", c.Workers)
	case c.MaxDepth < 0:
		return deadlinks.Errorf(deadlinks.EINVALID, "max depth must not be negative, got %d", c.MaxDepth)
	case c.Timeout < 0:
		return deadlinks.Errorf(deadlinks.EINVALID, "timeout must not be negative, got %s", c.Timeout)
	case c.MinDelay < 0:
		return deadlinks.Errorf(deadlinks.EINVALID, "min delay must not be negative, got %s", c.MinDelay)
	case c.MaxDelay < c.MinDelay:
		return deadlinks.Errorf(deadlinks.EINVALID, "max delay %s is below min delay %s", c.MaxDelay, c.MinDelay)
	case c.BackoffUnit < 0:
		return deadlinks.Errorf(deadlinks.EINVALID, "backoff unit must not be negative, got %s", c.BackoffUnit)
	case c.MaxInFlight < 0:
		return deadlinks.Errorf(deadlinks.EINVALID, "max in-flight must not be negative, got %d", c.MaxInFlight)
	case c.RequestsPerSecond < 0:
		return deadlinks.Errorf(deadlinks.EINVALID, "requests per second must not be negative, got %g", c.RequestsPerSecond)
	}
	return nil
}
