// Package crawl provides the broken-link crawl engine. It walks every page
// reachable from a seed URL within the seed's domain, fetching concurrently
// and politely, and collects the links that are malformed, unreachable, or
// answered with an error status.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/deadlinks"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Crawler orchestrates broken-link crawls.
type Crawler struct {
	Fetcher *Fetcher
	Writers []deadlinks.BrokenLinkWriter
	Config  Config
	Logger  *slog.Logger
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type  ProgressType
	URL   string
	Depth int
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	// ProgressCrawling is sent when a URL is about to be fetched.
	ProgressCrawling ProgressType = iota
	// ProgressFinished is sent once the whole crawl tree has completed.
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
// It may be called from many goroutines at once.
type ProgressFunc func(event ProgressEvent)

// runConfig holds per-call settings for Crawl.
type runConfig struct {
	runID    string
	progress ProgressFunc
}

// RunOption configures a single Crawl call.
type RunOption func(*runConfig)

// WithRunID sets the identifier of the run. Defaults to a new UUID.
func WithRunID(id string) RunOption {
	return func(c *runConfig) {
		c.runID = id
	}
}

// WithProgress sets a callback that receives progress events.
func WithProgress(fn ProgressFunc) RunOption {
	return func(c *runConfig) {
		c.progress = fn
	}
}

// run is the shared state of one crawl, used by every task of the run.
type run struct {
	cfg      Config
	domain   string
	fetcher  *Fetcher
	registry *Registry
	sink     *Sink
	inFlight *semaphore.Weighted
	logger   *slog.Logger
	progress ProgressFunc
}

// Crawl checks every link reachable from seed within the seed's host and
// returns the run's report once the whole crawl tree has completed.
//
// Broken links are delivered to the crawler's writers as they are found.
// Crawl returns an error only for an invalid seed or configuration, or a
// canceled context; broken links are never an error.
func (c *Crawler) Crawl(ctx context.Context, seed string, opts ...RunOption) (*deadlinks.Report, error) {
	rc := &runConfig{}
	for _, opt := range opts {
		opt(rc)
	}
	if rc.runID == "" {
		rc.runID = uuid.New().String()
	}

	if err := c.Config.Validate(); err != nil {
		return nil, err
	}
	if c.Fetcher == nil {
		return nil, deadlinks.Errorf(deadlinks.EINVALID, "crawler has no fetcher")
	}
	domain, err := deadlinks.DomainOf(seed)
	if err != nil {
		return nil, err
	}

	logger := c.Logger
	if logger == nil {
		logger = discardLogger()
	}
	logger = logger.With("run", rc.runID)

	r := &run{
		cfg:      c.Config,
		domain:   domain,
		fetcher:  c.Fetcher,
		registry: NewRegistry(),
		sink:     NewSink(logger, c.Writers...),
		logger:   logger,
		progress: rc.progress,
	}
	if c.Config.MaxInFlight > 0 {
		r.inFlight = semaphore.NewWeighted(int64(c.Config.MaxInFlight))
	}

	report := &deadlinks.Report{
		RunID:     rc.runID,
		Seed:      seed,
		Domain:    domain,
		StartedAt: time.Now().UTC(),
	}
	logger.Info("crawl started", "seed", seed, "domain", domain)

	r.crawl(ctx, deadlinks.Task{URL: seed})

	report.FinishedAt = time.Now().UTC()
	report.Visited = r.registry.Len()
	report.Broken = r.sink.Links()
	report.Digest = Digest(report.Broken)

	logger.Info("crawl finished",
		"visited", report.Visited,
		"broken", len(report.Broken),
		"duration", report.Duration(),
	)
	r.notify(ProgressEvent{Type: ProgressFinished})

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// crawl processes one task and, for a page that loads, every task found on
// it. It returns only after all of those descendant tasks have returned.
func (r *run) crawl(ctx context.Context, task deadlinks.Task) {
	if task.Depth > r.cfg.MaxDepth {
		return
	}
	if !r.registry.Claim(task.URL) {
		return
	}
	// Out-of-domain links stay claimed so they are not considered again.
	if !deadlinks.InDomain(task.URL, r.domain) {
		return
	}

	// A failure while processing one URL must not take down the run. The
	// recovery runs after expand has joined this task's children.
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("crawl task panicked", "url", task.URL, "panic", p)
			r.sink.Record(ctx, task.Attribution(), deadlinks.ErrorDetail(task.URL, fmt.Errorf("%v", p)))
		}
	}()

	r.notify(ProgressEvent{Type: ProgressCrawling, URL: task.URL, Depth: task.Depth})

	result, err := r.fetch(ctx, task.URL)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.sink.Record(ctx, task.Attribution(), deadlinks.ErrorDetail(task.URL, err))
		return
	}

	switch result.Kind {
	case deadlinks.FetchSuccess:
		r.expand(ctx, task, result.Links)
	default:
		r.sink.Record(ctx, task.Attribution(), result.Detail(task.URL))
	}
}

// fetch runs the fetcher, holding a run-wide slot if MaxInFlight is set.
// The slot is released before any child task starts.
func (r *run) fetch(ctx context.Context, url string) (deadlinks.FetchResult, error) {
	if r.inFlight != nil {
		if err := r.inFlight.Acquire(ctx, 1); err != nil {
			return deadlinks.FetchResult{}, err
		}
		defer r.inFlight.Release(1)
	}
	return r.fetcher.Fetch(ctx, url)
}

// expand crawls the links of a fetched page with at most Workers of them
// running at once, and waits for all of them.
func (r *run) expand(ctx context.Context, task deadlinks.Task, hrefs []string) {
	var g errgroup.Group
	g.SetLimit(r.cfg.Workers)
	// Deferred so that the children are joined even if the loop panics.
	defer func() { _ = g.Wait() }()

	for _, href := range hrefs {
		if ctx.Err() != nil {
			break
		}
		if deadlinks.IsNonCrawlable(href) {
			continue
		}

		abs := deadlinks.ResolveURL(task.URL, href)
		if !deadlinks.IsValidURL(abs) {
			r.sink.Record(ctx, task.URL, deadlinks.InvalidDetail(abs))
			continue
		}

		// Fragments never reach the server, so the page is fetched without one.
		abs = deadlinks.NormalizeURL(abs)

		// Cheap pre-check; the claim in crawl is what decides.
		if r.registry.Seen(abs) {
			continue
		}

		child := task.Child(abs)
		g.Go(func() error {
			r.crawl(ctx, child)
			return nil
		})
	}
}

func (r *run) notify(event ProgressEvent) {
	if r.progress != nil {
		r.progress(event)
	}
}
