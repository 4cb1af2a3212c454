package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fwojciec/deadlinks"
	"github.com/fwojciec/deadlinks/crawl"
	"github.com/fwojciec/deadlinks/etree"
	"github.com/fwojciec/deadlinks/excelize"
	"github.com/fwojciec/deadlinks/fs"
	"github.com/fwojciec/deadlinks/gocsv"
	"github.com/fwojciec/deadlinks/goquery"
	dlslog "github.com/fwojciec/deadlinks/slog"
	"github.com/fwojciec/deadlinks/table"
	"github.com/google/uuid"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	return runCrawl(deps, "HTTP", c.URL, c.Output, &c.CrawlFlags)
}

// Run executes the render command.
func (c *RenderCmd) Run(deps *Dependencies) error {
	return runCrawl(deps, "browser", c.Seed(), c.Output, &c.CrawlFlags)
}

// runCrawl crawls seed with the dependencies' backend and reports the result.
func runCrawl(deps *Dependencies, mode, seed, output string, flags *CrawlFlags) error {
	ctx := deps.Ctx
	stdout := &lockedWriter{w: deps.Stdout}

	cfg := flags.Config()
	if err := cfg.Validate(); err != nil {
		return err
	}

	file, err := fs.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	var fileWriter deadlinks.BrokenLinkWriter = file
	backend := deps.Backend
	var extractor deadlinks.LinkExtractor = goquery.NewExtractor()
	if flags.Verbose {
		fileWriter = dlslog.NewLoggingBrokenLinkWriter(file, deps.Logger)
		backend = dlslog.NewLoggingFetcher(backend, deps.Logger)
		extractor = dlslog.NewLoggingExtractor(extractor, deps.Logger)
	}
	writers := []deadlinks.BrokenLinkWriter{
		fileWriter,
		&echoWriter{w: stdout},
	}

	runID := uuid.New().String()
	if deps.Runs != nil {
		domain, err := deadlinks.DomainOf(seed)
		if err != nil {
			return err
		}
		if err := deps.Runs.CreateRun(ctx, &deadlinks.Run{ID: runID, Seed: seed, Domain: domain}); err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		writers = append(writers, deps.RunWriter(runID))
	}

	opts := []crawl.FetcherOption{
		crawl.WithLogger(deps.Logger),
		crawl.WithRetryLog(func(format string, args ...any) {
			fmt.Fprintf(stdout, format+"\n", args...)
		}),
	}

	crawler := &crawl.Crawler{
		Fetcher: crawl.NewFetcher(backend, extractor, cfg, opts...),
		Writers: writers,
		Config:  cfg,
		Logger:  deps.Logger,
	}

	fmt.Fprintf(stdout, "Starting %s crawl of %s\n", mode, seed)
	fmt.Fprintf(stdout, "Max depth: %d, workers: %d, attempts: %d\n", cfg.MaxDepth, cfg.Workers, cfg.MaxAttempts)

	report, crawlErr := crawler.Crawl(ctx, seed,
		crawl.WithRunID(runID),
		crawl.WithProgress(func(e crawl.ProgressEvent) {
			if e.Type == crawl.ProgressCrawling {
				fmt.Fprintf(stdout, "Crawling: %s\n", e.URL)
			}
		}),
	)
	if report == nil {
		return crawlErr
	}

	// The run is stored even when interrupted; the context may already be done.
	if deps.Runs != nil {
		if err := deps.Runs.FinishRun(context.WithoutCancel(ctx), report); err != nil {
			return fmt.Errorf("failed to finish run: %w", err)
		}
	}

	if err := writeExports(report, flags); err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "URLs visited: %d\n", report.Visited)
	fmt.Fprintf(stdout, "Broken links found: %d\n", len(report.Broken))
	fmt.Fprintf(stdout, "Results saved to: %s\n", output)
	if len(report.Broken) > 0 {
		fmt.Fprintln(stdout)
		if err := table.NewReportWriter().WriteReport(stdout, report); err != nil {
			return err
		}
	}

	return crawlErr
}

// writeExports writes the report in every format requested by flags.
func writeExports(report *deadlinks.Report, flags *CrawlFlags) error {
	exports := []struct {
		path string
		rw   deadlinks.ReportWriter
	}{
		{flags.CSV, gocsv.NewReportWriter()},
		{flags.JUnit, etree.NewJUnitWriter()},
		{flags.XLSX, excelize.NewWorkbookWriter()},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := fs.WriteReport(e.path, e.rw, report); err != nil {
			return fmt.Errorf("failed to write %s: %w", e.path, err)
		}
	}
	return nil
}

// echoWriter prints each broken link to the console as it is found.
type echoWriter struct {
	w io.Writer
}

func (e *echoWriter) WriteBrokenLink(_ context.Context, link deadlinks.BrokenLink) error {
	_, err := fmt.Fprintf(e.w, "Broken link: %s\n", link)
	return err
}

// lockedWriter serializes writes from concurrent crawl tasks.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
