package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/deadlinks"
	"github.com/fwojciec/deadlinks/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Backend deadlinks.Fetcher
	Runs    deadlinks.RunService

	// RunWriter stores the findings of one run as they are found.
	// Set together with Runs.
	RunWriter func(runID string) deadlinks.BrokenLinkWriter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl  CrawlCmd  `cmd:"" help:"Crawl a site over plain HTTP and report broken links"`
	Render RenderCmd `cmd:"" help:"Crawl a site in a headless browser and report broken links"`
	Runs   RunsCmd   `cmd:"" help:"List crawl runs stored in a history database"`
}

// DefaultRenderSeed is the start URL of the render command when none is given.
const DefaultRenderSeed = "https://www.rbo.org.uk/"

// CrawlFlags are the flags shared by the crawling commands.
type CrawlFlags struct {
	Workers     int           `short:"w" default:"5" help:"Links of one page checked concurrently"`
	Depth       int           `short:"d" default:"3" help:"Maximum link depth from the start URL"`
	Attempts    int           `default:"3" help:"Fetch attempts per URL"`
	Timeout     time.Duration `short:"t" default:"20s" help:"Timeout per fetch attempt"`
	MinDelay    time.Duration `default:"1s" help:"Minimum random pause before each request"`
	MaxDelay    time.Duration `default:"3s" help:"Maximum random pause before each request"`
	Backoff     time.Duration `default:"1s" help:"Base of the exponential wait between attempts"`
	RPS         float64       `name:"rps" default:"0" help:"Requests per second per host (0 disables)"`
	MaxInFlight int           `default:"0" help:"Concurrent fetches across the whole crawl (0 bounds per page only)"`
	UserAgent   string        `help:"User-Agent header to send"`
	DB          string        `type:"path" help:"SQLite database to record the run in"`
	CSV         string        `name:"csv" type:"path" help:"Also write the report as CSV"`
	JUnit       string        `name:"junit" type:"path" help:"Also write the report as JUnit XML"`
	XLSX        string        `name:"xlsx" type:"path" help:"Also write the report as an Excel workbook"`
	Verbose     bool          `short:"v" help:"Log fetches and retries to stderr"`
}

// Config converts the flags to a crawl configuration.
func (f *CrawlFlags) Config() crawl.Config {
	return crawl.Config{
		MaxAttempts:       f.Attempts,
		Timeout:           f.Timeout,
		MinDelay:          f.MinDelay,
		MaxDelay:          f.MaxDelay,
		BackoffUnit:       f.Backoff,
		Workers:           f.Workers,
		MaxDepth:          f.Depth,
		MaxInFlight:       f.MaxInFlight,
		RequestsPerSecond: f.RPS,
	}
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL    string `arg:"" name:"start_url" help:"URL to start crawling from"`
	Output string `short:"o" type:"path" default:"broken_links.txt" help:"File to write broken links to"`

	CrawlFlags `embed:""`
}

// Validate reports an unusable start URL.
func (c *CrawlCmd) Validate() error {
	return validateSeed(c.URL)
}

// RenderCmd is the "render" subcommand.
type RenderCmd struct {
	URL         string        `arg:"" optional:"" name:"start_url" help:"URL to start crawling from (default: https://www.rbo.org.uk/)"`
	Output      string        `short:"o" type:"path" default:"broken_links_rendered.txt" help:"File to write broken links to"`
	RenderDelay time.Duration `default:"2s" help:"Time given to page scripts after load"`

	CrawlFlags `embed:""`
}

// Seed returns the start URL, falling back to DefaultRenderSeed.
func (c *RenderCmd) Seed() string {
	if c.URL == "" {
		return DefaultRenderSeed
	}
	return c.URL
}

// Validate reports an unusable start URL.
func (c *RenderCmd) Validate() error {
	return validateSeed(c.Seed())
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	DB    string `required:"" type:"path" help:"SQLite database holding the run history"`
	Limit int    `short:"n" default:"20" help:"Maximum number of runs to list"`
	Seed  string `help:"Only list runs started from this URL"`
	Show  string `help:"Print the broken links of the run with this ID"`
}

func validateSeed(seed string) error {
	if !deadlinks.IsValidURL(seed) {
		return deadlinks.Errorf(deadlinks.EINVALID, "invalid start URL %q: scheme and host required", seed)
	}
	return nil
}
