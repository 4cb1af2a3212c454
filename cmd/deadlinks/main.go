package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/deadlinks"
	dlhttp "github.com/fwojciec/deadlinks/http"
	"github.com/fwojciec/deadlinks/rod"
	dlslog "github.com/fwojciec/deadlinks/slog"
	"github.com/fwojciec/deadlinks/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used for run history, if a database path was given.
	DB *sqlite.DB

	// Backend overrides the fetch backend. Set before calling Run().
	Backend deadlinks.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.DiscardHandler),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("deadlinks"),
		kong.Description("Find broken links on a website"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.DefaultEnvars("DEADLINKS"),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'deadlinks --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	var flags *CrawlFlags
	var dbPath string
	switch cmd {
	case "crawl":
		if err := cli.Crawl.Validate(); err != nil {
			return err
		}
		flags = &cli.Crawl.CrawlFlags
		dbPath = flags.DB
	case "render":
		if err := cli.Render.Validate(); err != nil {
			return err
		}
		flags = &cli.Render.CrawlFlags
		dbPath = flags.DB
	case "runs":
		dbPath = cli.Runs.DB
	}

	if flags != nil && flags.Verbose {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	if dbPath != "" {
		m.DB = sqlite.NewDB(dbPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set DEADLINKS_DB or --db to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		defer m.Close()

		svc := sqlite.NewRunService(m.DB)
		deps.Runs = svc
		deps.RunWriter = svc.Writer
		if flags != nil && flags.Verbose {
			deps.Runs = dlslog.NewLoggingRunService(svc, deps.Logger)
		}
	}

	// Wire the fetch backend for crawling commands.
	if flags != nil {
		backend := m.Backend
		if backend == nil {
			backend, err = m.newBackend(cmd, cli, deps)
			if err != nil {
				return err
			}
			defer backend.Close()
		}
		deps.Backend = backend
	}

	return kongCtx.Run(deps)
}

// newBackend creates the fetch backend for a crawling command.
func (m *Main) newBackend(cmd string, cli *CLI, deps *Dependencies) (deadlinks.Fetcher, error) {
	if cmd == "render" {
		flags := cli.Render.CrawlFlags
		fetcher, err := rod.NewFetcher(
			rod.WithFetchTimeout(flags.Timeout),
			rod.WithRenderDelay(cli.Render.RenderDelay),
			rod.WithManagerOptions(
				rod.WithBrowserUserAgent(flags.UserAgent),
				rod.WithManagerLogger(deps.Logger),
			),
		)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return fetcher, nil
	}

	flags := cli.Crawl.CrawlFlags
	opts := []dlhttp.Option{dlhttp.WithTimeout(flags.Timeout)}
	if flags.UserAgent != "" {
		opts = append(opts, dlhttp.WithUserAgent(flags.UserAgent))
	}
	return dlhttp.NewFetcher(opts...), nil
}
