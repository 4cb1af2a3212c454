package main_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/deadlinks"
	main "github.com/fwojciec/deadlinks/cmd/deadlinks"
	"github.com/fwojciec/deadlinks/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quickFlags disables the politeness delays so tests run fast.
var quickFlags = []string{"--min-delay", "0", "--max-delay", "0", "--backoff", "0", "--attempts", "1"}

// newSite serves a small site with one missing page and one malformed link.
func newSite(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, `<html><body>
<a href="/a">A</a>
<a href="/missing">Missing</a>
<a href="mailto:x@ex.test">Mail</a>
<a href="not a url">Bad</a>
</body></html>`)
		case "/a":
			fmt.Fprint(w, `<html><body><a href="/">Home</a></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func crawlArgs(seed, output string, extra ...string) []string {
	args := append([]string{"crawl", seed, "-o", output}, quickFlags...)
	return append(args, extra...)
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "deadlinks")
	assert.Contains(t, stdout.String(), "crawl")
	assert.Contains(t, stdout.String(), "render")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_CrawlRequiresURL(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"crawl"}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_CrawlRejectsInvalidURL(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer
	output := filepath.Join(t.TempDir(), "out.txt")

	err := m.Run(context.Background(), crawlArgs("example.com", output), &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid start URL")
	assert.NoFileExists(t, output)
}

func TestMain_Run_CrawlRejectsBadConfig(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer
	output := filepath.Join(t.TempDir(), "out.txt")

	err := m.Run(context.Background(), crawlArgs("https://ex.test/", output, "--workers", "0"), &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, deadlinks.EINVALID, deadlinks.ErrorCode(err))
}

func TestMain_Run_Crawl(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	dir := t.TempDir()
	output := filepath.Join(dir, "broken.txt")
	seed := srv.URL + "/"

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), crawlArgs(seed, output), &stdout, &stderr)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.ElementsMatch(t, []string{
		"{" + seed + " >> " + srv.URL + "/missing - Status: 404}",
		"{" + seed + " >> Invalid URL: not a url}",
	}, lines)

	out := stdout.String()
	assert.Contains(t, out, "Crawling: "+seed)
	assert.Contains(t, out, "URLs visited: 3")
	assert.Contains(t, out, "Broken links found: 2")
	assert.Contains(t, out, "Results saved to: "+output)
	assert.NotContains(t, out, "mailto:")
}

func TestMain_Run_CrawlExports(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "report.csv")
	junitPath := filepath.Join(dir, "report.xml")
	xlsxPath := filepath.Join(dir, "report.xlsx")

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), crawlArgs(srv.URL+"/", filepath.Join(dir, "broken.txt"),
		"--csv", csvPath, "--junit", junitPath, "--xlsx", xlsxPath,
	), &stdout, &stderr)
	require.NoError(t, err)

	csvData, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(csvData), srv.URL+"/missing")

	junitData, err := os.ReadFile(junitPath)
	require.NoError(t, err)
	assert.Contains(t, string(junitData), `failures="2"`)

	assert.FileExists(t, xlsxPath)
}

func TestMain_Run_CrawlRecordsHistory(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	seed := srv.URL + "/"

	m := main.NewMain()
	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), crawlArgs(seed, filepath.Join(dir, "broken.txt"), "--db", dbPath), &stdout, &stderr)
	require.NoError(t, err)

	stdout.Reset()
	err = main.NewMain().Run(context.Background(), []string{"runs", "--db", dbPath}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, seed)
	assert.NotContains(t, out, "running")
}

func TestMain_Run_RunsEmpty(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "history.db")

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"runs", "--db", dbPath}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No runs recorded.")
}

func TestMain_Run_RunsShowUnknown(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "history.db")

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"runs", "--db", dbPath, "--show", "nope"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, deadlinks.ENOTFOUND, deadlinks.ErrorCode(err))
	assert.Contains(t, stderr.String(), "error: run not found")
}

func TestMain_Run_RenderDefaultSeed(t *testing.T) {
	t.Parallel()

	var fetched []string
	m := main.NewMain()
	m.Backend = &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*deadlinks.Response, error) {
			fetched = append(fetched, url)
			return &deadlinks.Response{URL: url, StatusCode: http.StatusOK, HTML: "<html></html>"}, nil
		},
	}
	output := filepath.Join(t.TempDir(), "rendered.txt")
	var stdout, stderr bytes.Buffer

	args := append([]string{"render", "-o", output}, quickFlags...)
	err := m.Run(context.Background(), args, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, []string{main.DefaultRenderSeed}, fetched)
	assert.Contains(t, stdout.String(), "Starting browser crawl of "+main.DefaultRenderSeed)
	assert.Contains(t, stdout.String(), "Broken links found: 0")
	assert.FileExists(t, output)
}

func TestMain_Run_RenderReportsBrokenLinks(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.Backend = &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*deadlinks.Response, error) {
			if url == "https://spa.test/" {
				return &deadlinks.Response{URL: url, StatusCode: http.StatusOK, HTML: `<a href="/gone">x</a>`}, nil
			}
			return &deadlinks.Response{URL: url, StatusCode: http.StatusGone}, nil
		},
	}
	output := filepath.Join(t.TempDir(), "rendered.txt")
	var stdout, stderr bytes.Buffer

	args := append([]string{"render", "https://spa.test/", "-o", output}, quickFlags...)
	err := m.Run(context.Background(), args, &stdout, &stderr)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "{https://spa.test/ >> https://spa.test/gone - Status: 410}\n", string(data))
	assert.Contains(t, stdout.String(), "Broken link: {https://spa.test/ >> https://spa.test/gone - Status: 410}")
}
