package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/deadlinks"
	"github.com/fwojciec/deadlinks/mock"
	dlslog "github.com/fwojciec/deadlinks/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with status, bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*deadlinks.Response, error) {
				return &deadlinks.Response{URL: url, StatusCode: 200, HTML: "<html>content</html>"}, nil
			},
		}

		fetcher := dlslog.NewLoggingFetcher(inner, debugLogger(&buf))
		resp, err := fetcher.Fetch(context.Background(), "https://ex.test/docs")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", resp.HTML)
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://ex.test/docs")
		assert.Contains(t, output, "status=200")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*deadlinks.Response, error) {
				return nil, errors.New("network error")
			},
		}

		fetcher := dlslog.NewLoggingFetcher(inner, debugLogger(&buf))
		_, err := fetcher.Fetch(context.Background(), "https://ex.test/docs")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "status=0")
		assert.Contains(t, output, "err=\"network error\"")
	})

}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	t.Run("delegates to inner fetcher", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		closeCalled := false
		inner := &mock.Fetcher{
			CloseFn: func() error {
				closeCalled = true
				return nil
			},
		}

		fetcher := dlslog.NewLoggingFetcher(inner, debugLogger(&buf))
		err := fetcher.Close()

		require.NoError(t, err)
		assert.True(t, closeCalled)
	})
}

func TestLoggingExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.LinkExtractor{
		ExtractLinksFn: func(html string) ([]string, error) {
			return []string{"/a", "/b", "/c"}, nil
		},
	}

	extractor := dlslog.NewLoggingExtractor(inner, debugLogger(&buf))
	links, err := extractor.ExtractLinks("<html></html>")

	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b", "/c"}, links)
	output := buf.String()
	assert.Contains(t, output, "msg=\"extract links\"")
	assert.Contains(t, output, "count=3")
	assert.Contains(t, output, "bytes=13")
}
