package deadlinks_test

import (
	"testing"

	"github.com/fwojciec/deadlinks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want bool
	}{
		{"https://ex.test/", true},
		{"http://ex.test:8080/a?b=c", true},
		{"ftp://files.ex.test/pub", true},
		{"/relative/path", false},
		{"not a url", false},
		{"javascript:void(0)", false},
		{"https://", false},
		{"http://[::1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, deadlinks.IsValidURL(tt.url))
		})
	}
}

func TestInDomain(t *testing.T) {
	t.Parallel()

	t.Run("matches exact host", func(t *testing.T) {
		t.Parallel()
		assert.True(t, deadlinks.InDomain("https://ex.test/a", "ex.test"))
	})

	t.Run("matches subdomains", func(t *testing.T) {
		t.Parallel()
		assert.True(t, deadlinks.InDomain("https://docs.ex.test/a", "ex.test"))
	})

	t.Run("matches unrelated hosts containing the domain", func(t *testing.T) {
		t.Parallel()
		assert.True(t, deadlinks.InDomain("https://ex.test.evil.net/", "ex.test"))
	})

	t.Run("rejects other hosts", func(t *testing.T) {
		t.Parallel()
		assert.False(t, deadlinks.InDomain("https://other.test/", "ex.test"))
	})

	t.Run("ignores the path", func(t *testing.T) {
		t.Parallel()
		assert.False(t, deadlinks.InDomain("https://other.test/ex.test", "ex.test"))
	})

	t.Run("rejects unparseable URLs", func(t *testing.T) {
		t.Parallel()
		assert.False(t, deadlinks.InDomain("http://[::1", "ex.test"))
	})
}

func TestIsNonCrawlable(t *testing.T) {
	t.Parallel()

	assert.True(t, deadlinks.IsNonCrawlable("mailto:x@ex.test"))
	assert.True(t, deadlinks.IsNonCrawlable("MAILTO:x@ex.test"))
	assert.True(t, deadlinks.IsNonCrawlable("tel:+44123"))
	assert.True(t, deadlinks.IsNonCrawlable("  Tel:+44123"))
	assert.False(t, deadlinks.IsNonCrawlable("https://ex.test/mailto:x"))
	assert.False(t, deadlinks.IsNonCrawlable("javascript:void(0)"))
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		href string
		want string
	}{
		{"relative path", "https://ex.test/docs/", "intro", "https://ex.test/docs/intro"},
		{"root relative", "https://ex.test/docs/", "/a", "https://ex.test/a"},
		{"absolute", "https://ex.test/", "https://other.test/x", "https://other.test/x"},
		{"protocol relative", "https://ex.test/", "//cdn.ex.test/x", "https://cdn.ex.test/x"},
		{"trims whitespace", "https://ex.test/", "  /a\n", "https://ex.test/a"},
		{"interior whitespace stays unresolved", "https://ex.test/", "not a url", "not a url"},
		{"spaces in a path are encoded", "https://ex.test/", "/files/My Doc.pdf", "https://ex.test/files/My%20Doc.pdf"},
		{"spaces in a relative file name are encoded", "https://ex.test/docs/", "my notes.html", "https://ex.test/docs/my%20notes.html"},
		{"spaces in a query are encoded", "https://ex.test/", "/search?q=a b", "https://ex.test/search?q=a%20b"},
		{"control characters stay unresolved", "https://ex.test/", "/a\tb", "/a\tb"},
		{"parse failure stays unresolved", "https://ex.test/", "http://[::1", "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, deadlinks.ResolveURL(tt.base, tt.href))
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://ex.test/a", deadlinks.NormalizeURL("https://ex.test/a#top"))
	assert.Equal(t, "https://ex.test/a", deadlinks.NormalizeURL("https://ex.test/a"))
}

func TestDomainOf(t *testing.T) {
	t.Parallel()

	t.Run("returns host of seed", func(t *testing.T) {
		t.Parallel()

		domain, err := deadlinks.DomainOf("https://www.ex.test:8443/start")

		require.NoError(t, err)
		assert.Equal(t, "www.ex.test:8443", domain)
	})

	t.Run("rejects seed without host", func(t *testing.T) {
		t.Parallel()

		_, err := deadlinks.DomainOf("ex.test/start")

		require.Error(t, err)
		assert.Equal(t, deadlinks.EINVALID, deadlinks.ErrorCode(err))
	})

	t.Run("rejects unparseable seed", func(t *testing.T) {
		t.Parallel()

		_, err := deadlinks.DomainOf("http://[::1")

		require.Error(t, err)
		assert.Equal(t, deadlinks.EINVALID, deadlinks.ErrorCode(err))
	})
}
