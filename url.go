package deadlinks

import (
	"net/url"
	"strings"
	"unicode"
)

// IsValidURL reports whether rawURL has both a scheme and a host.
// Strings that fail to parse are invalid rather than an error.
func IsValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// InDomain reports whether the host of rawURL contains domain.
//
// The match is a plain substring test: "docs.example.com" is in
// "example.com", and so is "example.com.evil.net".
func InDomain(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.Contains(u.Host, domain)
}

// IsNonCrawlable reports whether href uses a scheme the crawler ignores
// entirely (mailto: and tel:). Such links are never followed or reported.
func IsNonCrawlable(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:")
}

// ResolveURL resolves href against the page at baseURL.
//
// Surrounding whitespace is ignored. Interior spaces in an href that looks
// like a path or file name (it contains '/', '.', '?' or '#') are
// percent-encoded, so "/files/My Doc.pdf" resolves like a browser would.
// Any other href with interior whitespace, such as "not a url", or one that
// does not parse, cannot be resolved and is returned as-is so that
// IsValidURL rejects it.
func ResolveURL(baseURL, href string) string {
	href = strings.TrimSpace(href)
	raw := href
	if strings.IndexFunc(href, unicode.IsSpace) != -1 {
		if !strings.ContainsAny(href, "/.?#") {
			return href
		}
		raw = strings.ReplaceAll(href, " ", "%20")
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// NormalizeURL returns the form of rawURL used for deduplication.
// URLs differing only by fragment are the same page.
func NormalizeURL(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		return rawURL[:idx]
	}
	return rawURL
}

// DomainOf returns the host of a seed URL, which becomes the crawl's
// target domain. Returns EINVALID if the seed is not a valid URL.
func DomainOf(seed string) (string, error) {
	u, err := url.Parse(seed)
	if err != nil {
		return "", Errorf(EINVALID, "invalid start URL %q: %v", seed, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", Errorf(EINVALID, "invalid start URL %q: scheme and host required", seed)
	}
	return u.Host, nil
}
