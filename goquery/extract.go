// Package goquery extracts links from HTML documents using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/deadlinks"
)

var _ deadlinks.LinkExtractor = (*Extractor)(nil)

// Extractor collects the href of every anchor in a document.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractLinks returns the raw href values of all <a> elements in html, in
// document order. Values are not resolved, filtered, or deduplicated;
// anchors with an empty href point at the page itself and are skipped.
func (e *Extractor) ExtractLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, deadlinks.Errorf(deadlinks.EINVALID, "failed to parse HTML: %v", err)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}
		links = append(links, href)
	})

	return links, nil
}
