package crawl

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/deadlinks"
)

// Digest computes an order-independent hash of a set of findings using
// xxhash. Duplicates are counted once.
func Digest(links []deadlinks.BrokenLink) string {
	lines := make([]string, 0, len(links))
	for _, l := range links {
		lines = append(lines, l.String())
	}
	slices.Sort(lines)
	lines = slices.Compact(lines)

	h := xxhash.New()
	for _, line := range lines {
		_, _ = h.WriteString(line)
		_, _ = h.WriteString("\n")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
