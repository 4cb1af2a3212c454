package crawl

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/fwojciec/deadlinks"
)

// Registry is the set of URLs already claimed by a crawl run.
// It is safe for concurrent use by multiple goroutines.
type Registry struct {
	claimed mapset.Set[string]
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		claimed: mapset.NewSet[string](),
	}
}

// Claim marks the URL as taken and reports whether this call took it.
// Exactly one caller wins for each URL, however many race on it; claims
// are never released.
// URL fragments are stripped first, so URLs differing only by fragment
// share one claim.
func (r *Registry) Claim(url string) bool {
	return r.claimed.Add(deadlinks.NormalizeURL(url))
}

// Seen reports whether the URL has already been claimed.
func (r *Registry) Seen(url string) bool {
	return r.claimed.Contains(deadlinks.NormalizeURL(url))
}

// Len returns the number of claimed URLs.
func (r *Registry) Len() int {
	return r.claimed.Cardinality()
}
