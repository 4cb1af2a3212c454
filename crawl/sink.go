package crawl

import (
	"context"
	"fmt"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/fwojciec/deadlinks"
)

// Sink collects the findings of a crawl run and forwards each one to the
// configured writers as soon as it is recorded.
// It is safe for concurrent use by multiple goroutines.
type Sink struct {
	links   mapset.Set[deadlinks.BrokenLink]
	writers []deadlinks.BrokenLinkWriter
	logger  *slog.Logger
}

// NewSink creates a Sink that notifies the given writers.
// A nil logger discards writer errors.
func NewSink(logger *slog.Logger, writers ...deadlinks.BrokenLinkWriter) *Sink {
	if logger == nil {
		logger = discardLogger()
	}
	return &Sink{
		links:   mapset.NewSet[deadlinks.BrokenLink](),
		writers: writers,
		logger:  logger,
	}
}

// Record adds the finding to the collection and passes it to every writer.
// Writers are notified on every call, including repeats of a finding
// already collected. A failing or panicking writer does not stop the
// others.
func (s *Sink) Record(ctx context.Context, origin, detail string) {
	link := deadlinks.BrokenLink{Origin: origin, Detail: detail}
	s.links.Add(link)

	for _, w := range s.writers {
		if err := write(ctx, w, link); err != nil {
			s.logger.Error("write broken link",
				"origin", origin,
				"detail", detail,
				"err", err,
			)
		}
	}
}

// write delivers link to w, turning a panic in the writer into an error so
// that it cannot unwind through the task that recorded the finding.
func write(ctx context.Context, w deadlinks.BrokenLinkWriter, link deadlinks.BrokenLink) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("writer panicked: %v", p)
		}
	}()
	return w.WriteBrokenLink(ctx, link)
}

// Len returns the number of distinct findings.
func (s *Sink) Len() int {
	return s.links.Cardinality()
}

// Links returns a sorted copy of the distinct findings.
func (s *Sink) Links() []deadlinks.BrokenLink {
	links := s.links.ToSlice()
	deadlinks.SortBrokenLinks(links)
	return links
}
