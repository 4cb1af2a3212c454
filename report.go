package deadlinks

import (
	"context"
	"io"
	"sort"
	"time"
)

// BrokenLink is one finding: the page a broken link was reached from and a
// human-readable description of what is wrong with it.
//
// Findings are compared by exact equality of both fields, so the same
// broken URL reached from two pages is two findings.
type BrokenLink struct {
	Origin string `json:"origin" csv:"Origin"`
	Detail string `json:"detail" csv:"Detail"`
}

// String formats the finding as it appears in the output file.
func (l BrokenLink) String() string {
	return "{" + l.Origin + " >> " + l.Detail + "}"
}

// SortBrokenLinks orders findings by origin, then detail.
func SortBrokenLinks(links []BrokenLink) {
	sort.Slice(links, func(i, j int) bool {
		if links[i].Origin != links[j].Origin {
			return links[i].Origin < links[j].Origin
		}
		return links[i].Detail < links[j].Detail
	})
}

// BrokenLinkWriter receives every finding as soon as it is recorded.
// Implementations must be safe for concurrent use.
type BrokenLinkWriter interface {
	WriteBrokenLink(ctx context.Context, link BrokenLink) error
}

// Report summarizes a finished crawl run.
type Report struct {
	RunID      string       `json:"runId"`
	Seed       string       `json:"seed"`
	Domain     string       `json:"domain"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	Visited    int          `json:"visited"`
	Broken     []BrokenLink `json:"broken"`

	// Digest identifies the set of findings. Two runs that found the same
	// set of broken links have the same digest, whatever the order.
	Digest string `json:"digest"`
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// ReportWriter renders a finished report in some format.
type ReportWriter interface {
	WriteReport(w io.Writer, report *Report) error
}

// Run is a stored crawl run.
type Run struct {
	ID         string
	Seed       string
	Domain     string
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is in progress
	Visited    int
	Broken     int
	Digest     string
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.ID == "" {
		return Errorf(EINVALID, "run ID required")
	}
	if r.Seed == "" {
		return Errorf(EINVALID, "run seed required")
	}
	return nil
}

// RunService stores crawl runs and their findings.
type RunService interface {
	// CreateRun records the start of a run.
	CreateRun(ctx context.Context, run *Run) error

	// AddBrokenLink stores a finding for a run.
	// Returns ENOTFOUND if the run does not exist.
	AddBrokenLink(ctx context.Context, runID string, link BrokenLink) error

	// FinishRun stores the summary of a finished run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, report *Report) error

	// FindRuns returns stored runs, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindBrokenLinks returns the distinct findings of a run, sorted.
	// Returns ENOTFOUND if the run does not exist.
	FindBrokenLinks(ctx context.Context, runID string) ([]BrokenLink, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID   *string
	Seed *string

	Offset int
	Limit  int
}
