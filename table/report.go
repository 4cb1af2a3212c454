// Package table renders crawl reports as aligned console tables using
// rodaine/table.
package table

import (
	"io"

	"github.com/fwojciec/deadlinks"
	"github.com/rodaine/table"
)

// Ensure ReportWriter implements deadlinks.ReportWriter at compile time.
var _ deadlinks.ReportWriter = (*ReportWriter)(nil)

// ReportWriter prints findings grouped by the page they were found on.
// The first row of each group carries the page and its finding count.
type ReportWriter struct{}

// NewReportWriter creates a new ReportWriter.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// WriteReport prints the table to w. A report without findings prints
// nothing.
func (rw *ReportWriter) WriteReport(w io.Writer, report *deadlinks.Report) error {
	if len(report.Broken) == 0 {
		return nil
	}

	links := append([]deadlinks.BrokenLink(nil), report.Broken...)
	deadlinks.SortBrokenLinks(links)

	counts := make(map[string]int)
	for _, l := range links {
		counts[l.Origin]++
	}

	tbl := table.New("Page", "Count", "Broken Link").WithWriter(w)
	prev := ""
	for _, l := range links {
		if l.Origin != prev {
			tbl.AddRow(l.Origin, counts[l.Origin], l.Detail)
			prev = l.Origin
			continue
		}
		tbl.AddRow("", "", l.Detail)
	}
	tbl.Print()

	return nil
}

// RunsWriter prints stored runs, one per row.
type RunsWriter struct{}

// NewRunsWriter creates a new RunsWriter.
func NewRunsWriter() *RunsWriter {
	return &RunsWriter{}
}

// WriteRuns prints the runs table to w.
func (rw *RunsWriter) WriteRuns(w io.Writer, runs []*deadlinks.Run) {
	tbl := table.New("ID", "Seed", "Started", "Duration", "Visited", "Broken", "Digest").WithWriter(w)
	for _, r := range runs {
		duration := "running"
		if !r.FinishedAt.IsZero() {
			duration = r.FinishedAt.Sub(r.StartedAt).String()
		}
		tbl.AddRow(r.ID, r.Seed, r.StartedAt.Local().Format("2006-01-02 15:04:05"), duration, r.Visited, r.Broken, r.Digest)
	}
	tbl.Print()
}
