// Package gocsv renders crawl reports as CSV using gocsv.
package gocsv

import (
	"io"

	"github.com/fwojciec/deadlinks"
	"github.com/gocarina/gocsv"
)

// Ensure ReportWriter implements deadlinks.ReportWriter at compile time.
var _ deadlinks.ReportWriter = (*ReportWriter)(nil)

// Row is one finding in CSV form.
type Row struct {
	Origin string `csv:"Origin"`
	URL    string `csv:"URL"`
	Kind   string `csv:"Kind"`
	Reason string `csv:"Reason"`
	Detail string `csv:"Detail"`
}

// ReportWriter writes one row per finding, sorted by origin then detail.
type ReportWriter struct{}

// NewReportWriter creates a new ReportWriter.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// WriteReport writes the header and the report's findings to w.
func (rw *ReportWriter) WriteReport(w io.Writer, report *deadlinks.Report) error {
	rows := Rows(report.Broken)
	return gocsv.Marshal(&rows, w)
}

// Rows converts findings to sorted CSV rows.
func Rows(links []deadlinks.BrokenLink) []Row {
	sorted := append([]deadlinks.BrokenLink(nil), links...)
	deadlinks.SortBrokenLinks(sorted)

	rows := make([]Row, 0, len(sorted))
	for _, l := range sorted {
		kind, url, reason := deadlinks.ParseDetail(l.Detail)
		rows = append(rows, Row{
			Origin: l.Origin,
			URL:    url,
			Kind:   string(kind),
			Reason: reason,
			Detail: l.Detail,
		})
	}
	return rows
}
