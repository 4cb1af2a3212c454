// Package excelize renders crawl reports as Excel workbooks using excelize.
package excelize

import (
	"io"
	"strconv"

	"github.com/fwojciec/deadlinks"
	"github.com/xuri/excelize/v2"
)

// Sheet names used in the workbook.
const (
	LinksSheet   = "Sheet1"
	SummarySheet = "Summary"
)

// Header is the first row of the links sheet.
var Header = []string{"Origin", "URL", "Kind", "Reason", "Detail"}

// Ensure WorkbookWriter implements deadlinks.ReportWriter at compile time.
var _ deadlinks.ReportWriter = (*WorkbookWriter)(nil)

// WorkbookWriter writes a report as an XLSX workbook with the findings on
// the first sheet and run metadata on a summary sheet.
type WorkbookWriter struct{}

// NewWorkbookWriter creates a new WorkbookWriter.
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{}
}

// WriteReport writes the workbook to w.
func (ww *WorkbookWriter) WriteReport(w io.Writer, report *deadlinks.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeLinks(f, report.Broken); err != nil {
		return err
	}
	if err := writeSummary(f, report); err != nil {
		return err
	}

	return f.Write(w)
}

func writeLinks(f *excelize.File, broken []deadlinks.BrokenLink) error {
	links := append([]deadlinks.BrokenLink(nil), broken...)
	deadlinks.SortBrokenLinks(links)

	for col, name := range Header {
		if err := setCell(f, LinksSheet, col+1, 1, name); err != nil {
			return err
		}
	}

	for i, l := range links {
		kind, url, reason := deadlinks.ParseDetail(l.Detail)
		row := i + 2
		for col, value := range []string{l.Origin, url, string(kind), reason, l.Detail} {
			if err := setCell(f, LinksSheet, col+1, row, value); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(LinksSheet, "A", "B", 50); err != nil {
		return err
	}
	return f.SetColWidth(LinksSheet, "E", "E", 80)
}

func writeSummary(f *excelize.File, report *deadlinks.Report) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}

	rows := [][2]string{
		{"Run", report.RunID},
		{"Seed", report.Seed},
		{"Domain", report.Domain},
		{"Started", formatTime(report)},
		{"Duration", report.Duration().String()},
		{"Visited", strconv.Itoa(report.Visited)},
		{"Broken", strconv.Itoa(len(report.Broken))},
		{"Digest", report.Digest},
	}
	for i, r := range rows {
		if err := setCell(f, SummarySheet, 1, i+1, r[0]); err != nil {
			return err
		}
		if err := setCell(f, SummarySheet, 2, i+1, r[1]); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "B", "B", 50)
}

func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellStr(sheet, cell, value)
}

func formatTime(report *deadlinks.Report) string {
	if report.StartedAt.IsZero() {
		return ""
	}
	return report.StartedAt.UTC().Format("2006-01-02 15:04:05 UTC")
}
