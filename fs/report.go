package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/deadlinks"
)

// Ensure TextReport implements deadlinks.ReportWriter at compile time.
var _ deadlinks.ReportWriter = (*TextReport)(nil)

// TextReport renders a report in the line format of Writer, sorted.
type TextReport struct{}

// WriteReport writes one "{origin >> detail}" line per finding.
func (TextReport) WriteReport(w io.Writer, report *deadlinks.Report) error {
	links := append([]deadlinks.BrokenLink(nil), report.Broken...)
	deadlinks.SortBrokenLinks(links)
	for _, link := range links {
		if _, err := fmt.Fprintln(w, link.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteReport renders the report with rw into the file at path, replacing
// any existing file. The report is rendered to path + ".tmp" and renamed
// into place, so path never holds a partial report.
func WriteReport(path string, rw deadlinks.ReportWriter, report *deadlinks.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	if err := rw.WriteReport(f, report); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}
