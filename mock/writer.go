package mock

import (
	"context"
	"io"

	"github.com/fwojciec/deadlinks"
)

var _ deadlinks.BrokenLinkWriter = (*BrokenLinkWriter)(nil)

// BrokenLinkWriter is a mock implementation of deadlinks.BrokenLinkWriter.
type BrokenLinkWriter struct {
	WriteBrokenLinkFn func(ctx context.Context, link deadlinks.BrokenLink) error
}

func (w *BrokenLinkWriter) WriteBrokenLink(ctx context.Context, link deadlinks.BrokenLink) error {
	return w.WriteBrokenLinkFn(ctx, link)
}

var _ deadlinks.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of deadlinks.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(w io.Writer, report *deadlinks.Report) error
}

func (r *ReportWriter) WriteReport(w io.Writer, report *deadlinks.Report) error {
	return r.WriteReportFn(w, report)
}
