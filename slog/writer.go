package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/deadlinks"
)

// Ensure LoggingBrokenLinkWriter implements deadlinks.BrokenLinkWriter.
var _ deadlinks.BrokenLinkWriter = (*LoggingBrokenLinkWriter)(nil)

// LoggingBrokenLinkWriter logs every finding before passing it on.
// With a nil next writer it only logs.
type LoggingBrokenLinkWriter struct {
	next   deadlinks.BrokenLinkWriter
	logger *slog.Logger
}

// NewLoggingBrokenLinkWriter creates a new LoggingBrokenLinkWriter.
func NewLoggingBrokenLinkWriter(next deadlinks.BrokenLinkWriter, logger *slog.Logger) *LoggingBrokenLinkWriter {
	return &LoggingBrokenLinkWriter{next: next, logger: logger}
}

// WriteBrokenLink logs the finding and delegates to the wrapped writer.
func (w *LoggingBrokenLinkWriter) WriteBrokenLink(ctx context.Context, link deadlinks.BrokenLink) error {
	w.logger.Info("broken link",
		"origin", link.Origin,
		"detail", link.Detail,
	)
	if w.next == nil {
		return nil
	}
	return w.next.WriteBrokenLink(ctx, link)
}
