// Package fs provides file-based output for crawl findings.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/deadlinks"
)

// Ensure Writer implements deadlinks.BrokenLinkWriter at compile time.
var _ deadlinks.BrokenLinkWriter = (*Writer)(nil)

// Writer appends one "{origin >> detail}" line per finding.
// Writer is safe for concurrent use; lines are never interleaved.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// NewWriter creates a Writer on w. Close does not close w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Create truncates or creates the file at path, along with any missing
// parent directories, and returns a Writer on it. Every line reaches the
// file as soon as it is written, so an interrupted run keeps its findings.
func Create(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Writer{w: f, closer: f}, nil
}

// WriteBrokenLink writes the finding as a single line.
func (w *Writer) WriteBrokenLink(ctx context.Context, link deadlinks.BrokenLink) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, err := fmt.Fprintln(w.w, link.String())
	return err
}

// Close closes the underlying file if the Writer opened it.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closer == nil {
		return nil
	}
	err := w.closer.Close()
	w.closer = nil
	return err
}
