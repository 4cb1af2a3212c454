package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/deadlinks"
)

// Compile-time interface verification.
var _ deadlinks.RunService = (*RunService)(nil)

// RunService implements deadlinks.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun records the start of a run. StartedAt defaults to now.
func (s *RunService) CreateRun(ctx context.Context, run *deadlinks.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	switch err := s.requireRun(ctx, run.ID); {
	case err == nil:
		return deadlinks.Errorf(deadlinks.ECONFLICT, "run %s already exists", run.ID)
	case deadlinks.ErrorCode(err) != deadlinks.ENOTFOUND:
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seed, domain, started_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Seed, run.Domain, formatTime(run.StartedAt))
	return err
}

// AddBrokenLink stores a finding for a run. Storing a finding the run
// already has is a no-op.
func (s *RunService) AddBrokenLink(ctx context.Context, runID string, link deadlinks.BrokenLink) error {
	if err := s.requireRun(ctx, runID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO broken_links (run_id, origin, detail, found_at)
		VALUES (?, ?, ?, ?)
	`, runID, link.Origin, link.Detail, formatTime(time.Now()))
	return err
}

// FinishRun stores the summary of a finished run.
func (s *RunService) FinishRun(ctx context.Context, report *deadlinks.Report) error {
	finishedAt := report.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, visited = ?, broken = ?, digest = ?
		WHERE id = ?
	`, formatTime(finishedAt), report.Visited, len(report.Broken), report.Digest, report.RunID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return deadlinks.Errorf(deadlinks.ENOTFOUND, "run not found")
	}
	return nil
}

// FindRuns retrieves runs matching the filter, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter deadlinks.RunFilter) ([]*deadlinks.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, seed, domain, started_at, finished_at, visited, broken, digest FROM runs WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Seed != nil {
		query.WriteString(" AND seed = ?")
		args = append(args, *filter.Seed)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	args = limitOffset(&query, args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*deadlinks.Run
	for rows.Next() {
		var run deadlinks.Run
		var startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.Seed, &run.Domain, &startedAt, &finishedAt,
			&run.Visited, &run.Broken, &run.Digest); err != nil {
			return nil, err
		}

		if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// FindBrokenLinks retrieves the findings of a run ordered by origin, then
// detail.
func (s *RunService) FindBrokenLinks(ctx context.Context, runID string) ([]deadlinks.BrokenLink, error) {
	if err := s.requireRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT origin, detail
		FROM broken_links
		WHERE run_id = ?
		ORDER BY origin, detail
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []deadlinks.BrokenLink
	for rows.Next() {
		var link deadlinks.BrokenLink
		if err := rows.Scan(&link.Origin, &link.Detail); err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

// Writer returns a deadlinks.BrokenLinkWriter that stores findings under
// the given run.
func (s *RunService) Writer(runID string) deadlinks.BrokenLinkWriter {
	return &runWriter{svc: s, runID: runID}
}

// requireRun returns ENOTFOUND unless the run exists.
func (s *RunService) requireRun(ctx context.Context, runID string) error {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM runs WHERE id = ?", runID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return deadlinks.Errorf(deadlinks.ENOTFOUND, "run not found")
	}
	return err
}

// runWriter binds a RunService to one run.
type runWriter struct {
	svc   *RunService
	runID string
}

func (w *runWriter) WriteBrokenLink(ctx context.Context, link deadlinks.BrokenLink) error {
	return w.svc.AddBrokenLink(ctx, w.runID, link)
}
