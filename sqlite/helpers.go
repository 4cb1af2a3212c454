package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// formatTime is the stored form of a timestamp. RFC3339 in UTC sorts
// lexically in time order, which the run listing relies on.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime reads a stored timestamp. The empty string is the zero time,
// used for runs that have not finished.
func parseTime(value, column string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}

// limitOffset adds LIMIT and OFFSET clauses for the positive values.
func limitOffset(query *strings.Builder, args []any, limit, offset int) []any {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			// SQLite accepts OFFSET only after LIMIT.
			query.WriteString(" LIMIT -1")
		}
		query.WriteString(" OFFSET ?")
		args = append(args, offset)
	}
	return args
}
