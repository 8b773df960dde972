package db

import (
	"context"
	"fmt"
)

// -----------------------------------------------------------------------------
// Run Log Methods (append-only)
// -----------------------------------------------------------------------------

// DefaultLogLimit bounds log reads when the caller does not specify one
const DefaultLogLimit = 100

// AppendLog records a pipeline event. Entries are never mutated afterward.
func (db *DB) AppendLog(ctx context.Context, severity, message string) error {
	if !ValidSeverity(severity) {
		return fmt.Errorf("invalid log severity: %q", severity)
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO run_logs (message, severity) VALUES ($1, $2)`,
		message, severity,
	)
	if err != nil {
		return fmt.Errorf("failed to append log: %w", err)
	}
	return nil
}

// ListLogs retrieves the most recent log entries, newest first
func (db *DB) ListLogs(ctx context.Context, limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, message, severity, created_at
		 FROM run_logs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.Message, &e.Severity, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
