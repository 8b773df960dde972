// Package db provides PostgreSQL storage for studies, recipients,
// run settings and run logs.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the schema if it does not exist yet. Idempotent; run at
// startup by every command that touches the database.
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS studies (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			external_id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			payout INTEGER NOT NULL DEFAULT 0,
			duration TEXT NOT NULL DEFAULT 'Unknown',
			study_type TEXT NOT NULL DEFAULT 'Unknown',
			format_tag TEXT NOT NULL DEFAULT '',
			score DOUBLE PRECISION,
			posted_text TEXT NOT NULL DEFAULT '',
			link TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			delivered BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS recipients (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT NOT NULL UNIQUE,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			interval_minutes INTEGER NOT NULL CHECK (interval_minutes BETWEEN 1 AND 60),
			enabled BOOLEAN NOT NULL DEFAULT TRUE,
			last_run_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS run_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			message TEXT NOT NULL,
			severity TEXT NOT NULL CHECK (severity IN ('info', 'success', 'warning', 'error')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
