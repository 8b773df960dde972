package db

import (
	"context"
	"fmt"
)

// -----------------------------------------------------------------------------
// Settings Methods (singleton row, id = 1)
// -----------------------------------------------------------------------------

// DefaultIntervalMinutes is used when the settings row is lazily created
const DefaultIntervalMinutes = 15

// GetSettings reads the singleton settings row, creating it with defaults on
// first read. Callers re-read at every trigger; settings are never cached for
// the life of the process.
func (db *DB) GetSettings(ctx context.Context) (*Settings, error) {
	var s Settings
	err := db.pool.QueryRow(ctx,
		`INSERT INTO settings (id, interval_minutes, enabled)
		 VALUES (1, $1, TRUE)
		 ON CONFLICT (id) DO UPDATE SET id = settings.id
		 RETURNING interval_minutes, enabled, last_run_at`,
		DefaultIntervalMinutes,
	).Scan(&s.IntervalMinutes, &s.Enabled, &s.LastRunAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &s, nil
}

// SetIntervalMinutes updates the check interval, bounded to 1..60
func (db *DB) SetIntervalMinutes(ctx context.Context, minutes int) error {
	if minutes < MinIntervalMinutes || minutes > MaxIntervalMinutes {
		return fmt.Errorf("interval must be between %d and %d minutes, got %d",
			MinIntervalMinutes, MaxIntervalMinutes, minutes)
	}
	if _, err := db.GetSettings(ctx); err != nil {
		return err
	}
	_, err := db.pool.Exec(ctx,
		`UPDATE settings SET interval_minutes = $1 WHERE id = 1`, minutes)
	if err != nil {
		return fmt.Errorf("failed to set interval: %w", err)
	}
	return nil
}

// SetEnabled flips the scheduler enable switch
func (db *DB) SetEnabled(ctx context.Context, enabled bool) error {
	if _, err := db.GetSettings(ctx); err != nil {
		return err
	}
	_, err := db.pool.Exec(ctx,
		`UPDATE settings SET enabled = $1 WHERE id = 1`, enabled)
	if err != nil {
		return fmt.Errorf("failed to set enabled: %w", err)
	}
	return nil
}

// TouchLastRun records that a run happened, regardless of its outcome
func (db *DB) TouchLastRun(ctx context.Context) error {
	if _, err := db.GetSettings(ctx); err != nil {
		return err
	}
	_, err := db.pool.Exec(ctx,
		`UPDATE settings SET last_run_at = NOW() WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("failed to touch last run: %w", err)
	}
	return nil
}
