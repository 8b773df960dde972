package db

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Recipient Methods
// -----------------------------------------------------------------------------

var emailValidator = validator.New()

// ValidateRecipientEmail checks that an address is a plausible email
func ValidateRecipientEmail(email string) error {
	if err := emailValidator.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid recipient email %q: %w", email, err)
	}
	return nil
}

// AddRecipient inserts a recipient, active by default. Adding an existing
// address reactivates it rather than failing on the unique constraint.
func (db *DB) AddRecipient(ctx context.Context, email string) (*Recipient, error) {
	email = NormalizeEmail(email)
	if err := ValidateRecipientEmail(email); err != nil {
		return nil, err
	}

	var r Recipient
	err := db.pool.QueryRow(ctx,
		`INSERT INTO recipients (email)
		 VALUES ($1)
		 ON CONFLICT (email) DO UPDATE SET active = TRUE
		 RETURNING id, email, active, created_at`,
		email,
	).Scan(&r.ID, &r.Email, &r.Active, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add recipient: %w", err)
	}
	return &r, nil
}

// SetRecipientActive toggles a recipient without deleting its history
func (db *DB) SetRecipientActive(ctx context.Context, email string, active bool) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE recipients SET active = $2 WHERE email = $1`,
		NormalizeEmail(email), active,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recipient not found: %s", email)
	}
	return nil
}

// GetRecipient retrieves a recipient by address. Returns (nil, nil) when absent.
func (db *DB) GetRecipient(ctx context.Context, email string) (*Recipient, error) {
	var r Recipient
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, active, created_at FROM recipients WHERE email = $1`,
		NormalizeEmail(email),
	).Scan(&r.ID, &r.Email, &r.Active, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}
	return &r, nil
}

// ListRecipients retrieves recipients; activeOnly narrows to the notify set
func (db *DB) ListRecipients(ctx context.Context, activeOnly bool) ([]Recipient, error) {
	query := `SELECT id, email, active, created_at FROM recipients`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	defer rows.Close()

	var recipients []Recipient
	for rows.Next() {
		var r Recipient
		if err := rows.Scan(&r.ID, &r.Email, &r.Active, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}
