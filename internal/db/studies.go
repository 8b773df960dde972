package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Study Methods
// -----------------------------------------------------------------------------

const studyColumns = `id, external_id, title, payout, duration, study_type, format_tag,
	score, posted_text, link, description, delivered, created_at`

func scanStudy(row pgx.Row) (*Study, error) {
	var s Study
	err := row.Scan(&s.ID, &s.ExternalID, &s.Title, &s.Payout, &s.Duration,
		&s.StudyType, &s.FormatTag, &s.Score, &s.PostedText, &s.Link,
		&s.Description, &s.Delivered, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetStudyByExternalID retrieves a study by its site-assigned identity.
// Returns (nil, nil) when no such study exists.
func (db *DB) GetStudyByExternalID(ctx context.Context, externalID string) (*Study, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+studyColumns+` FROM studies WHERE external_id = $1`,
		externalID,
	)
	s, err := scanStudy(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get study: %w", err)
	}
	return s, nil
}

// InsertStudy inserts a newly discovered study with delivered = false.
// The unique constraint on external_id is the dedup mechanism: if the
// identity already exists the insert is a no-op and (nil, nil) is returned,
// so a conflict is never surfaced as an error.
func (db *DB) InsertStudy(ctx context.Context, input StudyCreateInput) (*Study, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO studies (external_id, title, payout, duration, study_type,
		                      format_tag, score, posted_text, link, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (external_id) DO NOTHING
		 RETURNING `+studyColumns,
		input.ExternalID, input.Title, input.Payout, input.Duration,
		input.StudyType, input.FormatTag, input.Score, input.PostedText,
		input.Link, input.Description,
	)
	s, err := scanStudy(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Already exists, inserted by an earlier or concurrent run
			return nil, nil
		}
		return nil, fmt.Errorf("failed to insert study: %w", err)
	}
	return s, nil
}

// UpdateStudy applies an explicit update to a study's mutable fields.
// Reconciliation never calls this; re-extraction must not silently overwrite
// stored rows (that would be able to erase delivered state if it touched the
// flag, and hides manual edits either way).
func (db *DB) UpdateStudy(ctx context.Context, externalID string, input StudyUpdateInput) (*Study, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE studies SET
			title       = COALESCE($2, title),
			payout      = COALESCE($3, payout),
			duration    = COALESCE($4, duration),
			study_type  = COALESCE($5, study_type),
			format_tag  = COALESCE($6, format_tag),
			score       = COALESCE($7, score),
			posted_text = COALESCE($8, posted_text),
			link        = COALESCE($9, link),
			description = COALESCE($10, description)
		 WHERE external_id = $1
		 RETURNING `+studyColumns,
		externalID, input.Title, input.Payout, input.Duration, input.StudyType,
		input.FormatTag, input.Score, input.PostedText, input.Link, input.Description,
	)
	s, err := scanStudy(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update study: %w", err)
	}
	return s, nil
}

// MarkStudyDelivered sets the delivered flag. Idempotent: marking an
// already-delivered study is a no-op, not an error.
func (db *DB) MarkStudyDelivered(ctx context.Context, externalID string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE studies SET delivered = TRUE WHERE external_id = $1`,
		externalID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark study delivered: %w", err)
	}
	return nil
}

// DeleteStudiesNotIn removes studies whose external_id is absent from
// currentIDs and returns the number removed. An empty currentIDs is a no-op:
// an empty extraction almost always means the fetch or the parse broke, and
// must never wipe the store.
func (db *DB) DeleteStudiesNotIn(ctx context.Context, currentIDs []string) (int64, error) {
	if len(currentIDs) == 0 {
		return 0, nil
	}

	tag, err := db.pool.Exec(ctx,
		`DELETE FROM studies WHERE external_id != ALL($1)`,
		currentIDs,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune studies: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListStudiesOptions contains filters for listing studies
type ListStudiesOptions struct {
	Undelivered bool // only studies not yet covered by a notification
	Limit       int  // 0 means no limit
}

// ListStudies retrieves stored studies, newest first
func (db *DB) ListStudies(ctx context.Context, opts ListStudiesOptions) ([]Study, error) {
	query := `SELECT ` + studyColumns + ` FROM studies`
	if opts.Undelivered {
		query += ` WHERE delivered = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	args := []any{}
	if opts.Limit > 0 {
		query += ` LIMIT $1`
		args = append(args, opts.Limit)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list studies: %w", err)
	}
	defer rows.Close()

	var studies []Study
	for rows.Next() {
		s, err := scanStudy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan study: %w", err)
		}
		studies = append(studies, *s)
	}
	return studies, rows.Err()
}

// CountStudies returns the total number of stored studies
func (db *DB) CountStudies(ctx context.Context) (int64, error) {
	var n int64
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM studies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count studies: %w", err)
	}
	return n, nil
}
