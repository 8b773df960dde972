// Package syncer reconciles extracted study candidates against the store.
// It decides what is genuinely new, keeps the store in step with the live
// listing, and tracks notification delivery per study.
package syncer

import (
	"context"
	"fmt"

	"github.com/jonathan/study-scout/internal/db"
	"github.com/jonathan/study-scout/internal/extract"
)

// Store is the slice of the database the engine needs.
type Store interface {
	// InsertStudy must return (nil, nil) when the identity already exists.
	InsertStudy(ctx context.Context, input db.StudyCreateInput) (*db.Study, error)
	DeleteStudiesNotIn(ctx context.Context, currentIDs []string) (int64, error)
	MarkStudyDelivered(ctx context.Context, externalID string) error
}

// Engine performs the diff between a fresh extraction and stored state
type Engine struct {
	store Store
}

// New constructs an Engine over a store
func New(store Store) *Engine {
	return &Engine{store: store}
}

// Reconcile inserts candidates whose identity is not yet stored and returns
// the created studies. Known identities are left untouched: re-extraction
// must not overwrite a stored row, or the delivered flag could be lost.
// Insert races between overlapping runs collapse onto the store's unique
// constraint, so running Reconcile twice with the same set inserts each
// identity at most once.
func (e *Engine) Reconcile(ctx context.Context, candidates []extract.Candidate) ([]db.Study, error) {
	var created []db.Study
	for _, c := range candidates {
		study, err := e.store.InsertStudy(ctx, db.StudyCreateInput{
			ExternalID:  c.ExternalID,
			Title:       c.Title,
			Payout:      c.Payout,
			Duration:    c.Duration,
			StudyType:   c.StudyType,
			FormatTag:   c.FormatTag,
			PostedText:  c.PostedText,
			Link:        c.Link,
			Description: c.Description,
		})
		if err != nil {
			return created, fmt.Errorf("failed to reconcile study %s: %w", c.ExternalID, err)
		}
		if study == nil {
			// Already present, inserted by an earlier or concurrent run
			continue
		}
		created = append(created, *study)
	}
	return created, nil
}

// Prune deletes stored studies no longer present in currentIDs and returns
// how many were removed. An empty set is a no-op: an empty extraction signals
// a broken fetch, not an empty board, and must never wipe the store.
func (e *Engine) Prune(ctx context.Context, currentIDs []string) (int64, error) {
	if len(currentIDs) == 0 {
		return 0, nil
	}
	removed, err := e.store.DeleteStudiesNotIn(ctx, currentIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to prune studies: %w", err)
	}
	return removed, nil
}

// MarkDelivered flags a study as covered by a successful notification.
// Idempotent; flagging twice is a no-op.
func (e *Engine) MarkDelivered(ctx context.Context, externalID string) error {
	return e.store.MarkStudyDelivered(ctx, externalID)
}
