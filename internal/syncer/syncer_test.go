package syncer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/study-scout/internal/db"
	"github.com/jonathan/study-scout/internal/extract"
)

// fakeStore implements Store in memory with the same conflict semantics as
// the real one: inserting a known identity returns (nil, nil).
type fakeStore struct {
	studies     map[string]*db.Study
	deleteCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{studies: make(map[string]*db.Study)}
}

func (f *fakeStore) InsertStudy(_ context.Context, input db.StudyCreateInput) (*db.Study, error) {
	if _, exists := f.studies[input.ExternalID]; exists {
		return nil, nil
	}
	s := &db.Study{
		ID:         uuid.New(),
		ExternalID: input.ExternalID,
		Title:      input.Title,
		Payout:     input.Payout,
		Duration:   input.Duration,
		StudyType:  input.StudyType,
		FormatTag:  input.FormatTag,
	}
	f.studies[input.ExternalID] = s
	return s, nil
}

func (f *fakeStore) DeleteStudiesNotIn(_ context.Context, currentIDs []string) (int64, error) {
	f.deleteCalls++
	keep := make(map[string]bool, len(currentIDs))
	for _, id := range currentIDs {
		keep[id] = true
	}
	var removed int64
	for id := range f.studies {
		if !keep[id] {
			delete(f.studies, id)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeStore) MarkStudyDelivered(_ context.Context, externalID string) error {
	if s, ok := f.studies[externalID]; ok {
		s.Delivered = true
	}
	return nil
}

func candidates(ids ...string) []extract.Candidate {
	out := make([]extract.Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, extract.Candidate{ExternalID: id, Title: "Study " + id})
	}
	return out
}

func TestReconcile_InsertsNewOnly(t *testing.T) {
	store := newFakeStore()
	engine := New(store)
	ctx := context.Background()

	created, err := engine.Reconcile(ctx, candidates("abc123", "def456"))
	require.NoError(t, err)
	assert.Len(t, created, 2)

	// One known, one new
	created, err = engine.Reconcile(ctx, candidates("abc123", "ghi789"))
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "ghi789", created[0].ExternalID)
}

func TestReconcile_Idempotent(t *testing.T) {
	store := newFakeStore()
	engine := New(store)
	ctx := context.Background()

	first, err := engine.Reconcile(ctx, candidates("abc123", "def456"))
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := engine.Reconcile(ctx, candidates("abc123", "def456"))
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Len(t, store.studies, 2)
}

func TestReconcile_NewStudiesStartUndelivered(t *testing.T) {
	store := newFakeStore()
	engine := New(store)

	created, err := engine.Reconcile(context.Background(), candidates("abc123"))
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.False(t, created[0].Delivered)
}

func TestPrune_RemovesStale(t *testing.T) {
	store := newFakeStore()
	engine := New(store)
	ctx := context.Background()

	_, err := engine.Reconcile(ctx, candidates("abc123", "def456", "ghi789"))
	require.NoError(t, err)

	removed, err := engine.Prune(ctx, []string{"abc123"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Len(t, store.studies, 1)
	assert.Contains(t, store.studies, "abc123")
}

func TestPrune_EmptySetIsNoOp(t *testing.T) {
	store := newFakeStore()
	engine := New(store)
	ctx := context.Background()

	_, err := engine.Reconcile(ctx, candidates("abc123", "def456"))
	require.NoError(t, err)

	removed, err := engine.Prune(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Len(t, store.studies, 2)
	// The store must not even be asked
	assert.Zero(t, store.deleteCalls)
}

func TestMarkDelivered_Idempotent(t *testing.T) {
	store := newFakeStore()
	engine := New(store)
	ctx := context.Background()

	_, err := engine.Reconcile(ctx, candidates("abc123"))
	require.NoError(t, err)

	require.NoError(t, engine.MarkDelivered(ctx, "abc123"))
	require.NoError(t, engine.MarkDelivered(ctx, "abc123"))
	assert.True(t, store.studies["abc123"].Delivered)
}
