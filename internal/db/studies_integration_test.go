//go:build integration

package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// =============================================================================
// Study Integration Tests
// =============================================================================

func TestIntegration_Study_InsertAndConflict(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	externalID := "it-" + uuid.New().String()
	defer cleanupStudy(t, db, externalID)

	input := StudyCreateInput{
		ExternalID: externalID,
		Title:      "Integration study",
		Payout:     150,
		Duration:   "60 min",
		StudyType:  StudyTypeRemote,
		FormatTag:  "Unmoderated",
	}

	t.Run("insert new study", func(t *testing.T) {
		s, err := db.InsertStudy(ctx, input)
		if err != nil {
			t.Fatalf("InsertStudy failed: %v", err)
		}
		if s == nil {
			t.Fatal("expected inserted study, got nil")
		}
		if s.ID == uuid.Nil {
			t.Error("Study ID should not be nil")
		}
		if s.Delivered {
			t.Error("new study must start undelivered")
		}
	})

	t.Run("conflicting insert is benign", func(t *testing.T) {
		s, err := db.InsertStudy(ctx, input)
		if err != nil {
			t.Fatalf("conflicting InsertStudy errored: %v", err)
		}
		if s != nil {
			t.Errorf("conflicting insert should return nil, got %+v", s)
		}
	})

	t.Run("get by external id", func(t *testing.T) {
		s, err := db.GetStudyByExternalID(ctx, externalID)
		if err != nil {
			t.Fatalf("GetStudyByExternalID failed: %v", err)
		}
		if s == nil {
			t.Fatal("study not found")
		}
		if s.Payout != 150 {
			t.Errorf("Payout = %d, want 150", s.Payout)
		}
	})

	t.Run("get missing returns nil nil", func(t *testing.T) {
		s, err := db.GetStudyByExternalID(ctx, "does-not-exist-"+uuid.New().String())
		if err != nil {
			t.Fatalf("GetStudyByExternalID failed: %v", err)
		}
		if s != nil {
			t.Errorf("expected nil for missing study, got %+v", s)
		}
	})
}

func TestIntegration_Study_MarkDeliveredIdempotent(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	externalID := "it-" + uuid.New().String()
	defer cleanupStudy(t, db, externalID)

	if _, err := db.InsertStudy(ctx, StudyCreateInput{ExternalID: externalID}); err != nil {
		t.Fatalf("InsertStudy failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := db.MarkStudyDelivered(ctx, externalID); err != nil {
			t.Fatalf("MarkStudyDelivered call %d failed: %v", i+1, err)
		}
	}

	s, err := db.GetStudyByExternalID(ctx, externalID)
	if err != nil || s == nil {
		t.Fatalf("GetStudyByExternalID failed: %v", err)
	}
	if !s.Delivered {
		t.Error("study should be delivered")
	}
}

func TestIntegration_Study_PruneGuard(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	externalID := "it-" + uuid.New().String()
	defer cleanupStudy(t, db, externalID)

	if _, err := db.InsertStudy(ctx, StudyCreateInput{ExternalID: externalID}); err != nil {
		t.Fatalf("InsertStudy failed: %v", err)
	}

	// Empty set must not touch anything
	removed, err := db.DeleteStudiesNotIn(ctx, nil)
	if err != nil {
		t.Fatalf("DeleteStudiesNotIn failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("empty prune removed %d studies, want 0", removed)
	}

	s, err := db.GetStudyByExternalID(ctx, externalID)
	if err != nil || s == nil {
		t.Fatal("study was wiped by an empty prune")
	}
}

func TestIntegration_Study_UpdateDoesNotTouchDelivered(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	externalID := "it-" + uuid.New().String()
	defer cleanupStudy(t, db, externalID)

	if _, err := db.InsertStudy(ctx, StudyCreateInput{ExternalID: externalID, Title: "before"}); err != nil {
		t.Fatalf("InsertStudy failed: %v", err)
	}
	if err := db.MarkStudyDelivered(ctx, externalID); err != nil {
		t.Fatalf("MarkStudyDelivered failed: %v", err)
	}

	title := "after"
	payout := 90
	s, err := db.UpdateStudy(ctx, externalID, StudyUpdateInput{Title: &title, Payout: &payout})
	if err != nil {
		t.Fatalf("UpdateStudy failed: %v", err)
	}
	if s.Title != "after" || s.Payout != 90 {
		t.Errorf("update not applied: %+v", s)
	}
	if !s.Delivered {
		t.Error("UpdateStudy must not reset the delivered flag")
	}
}
