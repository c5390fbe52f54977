package repository

import (
	"context"
	"testing"
)

func TestOwnershipRepository_DefaultZero(t *testing.T) {
	db := newTestDB(t)
	repo := NewOwnershipRepository(db)

	count, err := repo.Get(context.Background(), "OP01-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 for never-written card, got %d", count)
	}
}

func TestOwnershipRepository_SetClamps(t *testing.T) {
	db := newTestDB(t)
	repo := NewOwnershipRepository(db)
	ctx := context.Background()

	tests := []struct {
		name string
		in   int
		want int
	}{
		{"negative", -5, 0},
		{"zero", 0, 0},
		{"positive", 3, 3},
		{"large", 9999, 9999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.Set(ctx, "OP01-002", tt.in); err != nil {
				t.Fatalf("set failed: %v", err)
			}
			got, err := repo.Get(ctx, "OP01-002")
			if err != nil {
				t.Fatalf("get failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("set(%d): expected %d, got %d", tt.in, tt.want, got)
			}
		})
	}
}

func TestOwnershipRepository_BulkSet(t *testing.T) {
	db := newTestDB(t)
	repo := NewOwnershipRepository(db)
	ctx := context.Background()

	counts := map[string]int{
		"OP01-001": 2,
		"OP01-002": -3,
		"OP01-003": 0,
	}
	if err := repo.BulkSet(ctx, counts); err != nil {
		t.Fatalf("bulk set failed: %v", err)
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all failed: %v", err)
	}
	want := map[string]int{
		"OP01-001": 2,
		"OP01-002": 0,
		"OP01-003": 0,
	}
	if len(all) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(all))
	}
	for id, count := range want {
		if all[id] != count {
			t.Errorf("card %s: expected %d, got %d", id, count, all[id])
		}
	}
}

func TestOwnershipRepository_OrphanRowsTolerated(t *testing.T) {
	// Ownership does not enforce a reference into cards: a count for a
	// card that never entered the catalog writes and reads fine.
	db := newTestDB(t)
	repo := NewOwnershipRepository(db)
	ctx := context.Background()

	if err := repo.Set(ctx, "XX00-000", 4); err != nil {
		t.Fatalf("set for orphan card failed: %v", err)
	}
	got, err := repo.Get(ctx, "XX00-000")
	if err != nil {
		t.Fatalf("get for orphan card failed: %v", err)
	}
	if got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
}

func TestOwnershipRepository_Clear(t *testing.T) {
	db := newTestDB(t)
	repo := NewOwnershipRepository(db)
	ctx := context.Background()

	if err := repo.Set(ctx, "OP01-001", 1); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty ledger after clear, got %d rows", len(all))
	}
}
