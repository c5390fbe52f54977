package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// OwnershipRepository handles the per-card owned-copy counts.
type OwnershipRepository interface {
	// Get retrieves the owned count for a card. Absent rows read as 0.
	Get(ctx context.Context, cardID string) (int, error)

	// GetAll retrieves every count as a map of cardID -> count.
	GetAll(ctx context.Context) (map[string]int, error)

	// Set writes the owned count for a card, clamped to >= 0. It never
	// fails on out-of-range input; it normalizes instead.
	Set(ctx context.Context, cardID string, count int) error

	// BulkSet writes many counts in a single transaction, clamping each.
	BulkSet(ctx context.Context, counts map[string]int) error

	// Clear removes every ownership row.
	Clear(ctx context.Context) error
}

type ownershipRepository struct {
	db *sql.DB
}

// NewOwnershipRepository creates a new ownership repository.
func NewOwnershipRepository(db *sql.DB) OwnershipRepository {
	return &ownershipRepository{db: db}
}

// clampCount normalizes a requested count to the stored invariant.
func clampCount(count int) int {
	if count < 0 {
		return 0
	}
	return count
}

const ownershipUpsertQuery = `
	INSERT INTO ownership (card_id, count, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(card_id) DO UPDATE SET
		count = excluded.count,
		updated_at = excluded.updated_at
`

func (r *ownershipRepository) Get(ctx context.Context, cardID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count FROM ownership WHERE card_id = ?`, cardID).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get ownership %s: %w", cardID, err)
	}
	return count, nil
}

func (r *ownershipRepository) GetAll(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT card_id, count FROM ownership`)
	if err != nil {
		return nil, fmt.Errorf("get all ownership: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := make(map[string]int)
	for rows.Next() {
		var cardID string
		var count int
		if err := rows.Scan(&cardID, &count); err != nil {
			return nil, fmt.Errorf("scan ownership: %w", err)
		}
		counts[cardID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ownership: %w", err)
	}
	return counts, nil
}

func (r *ownershipRepository) Set(ctx context.Context, cardID string, count int) error {
	_, err := r.db.ExecContext(ctx, ownershipUpsertQuery, cardID, clampCount(count), time.Now())
	if err != nil {
		return fmt.Errorf("set ownership %s: %w", cardID, err)
	}
	return nil
}

func (r *ownershipRepository) BulkSet(ctx context.Context, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, ownershipUpsertQuery)
	if err != nil {
		return fmt.Errorf("prepare ownership upsert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	now := time.Now()
	for cardID, count := range counts {
		if _, err := stmt.ExecContext(ctx, cardID, clampCount(count), now); err != nil {
			return fmt.Errorf("set ownership %s: %w", cardID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ownership upsert: %w", err)
	}
	return nil
}

func (r *ownershipRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ownership`); err != nil {
		return fmt.Errorf("clear ownership: %w", err)
	}
	return nil
}
