// Package repository contains the per-collection accessors over the
// binder's SQLite store. Key handling is a static property of each
// repository: cards and ownership carry their key in the row (card_id
// column), images and image_meta take a caller-supplied key.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/binderworks/tcg-binder/internal/storage/models"
)

// CardRepository handles database operations for the card catalog.
type CardRepository interface {
	// PutMany upserts all cards in one transaction. An existing cardId
	// is fully replaced; no partial-field merge.
	PutMany(ctx context.Context, cards []models.Card) error

	// Get retrieves a single card, or nil when absent.
	Get(ctx context.Context, cardID string) (*models.Card, error)

	// GetAll retrieves every card. No ordering is guaranteed; callers
	// sort (see catalog.SortCards).
	GetAll(ctx context.Context) ([]models.Card, error)

	// IDs returns the set of known card ids, used to validate
	// incoming backup entries.
	IDs(ctx context.Context) (map[string]struct{}, error)

	// Count returns the number of catalog entries.
	Count(ctx context.Context) (int, error)

	// Clear removes every card.
	Clear(ctx context.Context) error
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db *sql.DB) CardRepository {
	return &cardRepository{db: db}
}

const cardUpsertQuery = `
	INSERT INTO cards (
		card_id, dan, dansort, name, rarity, color, kind, type,
		cost, counter, life, power, effect, attribute, blockicon
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(card_id) DO UPDATE SET
		dan = excluded.dan,
		dansort = excluded.dansort,
		name = excluded.name,
		rarity = excluded.rarity,
		color = excluded.color,
		kind = excluded.kind,
		type = excluded.type,
		cost = excluded.cost,
		counter = excluded.counter,
		life = excluded.life,
		power = excluded.power,
		effect = excluded.effect,
		attribute = excluded.attribute,
		blockicon = excluded.blockicon
`

func (r *cardRepository) PutMany(ctx context.Context, cards []models.Card) error {
	if len(cards) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, cardUpsertQuery)
	if err != nil {
		return fmt.Errorf("prepare card upsert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, c := range cards {
		dansort := sql.NullFloat64{}
		if c.DanSort != nil {
			dansort = sql.NullFloat64{Float64: *c.DanSort, Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			c.CardID, c.Dan, dansort, c.Name, c.Rarity, c.Color, c.Kind, c.Type,
			c.Cost, c.Counter, c.Life, c.Power, c.Effect, c.Attribute, c.BlockIcon,
		)
		if err != nil {
			return fmt.Errorf("upsert card %s: %w", c.CardID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit card upsert: %w", err)
	}
	return nil
}

const cardSelectColumns = `
	card_id, dan, dansort, name, rarity, color, kind, type,
	cost, counter, life, power, effect, attribute, blockicon
`

func scanCard(scan func(dest ...any) error) (models.Card, error) {
	var c models.Card
	var dansort sql.NullFloat64
	err := scan(
		&c.CardID, &c.Dan, &dansort, &c.Name, &c.Rarity, &c.Color, &c.Kind, &c.Type,
		&c.Cost, &c.Counter, &c.Life, &c.Power, &c.Effect, &c.Attribute, &c.BlockIcon,
	)
	if err != nil {
		return models.Card{}, err
	}
	if dansort.Valid {
		v := dansort.Float64
		c.DanSort = &v
	}
	return c, nil
}

func (r *cardRepository) Get(ctx context.Context, cardID string) (*models.Card, error) {
	query := `SELECT ` + cardSelectColumns + ` FROM cards WHERE card_id = ?`

	row := r.db.QueryRowContext(ctx, query, cardID)
	c, err := scanCard(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get card %s: %w", cardID, err)
	}
	return &c, nil
}

func (r *cardRepository) GetAll(ctx context.Context) ([]models.Card, error) {
	query := `SELECT ` + cardSelectColumns + ` FROM cards`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all cards: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

func (r *cardRepository) IDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT card_id FROM cards`)
	if err != nil {
		return nil, fmt.Errorf("get card ids: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan card id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate card ids: %w", err)
	}
	return ids, nil
}

func (r *cardRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

func (r *cardRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("clear cards: %w", err)
	}
	return nil
}
