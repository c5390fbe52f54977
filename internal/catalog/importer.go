// Package catalog normalizes loosely-typed CSV rows into Card records
// and bulk-loads them into the store.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/binderworks/tcg-binder/internal/storage/models"
	"github.com/binderworks/tcg-binder/internal/storage/repository"
)

var (
	// ErrParse reports a structurally broken CSV (inconsistent column
	// counts, bad quoting). Nothing is imported in that case.
	ErrParse = errors.New("catalog parse error")

	// ErrNoValidRows reports that no row carried a usable cardId.
	ErrNoValidRows = errors.New("no rows with a cardId to import")
)

// Row is one parsed CSV row: lower-cased header -> raw cell value.
type Row map[string]string

// ParseCSV reads header-driven rows. Headers are trimmed and
// lower-cased so `cardId` and `cardid` land on the same column.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrParse, err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		row := make(Row, len(header))
		for i, h := range header {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Importer bulk-loads normalized rows into the cards collection.
type Importer struct {
	Cards repository.CardRepository
}

// ImportRows normalizes rows and upserts every valid one in a single
// atomic write, returning the number imported. Rows without a cardId
// are silently dropped; if none survive, ErrNoValidRows is returned
// and nothing is written.
func (imp *Importer) ImportRows(ctx context.Context, rows []Row) (int, error) {
	cards := make([]models.Card, 0, len(rows))
	for _, row := range rows {
		card, ok := normalizeRow(row)
		if !ok {
			continue
		}
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		return 0, ErrNoValidRows
	}

	if err := imp.Cards.PutMany(ctx, cards); err != nil {
		return 0, fmt.Errorf("import cards: %w", err)
	}
	return len(cards), nil
}

// trimmed returns the cell for a column as a trimmed string.
func (r Row) trimmed(column string) string {
	return strings.TrimSpace(r[column])
}

// number parses a cell as a number. Empty or invalid cells are absent,
// not zero.
func (r Row) number(column string) *float64 {
	t := strings.TrimSpace(r[column])
	if t == "" {
		return nil
	}
	n, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return nil
	}
	return &n
}

// normalizeRow coerces a raw row into a Card at the single ingestion
// boundary. dansort falls back to the legacy sort column when absent.
func normalizeRow(r Row) (models.Card, bool) {
	cardID := r.trimmed("cardid")
	if cardID == "" {
		return models.Card{}, false
	}

	dansort := r.number("dansort")
	if dansort == nil {
		dansort = r.number("sort")
	}

	return models.Card{
		CardID:    cardID,
		Dan:       r.trimmed("dan"),
		DanSort:   dansort,
		Name:      r.trimmed("name"),
		Rarity:    r.trimmed("rarity"),
		Color:     r.trimmed("color"),
		Kind:      r.trimmed("kind"),
		Type:      r.trimmed("type"),
		Cost:      r.trimmed("cost"),
		Counter:   r.trimmed("counter"),
		Life:      r.trimmed("life"),
		Power:     r.trimmed("power"),
		Effect:    r.trimmed("effect"),
		Attribute: r.trimmed("attribute"),
		BlockIcon: r.trimmed("blockicon"),
	}, true
}
