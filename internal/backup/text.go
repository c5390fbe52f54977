// Package backup serializes the binder's collections to the two
// portable formats: a small JSON text backup (ownership + purchase
// notes, merged on restore) and a full ZIP archive (catalog +
// ownership + original images, destructive on restore).
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/binderworks/tcg-binder/internal/images"
	"github.com/binderworks/tcg-binder/internal/storage"
	"github.com/binderworks/tcg-binder/internal/storage/models"
	"github.com/binderworks/tcg-binder/internal/storage/repository"
)

var (
	// ErrParse reports a malformed backup document. No writes occur.
	ErrParse = errors.New("backup parse error")

	// ErrMissingManifest reports an archive without its data.json
	// entry, detected before any destructive action.
	ErrMissingManifest = errors.New("archive is missing its data.json manifest")
)

// Pipeline wires the backup formats to the store.
type Pipeline struct {
	Cards  repository.CardRepository
	Owned  repository.OwnershipRepository
	Images repository.ImageRepository
	Meta   repository.ImageMetaRepository
	Notes  *storage.NoteStore

	// ThumbEdge and BatchSize parameterize thumbnail regeneration
	// during archive restore; zero values take the images defaults.
	ThumbEdge uint
	BatchSize int

	// OnProgress and Yield mirror the image importer's hooks for the
	// archive-restore image loop.
	OnProgress func(images.Progress)
	Yield      func()
}

// TextBackup is the JSON text backup document.
type TextBackup struct {
	Ownership map[string]int              `json:"ownership"`
	Purchases map[string][]models.SaleRow `json:"purchases"`
}

// ExportText builds the text backup: ownership counts and purchase
// rows for cards present in the current catalog.
func (p *Pipeline) ExportText(ctx context.Context) ([]byte, error) {
	ids, err := p.Cards.IDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("export text backup: %w", err)
	}
	owned, err := p.Owned.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export text backup: %w", err)
	}

	doc := TextBackup{
		Ownership: make(map[string]int),
		Purchases: make(map[string][]models.SaleRow),
	}
	for id, count := range owned {
		if _, ok := ids[id]; ok {
			doc.Ownership[id] = count
		}
	}
	if p.Notes != nil {
		for id, rows := range p.Notes.All() {
			if _, ok := ids[id]; ok {
				doc.Purchases[id] = rows
			}
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal text backup: %w", err)
	}
	return data, nil
}

// RestoreStats summarizes a text restore.
type RestoreStats struct {
	OwnershipApplied int
	OwnershipSkipped int
	PurchasesApplied int
	PurchasesSkipped int
}

// textDoc is the loosely-typed wire form of the text backup: ownership
// in either map or legacy array shape, purchases as raw values that
// may need per-card coercion.
type textDoc struct {
	Ownership ownershipDoc               `json:"ownership"`
	Purchases map[string]json.RawMessage `json:"purchases"`
}

// ownershipDoc accepts both the map form {"id": count} and the legacy
// array form [{"cardId":..., "count":...}], resolved by one
// discriminator check on the leading token and normalized to the map
// immediately.
type ownershipDoc map[string]float64

func (d *ownershipDoc) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []struct {
			CardID string  `json:"cardId"`
			Count  float64 `json:"count"`
		}
		if err := json.Unmarshal(data, &rows); err != nil {
			return err
		}
		m := make(map[string]float64, len(rows))
		for _, r := range rows {
			m[r.CardID] = r.Count
		}
		*d = m
		return nil
	}
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*d = m
	return nil
}

// RestoreText merges a text backup into the store. Entries referencing
// cardIds unknown to the current catalog are skipped silently; valid
// ownership goes through one clamped bulk write and purchase rows
// replace the stored rows per card. A malformed document fails with
// ErrParse before any write.
func (p *Pipeline) RestoreText(ctx context.Context, data []byte) (RestoreStats, error) {
	var stats RestoreStats

	var doc textDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrParse, err)
	}

	ids, err := p.Cards.IDs(ctx)
	if err != nil {
		return stats, fmt.Errorf("restore text backup: %w", err)
	}

	counts := make(map[string]int)
	for id, v := range doc.Ownership {
		if _, ok := ids[id]; !ok {
			stats.OwnershipSkipped++
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			stats.OwnershipSkipped++
			continue
		}
		counts[id] = int(math.Floor(v))
		stats.OwnershipApplied++
	}
	if err := p.Owned.BulkSet(ctx, counts); err != nil {
		return stats, fmt.Errorf("restore ownership: %w", err)
	}

	for id, raw := range doc.Purchases {
		if _, ok := ids[id]; !ok {
			stats.PurchasesSkipped++
			continue
		}
		rows, ok := coerceSaleRows(raw)
		if !ok {
			stats.PurchasesSkipped++
			continue
		}
		if p.Notes != nil {
			if err := p.Notes.SetRows(id, rows); err != nil {
				return stats, fmt.Errorf("restore purchases for %s: %w", id, err)
			}
		}
		stats.PurchasesApplied++
	}

	return stats, nil
}

// coerceSaleRows turns a raw purchases value into sale rows, coercing
// place and price to strings as the text format promises. Non-array
// values are skipped, not fatal.
func coerceSaleRows(raw json.RawMessage) ([]models.SaleRow, bool) {
	var values []map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, false
	}
	rows := make([]models.SaleRow, 0, len(values))
	for _, v := range values {
		rows = append(rows, models.SaleRow{
			Place: asString(v["place"]),
			Price: asString(v["price"]),
		})
	}
	return rows, true
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
