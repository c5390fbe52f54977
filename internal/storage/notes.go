package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/binderworks/tcg-binder/internal/storage/models"
)

// NoteStore holds the purchase/sale notes. These are short text rows
// with no binary or schema needs, so they live in a small JSON file
// beside the database rather than in the versioned store. Notes are
// never auto-deleted when their card leaves the catalog.
type NoteStore struct {
	path string

	mu   sync.Mutex
	rows map[string][]models.SaleRow
}

// OpenNotes loads the note store at path, creating an empty one when
// the file does not exist yet.
func OpenNotes(path string) (*NoteStore, error) {
	s := &NoteStore{
		path: path,
		rows: make(map[string][]models.SaleRow),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read notes file: %w", err)
	}
	if err := json.Unmarshal(data, &s.rows); err != nil {
		return nil, fmt.Errorf("parse notes file: %w", err)
	}
	return s, nil
}

// Rows returns the sale rows recorded for a card, in recorded order.
func (s *NoteStore) Rows(cardID string) []models.SaleRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.rows[cardID]
	out := make([]models.SaleRow, len(rows))
	copy(out, rows)
	return out
}

// SetRows replaces the sale rows for a card and persists the store.
// Existing rows for the card are dropped entirely; no append or merge.
func (s *NoteStore) SetRows(cardID string, rows []models.SaleRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(rows) == 0 {
		s.rows[cardID] = []models.SaleRow{}
	} else {
		stored := make([]models.SaleRow, len(rows))
		copy(stored, rows)
		s.rows[cardID] = stored
	}
	return s.persistLocked()
}

// Delete removes every sale row for a card.
func (s *NoteStore) Delete(cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, cardID)
	return s.persistLocked()
}

// All returns a copy of every cardID -> rows mapping with at least one
// row recorded.
func (s *NoteStore) All() map[string][]models.SaleRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]models.SaleRow, len(s.rows))
	for id, rows := range s.rows {
		if len(rows) == 0 {
			continue
		}
		cp := make([]models.SaleRow, len(rows))
		copy(cp, rows)
		out[id] = cp
	}
	return out
}

// persistLocked writes the store through a temp file and rename so a
// crash mid-write never leaves a truncated notes file.
func (s *NoteStore) persistLocked() error {
	data, err := json.MarshalIndent(s.rows, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create notes directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write notes file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace notes file: %w", err)
	}
	return nil
}
