package storage

import (
	"path/filepath"
	"testing"

	"github.com/binderworks/tcg-binder/internal/storage/models"
)

func TestNoteStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")

	s, err := OpenNotes(path)
	if err != nil {
		t.Fatalf("open notes failed: %v", err)
	}

	rows := []models.SaleRow{
		{Place: "shop A", Price: "350"},
		{Place: "shop B", Price: "not-a-number"},
	}
	if err := s.SetRows("OP01-001", rows); err != nil {
		t.Fatalf("set rows failed: %v", err)
	}

	// Reopen from disk and verify persistence, including the malformed
	// price row, which must survive untouched.
	reopened, err := OpenNotes(path)
	if err != nil {
		t.Fatalf("reopen notes failed: %v", err)
	}
	got := reopened.Rows("OP01-001")
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[1].Price != "not-a-number" {
		t.Errorf("malformed price row not preserved: %+v", got[1])
	}
}

func TestNoteStore_SetRowsReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	s, err := OpenNotes(path)
	if err != nil {
		t.Fatalf("open notes failed: %v", err)
	}

	if err := s.SetRows("OP01-001", []models.SaleRow{{Place: "a", Price: "1"}, {Place: "b", Price: "2"}}); err != nil {
		t.Fatalf("set rows failed: %v", err)
	}
	if err := s.SetRows("OP01-001", []models.SaleRow{{Place: "c", Price: "3"}}); err != nil {
		t.Fatalf("second set rows failed: %v", err)
	}

	got := s.Rows("OP01-001")
	if len(got) != 1 || got[0].Place != "c" {
		t.Errorf("expected full replacement, got %v", got)
	}
}

func TestNoteStore_AllSkipsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	s, err := OpenNotes(path)
	if err != nil {
		t.Fatalf("open notes failed: %v", err)
	}

	if err := s.SetRows("OP01-001", []models.SaleRow{{Place: "a", Price: "1"}}); err != nil {
		t.Fatalf("set rows failed: %v", err)
	}
	if err := s.SetRows("OP01-002", nil); err != nil {
		t.Fatalf("set empty rows failed: %v", err)
	}

	all := s.All()
	if len(all) != 1 {
		t.Errorf("expected 1 entry with rows, got %v", all)
	}
}

func TestNoteStore_MissingFileIsEmpty(t *testing.T) {
	s, err := OpenNotes(filepath.Join(t.TempDir(), "never-written.json"))
	if err != nil {
		t.Fatalf("open notes failed: %v", err)
	}
	if rows := s.Rows("OP01-001"); len(rows) != 0 {
		t.Errorf("expected no rows, got %v", rows)
	}
}
