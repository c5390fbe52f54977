package commands

import (
	"fmt"
	"time"

	"github.com/binderworks/tcg-binder/internal/backup"
	"github.com/binderworks/tcg-binder/internal/catalog"
	"github.com/binderworks/tcg-binder/internal/images"
	"github.com/binderworks/tcg-binder/internal/storage"
	"github.com/binderworks/tcg-binder/internal/storage/repository"
)

// env bundles the opened store and its repositories for one command
// invocation.
type env struct {
	Cards  repository.CardRepository
	Owned  repository.OwnershipRepository
	Images repository.ImageRepository
	Meta   repository.ImageMetaRepository
	Notes  *storage.NoteStore
}

// openEnv opens the shared store per the loaded config and wires the
// repositories over it.
func openEnv() (*env, error) {
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	busy, err := cfg.GetBusyTimeout()
	if err != nil {
		busy = 5 * time.Second
	}

	db, err := storage.Shared(&storage.Config{
		Path:        dbPath,
		BusyTimeout: busy,
		JournalMode: cfg.Store.JournalMode,
		Synchronous: cfg.Store.Synchronous,
		AutoMigrate: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	notesPath, err := cfg.NotesPath()
	if err != nil {
		return nil, err
	}
	notes, err := storage.OpenNotes(notesPath)
	if err != nil {
		return nil, fmt.Errorf("opening notes: %w", err)
	}

	conn := db.Conn()
	return &env{
		Cards:  repository.NewCardRepository(conn),
		Owned:  repository.NewOwnershipRepository(conn),
		Images: repository.NewImageRepository(conn),
		Meta:   repository.NewImageMetaRepository(conn),
		Notes:  notes,
	}, nil
}

func (e *env) catalogImporter() *catalog.Importer {
	return &catalog.Importer{Cards: e.Cards}
}

func (e *env) imageImporter() *images.Importer {
	return &images.Importer{
		Images:    e.Images,
		Meta:      e.Meta,
		ThumbEdge: cfg.Import.ThumbMaxEdge,
		BatchSize: cfg.Import.BatchSize,
	}
}

func (e *env) backupPipeline() *backup.Pipeline {
	return &backup.Pipeline{
		Cards:     e.Cards,
		Owned:     e.Owned,
		Images:    e.Images,
		Meta:      e.Meta,
		Notes:     e.Notes,
		ThumbEdge: cfg.Import.ThumbMaxEdge,
		BatchSize: cfg.Import.BatchSize,
	}
}
