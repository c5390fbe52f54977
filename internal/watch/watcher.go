// Package watch runs the drop-folder auto-import: csv files become
// catalog imports, zip files become image imports. One process watches
// a directory at a time; the store's single-writer model applies.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/binderworks/tcg-binder/internal/catalog"
	"github.com/binderworks/tcg-binder/internal/images"
)

// Watcher picks up files dropped into a directory and feeds them to
// the importers.
type Watcher struct {
	Dir     string
	Catalog *catalog.Importer
	Images  *images.Importer

	// SettleDelay is how long to wait after the last event for a path
	// before importing it, so half-written files are left alone.
	SettleDelay time.Duration

	// OnImport, when set, is called after each completed import with
	// the file path and the number of records imported.
	OnImport func(path string, count int)
}

// Run watches the drop directory until ctx is cancelled. Import
// failures are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) (err error) {
	if w.Dir == "" {
		return fmt.Errorf("no watch directory configured")
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("create watch directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(w.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.Dir, err)
	}

	settle := w.SettleDelay
	if settle <= 0 {
		settle = 500 * time.Millisecond
	}

	// One timer per pending path; an event on a path resets its timer
	// so imports only fire once writes have quieted down.
	pending := make(map[string]*time.Timer)
	ready := make(chan string)

	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			path := event.Name
			if !importable(path) {
				continue
			}
			if t, ok := pending[path]; ok {
				t.Reset(settle)
				continue
			}
			pending[path] = time.AfterFunc(settle, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", err)

		case path := <-ready:
			delete(pending, path)
			count, err := w.importFile(ctx, path)
			if err != nil {
				log.Printf("import %s: %v", path, err)
				continue
			}
			if w.OnImport != nil {
				w.OnImport(path, count)
			}
		}
	}
}

func importable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".zip":
		return true
	}
	return false
}

func (w *Watcher) importFile(ctx context.Context, path string) (int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return 0, fmt.Errorf("open dropped file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		rows, err := catalog.ParseCSV(f)
		if err != nil {
			return 0, err
		}
		return w.Catalog.ImportRows(ctx, rows)

	case ".zip":
		entries, err := images.ReadArchive(path)
		if err != nil {
			return 0, err
		}
		return w.Images.Import(ctx, entries)
	}
	return 0, fmt.Errorf("unsupported file type: %s", path)
}
