package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binderworks/tcg-binder/internal/catalog"
	"github.com/binderworks/tcg-binder/internal/images"
	"github.com/binderworks/tcg-binder/internal/storage/models"
	"github.com/binderworks/tcg-binder/internal/storage/repository"
)

const (
	manifestName   = "data.json"
	imageDirPrefix = "images/"
)

// manifest is the data.json entry of a full archive backup.
type manifest struct {
	Cards     []models.Card      `json:"cards"`
	Ownership []models.Ownership `json:"ownership"`
}

// ExportArchive writes the full backup: the manifest plus one entry
// per stored original image. Thumbnails are never transported. The
// archive is built in a temp file and renamed into place only on
// success, so the caller either gets a complete archive or none.
func (p *Pipeline) ExportArchive(ctx context.Context, path string) (err error) {
	cards, err := p.Cards.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("export archive: %w", err)
	}
	catalog.SortByID(cards)

	owned, err := p.Owned.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("export archive: %w", err)
	}
	ownership := make([]models.Ownership, 0, len(owned))
	for _, c := range cards {
		if count, ok := owned[c.CardID]; ok {
			ownership = append(ownership, models.Ownership{CardID: c.CardID, Count: count})
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = p.writeArchive(ctx, f, cards, ownership); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close archive file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize archive file: %w", err)
	}
	return nil
}

func (p *Pipeline) writeArchive(ctx context.Context, w io.Writer, cards []models.Card, ownership []models.Ownership) error {
	zw := zip.NewWriter(w)

	data, err := json.MarshalIndent(manifest{Cards: cards, Ownership: ownership}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	entry, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("create manifest entry: %w", err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("write manifest entry: %w", err)
	}

	ids, err := p.Images.OriginalIDs(ctx)
	if err != nil {
		return fmt.Errorf("list stored originals: %w", err)
	}
	for _, id := range ids {
		img, err := p.Images.Original(ctx, id)
		if err != nil {
			return fmt.Errorf("read original %s: %w", id, err)
		}
		if img == nil {
			continue
		}
		entry, err := zw.Create(imageDirPrefix + id + images.ExtForMIME(img.MIME))
		if err != nil {
			return fmt.Errorf("create image entry %s: %w", id, err)
		}
		if _, err := entry.Write(img.Data); err != nil {
			return fmt.Errorf("write image entry %s: %w", id, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

// RestoreArchive replaces the cards, ownership and images collections
// with the archive's content. The manifest is located and parsed
// before any destructive action; after the wipe, thumbnails are
// regenerated for every image, never read from the archive.
func (p *Pipeline) RestoreArchive(ctx context.Context, path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", path, err)
	}
	defer func() {
		_ = r.Close()
	}()
	return p.restoreArchive(ctx, &r.Reader)
}

func (p *Pipeline) restoreArchive(ctx context.Context, r *zip.Reader) error {
	var man *manifest
	for _, f := range r.File {
		if f.Name != manifestName {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return fmt.Errorf("read manifest: %w", err)
		}
		man = &manifest{}
		if err := json.Unmarshal(data, man); err != nil {
			return fmt.Errorf("%w: manifest: %v", ErrParse, err)
		}
		break
	}
	if man == nil {
		return ErrMissingManifest
	}

	// Destructive path: wipe, then repopulate. Per-collection writes
	// are atomic; cross-collection consistency is not promised while
	// the restore runs.
	if err := p.Cards.Clear(ctx); err != nil {
		return fmt.Errorf("wipe cards: %w", err)
	}
	if err := p.Owned.Clear(ctx); err != nil {
		return fmt.Errorf("wipe ownership: %w", err)
	}
	if err := p.Images.Clear(ctx); err != nil {
		return fmt.Errorf("wipe images: %w", err)
	}
	if p.Meta != nil {
		if err := p.Meta.Clear(ctx); err != nil {
			return fmt.Errorf("wipe image meta: %w", err)
		}
	}

	if err := p.Cards.PutMany(ctx, man.Cards); err != nil {
		return fmt.Errorf("restore cards: %w", err)
	}
	counts := make(map[string]int, len(man.Ownership))
	for _, o := range man.Ownership {
		counts[o.CardID] = o.Count
	}
	if err := p.Owned.BulkSet(ctx, counts); err != nil {
		return fmt.Errorf("restore ownership: %w", err)
	}

	return p.restoreImages(ctx, r)
}

func (p *Pipeline) restoreImages(ctx context.Context, r *zip.Reader) error {
	edge := p.ThumbEdge
	if edge == 0 {
		edge = images.DefaultThumbEdge
	}
	batch := p.BatchSize
	if batch <= 0 {
		batch = images.DefaultBatchSize
	}

	var files []*zip.File
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, imageDirPrefix) && !f.FileInfo().IsDir() {
			files = append(files, f)
		}
	}

	total := len(files)
	for i, f := range files {
		data, err := readZipFile(f)
		if err != nil {
			return fmt.Errorf("read archive image %s: %w", f.Name, err)
		}

		base := filepath.Base(f.Name)
		cardID := strings.TrimSuffix(base, filepath.Ext(base))
		mime := mimeForArchiveName(base)

		original := repository.StoredImage{Data: data, MIME: mime}
		thumb := original
		if thumbData, thumbMIME, err := images.Thumbnail(data, edge); err == nil {
			thumb = repository.StoredImage{Data: thumbData, MIME: thumbMIME}
		} else {
			log.Printf("thumbnail fallback for %s: %v", base, err)
		}

		if err := p.Images.PutPair(ctx, cardID, original, thumb); err != nil {
			return fmt.Errorf("restore image %s: %w", cardID, err)
		}

		done := i + 1
		if p.OnProgress != nil {
			p.OnProgress(images.Progress{Done: done, Total: total, Current: base})
		}
		if done%batch == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			if p.Yield != nil {
				p.Yield()
			}
		}
	}
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rc.Close()
	}()
	return io.ReadAll(rc)
}

func mimeForArchiveName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
