package images

import (
	"context"
	"fmt"
	"log"

	"github.com/binderworks/tcg-binder/internal/storage/repository"
)

// DefaultBatchSize is how many items are processed between yield
// points during a bulk import.
const DefaultBatchSize = 50

// Progress reports bulk-import progress after each item.
type Progress struct {
	Done    int
	Total   int
	Current string
}

// Importer writes original/thumbnail pairs into the image collection.
type Importer struct {
	Images repository.ImageRepository
	Meta   repository.ImageMetaRepository

	// ThumbEdge is the longer-edge target for generated thumbnails.
	// Zero means DefaultThumbEdge.
	ThumbEdge uint

	// BatchSize is the number of items between yield points. Zero
	// means DefaultBatchSize.
	BatchSize int

	// OnProgress, when set, is called after every item.
	OnProgress func(Progress)

	// Yield, when set, is called between batches so a long import
	// keeps the surrounding application responsive.
	Yield func()
}

// Import filters entries to supported images and upserts each card's
// original and generated thumbnail as one pair-write. The cardId is
// the entry's base filename without extension, so folder structure is
// irrelevant to identity: colliding base names resolve last-write-wins.
// Returns the number of images imported.
func (imp *Importer) Import(ctx context.Context, entries []Entry) (int, error) {
	var files []Entry
	for _, e := range entries {
		if mimeForName(e.Path) != "" {
			files = append(files, e)
		}
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("%w: no .jpg/.jpeg/.png/.webp entries among %d files", ErrNoImagesFound, len(entries))
	}

	edge := imp.ThumbEdge
	if edge == 0 {
		edge = DefaultThumbEdge
	}
	batch := imp.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	total := len(files)
	for i, e := range files {
		base := baseName(e.Path)
		cardID := stripExt(base)
		mime := mimeForName(base)

		original := repository.StoredImage{Data: e.Data, MIME: mime}
		thumb := makeThumb(e.Data, mime, edge, base)

		if err := imp.Images.PutPair(ctx, cardID, original, thumb); err != nil {
			return i, fmt.Errorf("store image %s: %w", cardID, err)
		}
		if imp.Meta != nil {
			if folder := folderName(e.Path); folder != "" {
				if err := imp.Meta.SetFolder(ctx, cardID, folder); err != nil {
					return i, fmt.Errorf("store image folder %s: %w", cardID, err)
				}
			}
		}

		done := i + 1
		if imp.OnProgress != nil {
			imp.OnProgress(Progress{Done: done, Total: total, Current: base})
		}
		if done%batch == 0 {
			if err := ctx.Err(); err != nil {
				return done, err
			}
			if imp.Yield != nil {
				imp.Yield()
			}
		}
	}
	return total, nil
}

// makeThumb generates the reduced rendition, falling back to a
// byte-identical copy of the original when decoding or encoding fails.
func makeThumb(data []byte, mime string, edge uint, name string) repository.StoredImage {
	thumbData, thumbMIME, err := Thumbnail(data, edge)
	if err != nil {
		log.Printf("thumbnail fallback for %s: %v", name, err)
		return repository.StoredImage{Data: data, MIME: mime}
	}
	return repository.StoredImage{Data: thumbData, MIME: thumbMIME}
}
