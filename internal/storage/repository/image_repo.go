package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Key prefixes for the images collection. The collection uses
// out-of-line keys: the key column is supplied by this repository, the
// payload never carries it.
const (
	originalKeyPrefix = "image-original:"
	thumbKeyPrefix    = "image-thumb:"
)

// OriginalKey returns the images-collection key for a card's original.
func OriginalKey(cardID string) string { return originalKeyPrefix + cardID }

// ThumbKey returns the images-collection key for a card's thumbnail.
func ThumbKey(cardID string) string { return thumbKeyPrefix + cardID }

// StoredImage is a binary image payload with the MIME type derived from
// the source filename at import time.
type StoredImage struct {
	Data []byte
	MIME string
}

// ImageRepository handles the original/thumbnail image pairs. The store
// tolerates a thumbnail without an original and vice versa; Display
// falls back accordingly.
type ImageRepository interface {
	// PutPair upserts a card's original and thumbnail in one
	// transaction.
	PutPair(ctx context.Context, cardID string, original, thumb StoredImage) error

	// Original retrieves a card's original image, or nil when absent.
	Original(ctx context.Context, cardID string) (*StoredImage, error)

	// Thumb retrieves a card's thumbnail, or nil when absent.
	Thumb(ctx context.Context, cardID string) (*StoredImage, error)

	// Display retrieves the image to show for a card: thumbnail when
	// present, otherwise the original, otherwise nil.
	Display(ctx context.Context, cardID string) (*StoredImage, error)

	// OriginalIDs returns the card ids that have a stored original,
	// used by the archive exporter (thumbnails are never transported).
	OriginalIDs(ctx context.Context) ([]string, error)

	// Clear removes every stored image.
	Clear(ctx context.Context) error
}

type imageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new image repository.
func NewImageRepository(db *sql.DB) ImageRepository {
	return &imageRepository{db: db}
}

const imageUpsertQuery = `
	INSERT INTO images (key, mime, data)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		mime = excluded.mime,
		data = excluded.data
`

func (r *imageRepository) PutPair(ctx context.Context, cardID string, original, thumb StoredImage) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, imageUpsertQuery, OriginalKey(cardID), original.MIME, original.Data); err != nil {
		return fmt.Errorf("put original %s: %w", cardID, err)
	}
	if _, err := tx.ExecContext(ctx, imageUpsertQuery, ThumbKey(cardID), thumb.MIME, thumb.Data); err != nil {
		return fmt.Errorf("put thumbnail %s: %w", cardID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit image pair %s: %w", cardID, err)
	}
	return nil
}

func (r *imageRepository) get(ctx context.Context, key string) (*StoredImage, error) {
	var img StoredImage
	err := r.db.QueryRowContext(ctx, `SELECT mime, data FROM images WHERE key = ?`, key).
		Scan(&img.MIME, &img.Data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get image %s: %w", key, err)
	}
	return &img, nil
}

func (r *imageRepository) Original(ctx context.Context, cardID string) (*StoredImage, error) {
	return r.get(ctx, OriginalKey(cardID))
}

func (r *imageRepository) Thumb(ctx context.Context, cardID string) (*StoredImage, error) {
	return r.get(ctx, ThumbKey(cardID))
}

func (r *imageRepository) Display(ctx context.Context, cardID string) (*StoredImage, error) {
	img, err := r.Thumb(ctx, cardID)
	if err != nil || img != nil {
		return img, err
	}
	return r.Original(ctx, cardID)
}

func (r *imageRepository) OriginalIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key FROM images WHERE key LIKE ?`, originalKeyPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("get original keys: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan image key: %w", err)
		}
		ids = append(ids, strings.TrimPrefix(key, originalKeyPrefix))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate image keys: %w", err)
	}
	return ids, nil
}

func (r *imageRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM images`); err != nil {
		return fmt.Errorf("clear images: %w", err)
	}
	return nil
}
