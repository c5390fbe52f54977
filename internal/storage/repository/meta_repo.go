package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const folderKeyPrefix = "image-folder:"

// ImageMetaRepository remembers which archive folder a card's image was
// imported from. Provenance only; losing it costs nothing.
type ImageMetaRepository interface {
	SetFolder(ctx context.Context, cardID, folder string) error

	// Folder returns the recorded source folder, or "" when absent.
	Folder(ctx context.Context, cardID string) (string, error)

	// AllFolders returns every cardID -> folder mapping.
	AllFolders(ctx context.Context) (map[string]string, error)

	Clear(ctx context.Context) error
}

type imageMetaRepository struct {
	db *sql.DB
}

// NewImageMetaRepository creates a new image metadata repository.
func NewImageMetaRepository(db *sql.DB) ImageMetaRepository {
	return &imageMetaRepository{db: db}
}

func (r *imageMetaRepository) SetFolder(ctx context.Context, cardID, folder string) error {
	query := `
		INSERT INTO image_meta (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := r.db.ExecContext(ctx, query, folderKeyPrefix+cardID, folder); err != nil {
		return fmt.Errorf("set image folder %s: %w", cardID, err)
	}
	return nil
}

func (r *imageMetaRepository) Folder(ctx context.Context, cardID string) (string, error) {
	var folder string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM image_meta WHERE key = ?`, folderKeyPrefix+cardID).
		Scan(&folder)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get image folder %s: %w", cardID, err)
	}
	return folder, nil
}

func (r *imageMetaRepository) AllFolders(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM image_meta WHERE key LIKE ?`, folderKeyPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("get image folders: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	folders := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan image folder: %w", err)
		}
		folders[strings.TrimPrefix(key, folderKeyPrefix)] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate image folders: %w", err)
	}
	return folders, nil
}

func (r *imageMetaRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM image_meta`); err != nil {
		return fmt.Errorf("clear image meta: %w", err)
	}
	return nil
}
