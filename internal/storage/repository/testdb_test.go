package repository

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// newTestDB creates an in-memory database with the binder schema, as
// created by the embedded migrations.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("error closing database: %v", err)
		}
	})

	schema := `
		CREATE TABLE cards (
			card_id   TEXT PRIMARY KEY,
			dan       TEXT NOT NULL DEFAULT '',
			dansort   REAL,
			name      TEXT NOT NULL DEFAULT '',
			rarity    TEXT NOT NULL DEFAULT '',
			color     TEXT NOT NULL DEFAULT '',
			kind      TEXT NOT NULL DEFAULT '',
			type      TEXT NOT NULL DEFAULT '',
			cost      TEXT NOT NULL DEFAULT '',
			counter   TEXT NOT NULL DEFAULT '',
			life      TEXT NOT NULL DEFAULT '',
			power     TEXT NOT NULL DEFAULT '',
			effect    TEXT NOT NULL DEFAULT '',
			attribute TEXT NOT NULL DEFAULT '',
			blockicon TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE ownership (
			card_id    TEXT PRIMARY KEY,
			count      INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE images (
			key  TEXT PRIMARY KEY,
			mime TEXT NOT NULL DEFAULT '',
			data BLOB NOT NULL
		);

		CREATE TABLE image_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL DEFAULT ''
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return db
}
