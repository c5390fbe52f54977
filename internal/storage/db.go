// Package storage provides the local persistent store for the binder:
// a versioned SQLite database holding the cards, ownership, images and
// image_meta collections, plus a small file-backed note store.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// ErrUnavailable reports that the store could not be opened or its
// schema could not be brought up to date. This is fatal to the
// application and surfaced once at startup.
var ErrUnavailable = errors.New("storage unavailable")

// DB wraps the database connection used by the repositories.
type DB struct {
	conn *sql.DB
}

// Config holds database configuration settings.
type Config struct {
	// Path is the file path to the SQLite database.
	// Use ":memory:" for an in-memory database (useful for testing).
	Path string

	// BusyTimeout sets how long to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// JournalMode sets the SQLite journal mode. Default: WAL.
	JournalMode string

	// Synchronous sets the SQLite synchronous mode. Default: NORMAL.
	Synchronous string

	// AutoMigrate runs pending schema migrations on Open.
	AutoMigrate bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:        path,
		BusyTimeout: 5 * time.Second,
		JournalMode: "WAL",
		Synchronous: "NORMAL",
		AutoMigrate: true,
	}
}

// Open creates a new database connection with the given configuration
// and, when AutoMigrate is set, brings the schema up to date. All
// failures wrap ErrUnavailable.
func Open(config *Config) (*DB, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config cannot be nil", ErrUnavailable)
	}

	// Create parent directory if it doesn't exist (unless in-memory)
	if config.Path != ":memory:" {
		dir := filepath.Dir(config.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create database directory: %v", ErrUnavailable, err)
		}
	}

	if config.AutoMigrate && config.Path != ":memory:" {
		if err := migrateUp(config.Path); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=%s&_synchronous=%s&_foreign_keys=on",
		config.Path,
		config.BusyTimeout.Milliseconds(),
		config.JournalMode,
		config.Synchronous,
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrUnavailable, err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: ping database: %v", ErrUnavailable, err)
	}

	return &DB{conn: conn}, nil
}

// migrateUp applies pending migrations through a dedicated connection.
func migrateUp(path string) error {
	mgr, err := NewMigrationManager(path)
	if err != nil {
		return fmt.Errorf("create migration manager: %w", err)
	}
	if err := mgr.Up(); err != nil {
		_ = mgr.Close()
		return fmt.Errorf("run migrations: %w", err)
	}
	if err := mgr.Close(); err != nil {
		return fmt.Errorf("close migration manager: %w", err)
	}
	return nil
}

var (
	sharedOnce sync.Once
	sharedDB   *DB
	sharedErr  error
)

// Shared returns the process-wide store handle, opening it on first
// use. Concurrent first callers are all served by the same underlying
// open and migration; the result (or the failure) is cached for the
// lifetime of the process.
func Shared(config *Config) (*DB, error) {
	sharedOnce.Do(func() {
		sharedDB, sharedErr = Open(config)
	})
	return sharedDB, sharedErr
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection for the repositories.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping verifies the database connection is alive.
func (db *DB) Ping() error {
	return db.conn.Ping()
}
