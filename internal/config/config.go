// Package config loads and saves the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Store configuration
	Store StoreConfig `toml:"store"`

	// Import configuration
	Import ImportConfig `toml:"import"`

	// Watch configuration
	Watch WatchConfig `toml:"watch"`
}

// StoreConfig contains database and notes file settings.
type StoreConfig struct {
	Path        string `toml:"path"`         // Path to the SQLite database
	NotesPath   string `toml:"notes_path"`   // Path to the purchase notes file
	BusyTimeout string `toml:"busy_timeout"` // SQLite busy timeout (e.g., "5s")
	JournalMode string `toml:"journal_mode"` // SQLite journal mode
	Synchronous string `toml:"synchronous"`  // SQLite synchronous setting
}

// ImportConfig contains import pipeline settings.
type ImportConfig struct {
	BatchSize    int  `toml:"batch_size"`     // Items between yield points
	ThumbMaxEdge uint `toml:"thumb_max_edge"` // Longer thumbnail edge in pixels
}

// WatchConfig contains drop-folder settings.
type WatchConfig struct {
	Dir         string `toml:"dir"`          // Directory to watch for csv/zip drops
	SettleDelay string `toml:"settle_delay"` // Wait after a file event (e.g., "500ms")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:        "",
			NotesPath:   "",
			BusyTimeout: "5s",
			JournalMode: "WAL",
			Synchronous: "NORMAL",
		},
		Import: ImportConfig{
			BatchSize:    50,
			ThumbMaxEdge: 600,
		},
		Watch: WatchConfig{
			Dir:         "",
			SettleDelay: "500ms",
		},
	}
}

// DataDir returns the per-user data directory, creating it if needed.
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".tcg-binder")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}

	return dir, nil
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads the configuration from an explicit path.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Store.BusyTimeout); err != nil {
		return fmt.Errorf("invalid busy timeout %q: %w", c.Store.BusyTimeout, err)
	}

	switch strings.ToUpper(c.Store.JournalMode) {
	case "WAL", "DELETE", "TRUNCATE", "MEMORY", "PERSIST", "OFF":
	default:
		return fmt.Errorf("invalid journal mode %q", c.Store.JournalMode)
	}

	switch strings.ToUpper(c.Store.Synchronous) {
	case "OFF", "NORMAL", "FULL", "EXTRA":
	default:
		return fmt.Errorf("invalid synchronous setting %q", c.Store.Synchronous)
	}

	if c.Import.BatchSize < 0 {
		return fmt.Errorf("batch size cannot be negative: %d", c.Import.BatchSize)
	}

	if c.Watch.SettleDelay != "" {
		if _, err := time.ParseDuration(c.Watch.SettleDelay); err != nil {
			return fmt.Errorf("invalid settle delay %q: %w", c.Watch.SettleDelay, err)
		}
	}

	return nil
}

// DatabasePath resolves the database location, defaulting into the
// data directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "binder.db"), nil
}

// NotesPath resolves the purchase notes file location, defaulting into
// the data directory.
func (c *Config) NotesPath() (string, error) {
	if c.Store.NotesPath != "" {
		return c.Store.NotesPath, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "notes.json"), nil
}

// GetBusyTimeout returns the busy timeout as a duration.
func (c *Config) GetBusyTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Store.BusyTimeout)
}

// GetSettleDelay returns the watch settle delay as a duration.
func (c *Config) GetSettleDelay() (time.Duration, error) {
	if c.Watch.SettleDelay == "" {
		return 500 * time.Millisecond, nil
	}
	return time.ParseDuration(c.Watch.SettleDelay)
}
