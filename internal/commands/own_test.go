package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/binderworks/tcg-binder/internal/config"
	"github.com/binderworks/tcg-binder/internal/storage"
)

// newTestEnv points the loaded config at an in-memory store with the
// schema created inline and returns the command environment over it.
// The shared handle is process-wide, so tests use distinct card ids.
func newTestEnv(t *testing.T) *env {
	t.Helper()

	cfg = config.DefaultConfig()
	cfg.Store.Path = ":memory:"
	cfg.Store.NotesPath = filepath.Join(t.TempDir(), "notes.json")

	db, err := storage.Shared(storage.DefaultConfig(":memory:"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	conn := db.Conn()
	// One connection keeps the in-memory database alive across calls.
	conn.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE IF NOT EXISTS cards (
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
		CREATE TABLE IF NOT EXISTS ownership (
			card_id    TEXT PRIMARY KEY,
			count      INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := conn.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	e, err := openEnv()
	if err != nil {
		t.Fatalf("failed to open env: %v", err)
	}
	return e
}

func TestResolveCount(t *testing.T) {
	tests := []struct {
		name    string
		current int
		arg     string
		want    int
		wantErr bool
	}{
		{name: "absolute", current: 1, arg: "4", want: 4},
		{name: "increment", current: 1, arg: "+2", want: 3},
		{name: "decrement", current: 3, arg: "-1", want: 2},
		{name: "below zero allowed here, clamped by the ledger", current: 1, arg: "-5", want: -4},
		{name: "garbage", current: 0, arg: "many", wantErr: true},
		{name: "garbage adjustment", current: 0, arg: "+few", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveCount(tt.current, tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("resolveCount(%d, %q) = %d, want %d", tt.current, tt.arg, got, tt.want)
			}
		})
	}
}

func TestOwnCmd_NegativeAdjustmentStaysPositional(t *testing.T) {
	cmd := newOwnCmd()
	var got []string
	cmd.RunE = func(_ *cobra.Command, args []string) error {
		got = args
		return nil
	}

	cmd.SetArgs([]string{"OP01-001", "-3"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("a -n adjustment must parse as a positional, got: %v", err)
	}
	if len(got) != 2 || got[0] != "OP01-001" || got[1] != "-3" {
		t.Errorf("unexpected args: %v", got)
	}
}

func TestOwnCmd_NegativeAdjustmentClampsAndPrintsStored(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	if err := e.Owned.Set(ctx, "OP05-001", 2); err != nil {
		t.Fatalf("seed ownership failed: %v", err)
	}

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	cmd := newOwnCmd()
	cmd.SetArgs([]string{"OP05-001", "-9"})
	execErr := cmd.Execute()

	_ = w.Close()
	os.Stdout = oldStdout
	out, _ := io.ReadAll(r)

	if execErr != nil {
		t.Fatalf("own failed: %v", execErr)
	}

	count, err := e.Owned.Get(ctx, "OP05-001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected ledger clamped to 0, got %d", count)
	}
	if !strings.Contains(string(out), "OP05-001: 0") {
		t.Errorf("printed count must be the stored clamped value, got %q", string(out))
	}
}
