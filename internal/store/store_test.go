package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTable(name string) func(tx *sql.Tx) error {
	return func(tx *sql.Tx) error {
		_, err := tx.Exec("CREATE TABLE " + name + " (id TEXT PRIMARY KEY)")
		return err
	}
}

func TestMigrate_AppliesOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var calls atomic.Int32
	migrations := []Migration{
		{Version: 1, Description: "create widgets", Up: func(tx *sql.Tx) error {
			calls.Add(1)
			return createTable("widgets")(tx)
		}},
	}

	for range 3 {
		if err := s.Migrate(ctx, "widgets", migrations); err != nil {
			t.Fatalf("Migrate: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("migration ran %d times, want 1", got)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM _migrations WHERE component = 'widgets'").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("_migrations rows = %d, want 1", count)
	}
}

func TestMigrate_VersionsAreScopedPerComponent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Migrate(ctx, "a", []Migration{{Version: 1, Description: "a1", Up: createTable("a_items")}}); err != nil {
		t.Fatalf("Migrate a: %v", err)
	}
	if err := s.Migrate(ctx, "b", []Migration{{Version: 1, Description: "b1", Up: createTable("b_items")}}); err != nil {
		t.Fatalf("Migrate b: %v", err)
	}

	for _, table := range []string{"a_items", "b_items"} {
		if _, err := s.DB().Exec("INSERT INTO " + table + " (id) VALUES ('x')"); err != nil {
			t.Errorf("insert into %s: %v", table, err)
		}
	}
}

func TestMigrate_FailureRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Migrate(ctx, "broken", []Migration{{
		Version:     1,
		Description: "half applied",
		Up: func(tx *sql.Tx) error {
			if err := createTable("half")(tx); err != nil {
				return err
			}
			return boom
		},
	}})
	if !errors.Is(err, boom) {
		t.Fatalf("Migrate error = %v, want boom", err)
	}

	if _, err := s.DB().Exec("INSERT INTO half (id) VALUES ('x')"); err == nil {
		t.Error("table from failed migration exists")
	}

	// A fixed migration with the same version applies afterwards.
	if err := s.Migrate(ctx, "broken", []Migration{{Version: 1, Description: "fixed", Up: createTable("half")}}); err != nil {
		t.Fatalf("Migrate after fix: %v", err)
	}
}

func TestTx_CommitAndRollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.DB().Exec("CREATE TABLE items (id TEXT PRIMARY KEY)"); err != nil {
		t.Fatalf("create table: %v", err)
	}

	if err := s.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO items (id) VALUES ('kept')")
		return err
	}); err != nil {
		t.Fatalf("Tx commit: %v", err)
	}

	sentinel := errors.New("abort")
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO items (id) VALUES ('dropped')"); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Tx error = %v, want sentinel", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM items").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
}

func TestNew_FileDatabaseAndCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phonedex.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	if err := s.Checkpoint(context.Background()); err != nil {
		t.Errorf("Checkpoint: %v", err)
	}
}
