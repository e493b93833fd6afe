package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func newMemStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrate_AppliesOnce(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()

	calls := 0
	migrations := []Migration{{
		Version:     1,
		Description: "create widgets",
		Up: func(tx *sql.Tx) error {
			calls++
			_, err := tx.Exec(`CREATE TABLE widgets (id INTEGER PRIMARY KEY)`)
			return err
		},
	}}

	for i := 0; i < 2; i++ {
		if err := s.Migrate(ctx, "test", migrations); err != nil {
			t.Fatalf("Migrate #%d: %v", i+1, err)
		}
	}
	if calls != 1 {
		t.Errorf("Up called %d times, want 1", calls)
	}

	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM _migrations WHERE module = 'test'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("_migrations rows = %d, want 1", n)
	}
}

func TestMigrate_FailureRollsBack(t *testing.T) {
	s := newMemStore(t)
	boom := errors.New("boom")
	err := s.Migrate(context.Background(), "test", []Migration{{
		Version:     1,
		Description: "half done",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`CREATE TABLE partial (id INTEGER)`); err != nil {
				return err
			}
			return boom
		},
	}})
	if !errors.Is(err, boom) {
		t.Fatalf("Migrate error = %v, want wrapped boom", err)
	}

	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = 'partial'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Error("table from failed migration was not rolled back")
	}
}

func TestTx_Commit(t *testing.T) {
	s := newMemStore(t)
	ctx := context.Background()
	if _, err := s.DB().Exec(`CREATE TABLE kv (k TEXT)`); err != nil {
		t.Fatal(err)
	}
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO kv (k) VALUES ('a')`)
		return err
	})
	if err != nil {
		t.Fatalf("Tx: %v", err)
	}
	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}
