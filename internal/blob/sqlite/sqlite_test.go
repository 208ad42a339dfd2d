package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "paydash.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "payments")
		if err != nil || ok {
			t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("set then overwrite", func(t *testing.T) {
		if err := store.Set(ctx, "payments", "[]"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := store.Set(ctx, "payments", `[{"id":"1"}]`); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		v, ok, err := store.Get(ctx, "payments")
		if err != nil || !ok || v != `[{"id":"1"}]` {
			t.Fatalf("unexpected value %q ok=%v err=%v", v, ok, err)
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := store.Ping(ctx); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})
}

func TestSQLiteStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "paydash.db")
	ctx := context.Background()

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Set(ctx, "payments", "persisted"); err != nil {
		t.Fatalf("set: %v", err)
	}
	first.Close()

	// Migrations must be idempotent on reopen.
	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	v, ok, err := second.Get(ctx, "payments")
	if err != nil || !ok || v != "persisted" {
		t.Fatalf("unexpected value after reopen: %q ok=%v err=%v", v, ok, err)
	}
}

func TestMigrateSchemaReportsVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "paydash.db")
	for i := 0; i < 2; i++ {
		version, err := migrateSchema(dbPath)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if version != 1 {
			t.Fatalf("run %d: version = %d, want 1", i, version)
		}
	}
}
