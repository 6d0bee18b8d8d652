package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Set(ctx, CartKey, "v1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Upsert replaces in place.
	if err := store.Set(ctx, CartKey, "v2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	value, err := reopened.Get(ctx, CartKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "v2" {
		t.Fatalf("expected %q, got %q", "v2", value)
	}

	if err := reopened.Delete(ctx, CartKey); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := reopened.Get(ctx, CartKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := reopened.Ping(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
