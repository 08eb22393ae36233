package docs

import (
	"context"
	"errors"
	"testing"
)

func TestFilesystemStoreRoundTrip(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "receipts/exp-1.pdf", []byte("receipt")); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := store.Fetch(ctx, "receipts/exp-1.pdf")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(data) != "receipt" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestFilesystemStoreMissingDocument(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Fetch(context.Background(), "missing.pdf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFilesystemStoreRejectsEscapingPaths(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	for _, path := range []string{"../outside.pdf", "/etc/passwd", ""} {
		if _, err := store.Fetch(ctx, path); err == nil || errors.Is(err, ErrNotFound) {
			t.Errorf("path %q must be rejected outright, got %v", path, err)
		}
	}
}
