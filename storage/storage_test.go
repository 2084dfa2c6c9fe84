package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, KeyTheme, "dark"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := store.Get(ctx, KeyTheme)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != "dark" {
		t.Fatalf("got %q, want %q", got, "dark")
	}

	if err := store.Delete(ctx, KeyTheme); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, KeyTheme); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// deleting an absent key is not an error
	if err := store.Delete(ctx, KeyTheme); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
}

func TestThemeDefaultsWhenUnset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	theme, err := Theme(ctx, store)
	if err != nil {
		t.Fatalf("theme lookup failed: %v", err)
	}
	if theme != DefaultTheme {
		t.Fatalf("theme = %q, want default %q", theme, DefaultTheme)
	}

	if err := SetTheme(ctx, store, "dark"); err != nil {
		t.Fatalf("set theme failed: %v", err)
	}
	theme, err = Theme(ctx, store)
	if err != nil {
		t.Fatalf("theme lookup failed: %v", err)
	}
	if theme != "dark" {
		t.Fatalf("theme = %q, want dark", theme)
	}
}

func TestEnsureDeviceIDStable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := EnsureDeviceID(ctx, store)
	if err != nil {
		t.Fatalf("first ensure failed: %v", err)
	}
	if first == "" {
		t.Fatal("expected a generated device id")
	}

	second, err := EnsureDeviceID(ctx, store)
	if err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if second != first {
		t.Fatalf("device id changed across calls: %q vs %q", first, second)
	}
}
