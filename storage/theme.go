package storage

import (
	"context"
	"errors"
)

const DefaultTheme = "light"

// Theme returns the persisted UI theme preference, defaulting when none was
// ever chosen.
func Theme(ctx context.Context, store Store) (string, error) {
	theme, err := store.Get(ctx, KeyTheme)
	if errors.Is(err, ErrNotFound) {
		return DefaultTheme, nil
	}
	if err != nil {
		return "", err
	}
	if theme == "" {
		return DefaultTheme, nil
	}
	return theme, nil
}

// SetTheme persists the UI theme preference.
func SetTheme(ctx context.Context, store Store, theme string) error {
	return store.Set(ctx, KeyTheme, theme)
}
