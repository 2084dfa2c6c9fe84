package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// EnsureDeviceID returns the persistent device identifier, generating and
// storing one on first run. The id rides along in the profile meta block.
func EnsureDeviceID(ctx context.Context, store Store) (string, error) {
	id, err := store.Get(ctx, KeyDeviceID)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}

	id = uuid.NewString()
	if err := store.Set(ctx, KeyDeviceID, id); err != nil {
		return "", err
	}
	return id, nil
}
