// Package storage provides the durable key/value contract the companion core
// persists tokens and preferences through. The interface mirrors the mobile
// platform's async string store; implementations must be safe for concurrent
// use.
package storage

import (
	"context"
	"errors"
	"sync"
)

// Well-known keys. The "@"-prefixed names are carried over from the mobile
// client's storage so a migrated device keeps its session.
const (
	KeyAccessToken  = "@access_token"
	KeyRefreshToken = "@refresh_token"
	KeyTokenExpiry  = "@token_expiry"
	KeyTheme        = "@theme"
	KeyDeviceID     = "@device_id"
	KeyUserProfile  = "userProfile" // legacy profile cache, write-only
)

var ErrNotFound = errors.New("storage: key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is the default in-process implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys returns all stored keys. Used by tests to assert token atomicity.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}
