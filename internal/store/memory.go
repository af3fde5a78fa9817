package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Storage. Contents are lost on exit.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string

	// FailWrites makes every SetItem and RemoveItem fail with this error.
	FailWrites error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]string{}}
}

func (m *MemoryStore) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStore) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return &PersistenceError{Key: key, Err: m.FailWrites}
	}
	m.items[key] = value
	return nil
}

func (m *MemoryStore) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return &PersistenceError{Key: key, Err: m.FailWrites}
	}
	delete(m.items, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
