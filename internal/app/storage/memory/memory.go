// Package memory provides a thread-safe in-memory key-value store implementing
// storage.KVStore. It is intended for tests and default wiring and keeps the
// implementation deliberately simple.
package memory

import (
	"context"
	"sync"

	"github.com/foodvanpos/posd/internal/app/storage"
)

// Memory is an in-memory KVStore.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ storage.KVStore = (*Memory)(nil)

// New creates an empty in-memory store.
func New() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len reports the number of stored keys, for tests.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
