package client

import (
	"context"
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by Keystore.Get for absent keys.
var ErrKeyNotFound = errors.New("key not found")

// Keystore is the platform-backed secure key-value store holding session
// state. Implementations wrap whatever the host platform provides.
type Keystore interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
}

// MemoryKeystore is a process-local Keystore, used in tests and anywhere no
// secure storage exists.
type MemoryKeystore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKeystore() *MemoryKeystore {
	return &MemoryKeystore{values: make(map[string]string)}
}

func (m *MemoryKeystore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKeystore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (m *MemoryKeystore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
