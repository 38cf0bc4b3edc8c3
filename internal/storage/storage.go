package storage

import (
	"context"
	"sync"
)

// Blob persists opaque string values under well-known keys.
type Blob interface {
	// Get reports ok == false when nothing is stored under key.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key string, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Backend names accepted by the storage.backend setting.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Memory is an in-process Blob.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Blob = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
