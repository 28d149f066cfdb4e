package store

import (
	"context"
	"sync"

	"mission-control/internal/errors"
)

// MemoryAdapter implements Adapter with an in-process map.
// Used by tests and as the degraded-mode fallback.
type MemoryAdapter struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailWrites makes Set return a storage error, for testing the
	// best-effort persistence path.
	FailWrites bool

	// SetCalls counts Set invocations, for testing "no write happened".
	SetCalls int

	// FailPings makes Ping report the storage as unreachable.
	FailPings bool
}

// NewMemoryAdapter creates an empty in-memory adapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{data: make(map[string][]byte)}
}

// Get returns the blob stored under key, or errors.ErrDataNotFound.
func (m *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blob, ok := m.data[key]
	if !ok {
		return nil, errors.ErrDataNotFound
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

// Set stores blob under key, overwriting any previous value.
func (m *MemoryAdapter) Set(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls++
	if m.FailWrites {
		return errors.NewStorageError("set", key, errors.ErrStorageUnavailable)
	}

	stored := make([]byte, len(blob))
	copy(stored, blob)
	m.data[key] = stored
	return nil
}

// Ping succeeds unless FailPings is set.
func (m *MemoryAdapter) Ping(_ context.Context) error {
	if m.FailPings {
		return errors.NewStorageError("ping", "", errors.ErrStorageUnavailable)
	}
	return nil
}

// Close is a no-op.
func (m *MemoryAdapter) Close() error {
	return nil
}
