package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrMirrorMiss is returned by Mirror.Get when the key holds no value.
var ErrMirrorMiss = errors.New("mirror miss")

// MemoryMirror keeps mirrored values in process memory. Nothing survives a
// restart.
type MemoryMirror struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryMirror() *MemoryMirror {
	return &MemoryMirror{data: make(map[string]string)}
}

func (m *MemoryMirror) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return "", ErrMirrorMiss
	}
	return v, nil
}

func (m *MemoryMirror) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

func (m *MemoryMirror) Ping(ctx context.Context) bool { return true }
