package tokenstore

import (
	"context"
	"sync"
)

// Memory keeps the token in process memory only.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWithToken returns a store pre-seeded with token, as if a previous
// run had persisted it.
func NewMemoryWithToken(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Load(_ context.Context) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != "", nil
}

func (m *Memory) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func (m *Memory) Backend() string { return BackendMemory }

func (m *Memory) Close() error { return nil }
