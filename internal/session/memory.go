package session

import (
	"context"
	"sync"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: map[string][]byte{}}
}

func (m *MemoryStore) Save(ctx context.Context, sid string, s models.Session) error {
	b, err := encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.slots[key(sid)] = b
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, sid string) (models.Session, error) {
	m.mu.RLock()
	b, ok := m.slots[key(sid)]
	m.mu.RUnlock()
	if !ok {
		return models.Session{}, ErrNoSession
	}

	s, err := decode(b)
	if err != nil {
		_ = m.Clear(ctx, sid)
		return models.Session{}, ErrNoSession
	}
	return s, nil
}

func (m *MemoryStore) Clear(ctx context.Context, sid string) error {
	m.mu.Lock()
	delete(m.slots, key(sid))
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Put stores raw bytes under a slot. Used by tests to plant corrupt values.
func (m *MemoryStore) Put(sid string, raw []byte) {
	m.mu.Lock()
	m.slots[key(sid)] = raw
	m.mu.Unlock()
}
