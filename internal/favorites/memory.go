package favorites

import (
	"context"
	"sync"

	"github.com/david/scholarship-finder/internal/models"
)

// MemoryStore keeps favorites in process memory. Contents are lost on exit;
// it backs tests and FAVORITES_BACKEND=memory.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[string]models.Favorite
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]models.Favorite)}
}

func (m *MemoryStore) List(ctx context.Context) ([]models.Favorite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]models.Favorite, 0, len(m.items))
	for _, f := range m.items {
		out = append(out, f)
	}
	return out, nil
}

func (m *MemoryStore) Contains(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false, ErrClosed
	}
	_, ok := m.items[id]
	return ok, nil
}

func (m *MemoryStore) Add(ctx context.Context, fav models.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.items[fav.ID] = fav
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
