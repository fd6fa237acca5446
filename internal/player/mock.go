package player

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*MockStore)(nil)

// MockStore is an in-memory Store for tests. It is safe for concurrent use.
type MockStore struct {
	mu      sync.Mutex
	players map[string]*Player

	CreateCalls     []*Player
	SoftDeleteCalls []string
}

// NewMock creates a new mock seeded with players.
func NewMock(players ...*Player) *MockStore {
	m := &MockStore{players: make(map[string]*Player)}
	for _, p := range players {
		m.players[p.ID] = p
	}
	return m
}

func (m *MockStore) Create(ctx context.Context, p *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, p)
	m.players[p.ID] = p
	return nil
}

func (m *MockStore) Get(ctx context.Context, id string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockStore) GetMany(ctx context.Context, ids []string) (map[string]*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*Player, len(ids))
	for _, id := range ids {
		if p, ok := m.players[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (m *MockStore) List(ctx context.Context, includeDeleted bool) ([]*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Player
	for _, p := range m.players {
		if includeDeleted || p.Active() {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockStore) SoftDelete(ctx context.Context, id string, at time.Time) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SoftDeleteCalls = append(m.SoftDeleteCalls, id)
	p, ok := m.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	deleted := SoftDelete(*p, at)
	m.players[id] = &deleted
	return &deleted, nil
}
