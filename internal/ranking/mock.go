package ranking

import (
	"context"
	"sync"
)

var (
	_ Store = (*MockStore)(nil)
	_ Cache = (*MockCache)(nil)
)

// MockStore is a mock implementation of Store for testing.
type MockStore struct {
	mu sync.Mutex

	StandingsFunc    func() ([]Standing, error)
	SaveSnapshotFunc func(board Board, ranks map[string]int) (int, error)

	StandingsCalls    int
	SaveSnapshotCalls []struct {
		Board Board
		Ranks map[string]int
	}
}

// NewMock creates a mock store returning standings.
func NewMock(standings ...Standing) *MockStore {
	return &MockStore{
		StandingsFunc: func() ([]Standing, error) {
			return append([]Standing(nil), standings...), nil
		},
	}
}

func (m *MockStore) Standings(ctx context.Context) ([]Standing, error) {
	m.mu.Lock()
	m.StandingsCalls++
	m.mu.Unlock()
	if m.StandingsFunc != nil {
		return m.StandingsFunc()
	}
	return nil, nil
}

func (m *MockStore) SaveSnapshot(ctx context.Context, board Board, ranks map[string]int) (int, error) {
	m.mu.Lock()
	m.SaveSnapshotCalls = append(m.SaveSnapshotCalls, struct {
		Board Board
		Ranks map[string]int
	}{board, ranks})
	m.mu.Unlock()
	if m.SaveSnapshotFunc != nil {
		return m.SaveSnapshotFunc(board, ranks)
	}
	return len(ranks), nil
}

// MockCache is an in-memory Cache that records invalidations.
type MockCache struct {
	mu    sync.Mutex
	pages map[string]*Page

	InvalidateCalls int
}

func NewMockCache() *MockCache {
	return &MockCache{pages: make(map[string]*Page)}
}

func (m *MockCache) Get(ctx context.Context, key string) (*Page, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pages[key]
	return p, ok
}

func (m *MockCache) Set(ctx context.Context, key string, page *Page) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[key] = page
}

func (m *MockCache) Invalidate(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = make(map[string]*Page)
	m.InvalidateCalls++
}

// Invalidations returns how often Invalidate was called.
func (m *MockCache) Invalidations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.InvalidateCalls
}
