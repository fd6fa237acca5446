package stats

import (
	"context"
	"sync"
)

var _ Store = (*MockStore)(nil)

// MockStore is a mock implementation of Store for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	RecomputeFunc    func(playerID string) (*Statistics, error)
	RecomputeAllFunc func(concurrency int) (int, error)
	GetFunc          func(playerID string) (*Statistics, error)

	RecomputeCalls    []string
	RecomputeAllCalls []int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Recompute(ctx context.Context, playerID string) (*Statistics, error) {
	m.mu.Lock()
	m.RecomputeCalls = append(m.RecomputeCalls, playerID)
	m.mu.Unlock()
	if m.RecomputeFunc != nil {
		return m.RecomputeFunc(playerID)
	}
	return &Statistics{PlayerID: playerID}, nil
}

func (m *MockStore) RecomputeAll(ctx context.Context, concurrency int) (int, error) {
	m.mu.Lock()
	m.RecomputeAllCalls = append(m.RecomputeAllCalls, concurrency)
	m.mu.Unlock()
	if m.RecomputeAllFunc != nil {
		return m.RecomputeAllFunc(concurrency)
	}
	return 0, nil
}

func (m *MockStore) Get(ctx context.Context, playerID string) (*Statistics, error) {
	if m.GetFunc != nil {
		return m.GetFunc(playerID)
	}
	return &Statistics{PlayerID: playerID}, nil
}

// Recomputed returns the ids passed to Recompute so far.
func (m *MockStore) Recomputed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.RecomputeCalls...)
}
