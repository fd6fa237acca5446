package challenge

import (
	"context"
	"sync"

	"github.com/mauv0809/tampere-cricket/internal/result"
)

var _ Lifecycle = (*MockLifecycle)(nil)

// MockLifecycle is a mock implementation of Lifecycle for testing.
// Unset funcs return zero values. It is safe for concurrent use.
type MockLifecycle struct {
	mu sync.Mutex

	CreateFunc       func(challengerID string, d Draft) (*Challenge, error)
	GetFunc          func(id string) (*Challenge, error)
	ListFunc         func(status Status) ([]*Challenge, error)
	CountsFunc       func() (Counts, error)
	ResultFunc       func(id string) (*result.MatchResult, error)
	AcceptFunc       func(id, actorID string) (*Challenge, error)
	AcceptSlotFunc   func(id string, slot Slot, actorID string) (*Challenge, error)
	DeclineFunc      func(id, actorID string) (*Challenge, error)
	CancelFunc       func(id, actorID string, admin bool) (*Challenge, error)
	EditFunc         func(id, actorID string, d Draft) (*Challenge, error)
	DeleteFunc       func(id, actorID string) error
	RecordResultFunc func(id, adminID string, in ResultInput) (*Challenge, *result.MatchResult, error)
	SelectWinnerFunc func(id, adminID, winnerID string) (*Challenge, error)

	RecordResultCalls []struct {
		ID      string
		AdminID string
		Input   ResultInput
	}
	SelectWinnerCalls []struct {
		ID       string
		AdminID  string
		WinnerID string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockLifecycle {
	return &MockLifecycle{}
}

func (m *MockLifecycle) Create(ctx context.Context, challengerID string, d Draft) (*Challenge, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(challengerID, d)
	}
	return &Challenge{ChallengerID: challengerID, Type: d.Type, Status: Initial(d.OpponentID != nil)}, nil
}

func (m *MockLifecycle) Get(ctx context.Context, id string) (*Challenge, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockLifecycle) List(ctx context.Context, status Status) ([]*Challenge, error) {
	if m.ListFunc != nil {
		return m.ListFunc(status)
	}
	return nil, nil
}

func (m *MockLifecycle) Counts(ctx context.Context) (Counts, error) {
	if m.CountsFunc != nil {
		return m.CountsFunc()
	}
	return Counts{}, nil
}

func (m *MockLifecycle) Result(ctx context.Context, id string) (*result.MatchResult, error) {
	if m.ResultFunc != nil {
		return m.ResultFunc(id)
	}
	return nil, nil
}

func (m *MockLifecycle) Accept(ctx context.Context, id, actorID string) (*Challenge, error) {
	if m.AcceptFunc != nil {
		return m.AcceptFunc(id, actorID)
	}
	return nil, ErrNotFound
}

func (m *MockLifecycle) AcceptSlot(ctx context.Context, id string, slot Slot, actorID string) (*Challenge, error) {
	if m.AcceptSlotFunc != nil {
		return m.AcceptSlotFunc(id, slot, actorID)
	}
	return nil, ErrNotFound
}

func (m *MockLifecycle) Decline(ctx context.Context, id, actorID string) (*Challenge, error) {
	if m.DeclineFunc != nil {
		return m.DeclineFunc(id, actorID)
	}
	return nil, ErrNotFound
}

func (m *MockLifecycle) Cancel(ctx context.Context, id, actorID string, admin bool) (*Challenge, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(id, actorID, admin)
	}
	return nil, ErrNotFound
}

func (m *MockLifecycle) Edit(ctx context.Context, id, actorID string, d Draft) (*Challenge, error) {
	if m.EditFunc != nil {
		return m.EditFunc(id, actorID, d)
	}
	return nil, ErrNotFound
}

func (m *MockLifecycle) Delete(ctx context.Context, id, actorID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id, actorID)
	}
	return nil
}

func (m *MockLifecycle) RecordResult(ctx context.Context, id, adminID string, in ResultInput) (*Challenge, *result.MatchResult, error) {
	m.mu.Lock()
	m.RecordResultCalls = append(m.RecordResultCalls, struct {
		ID      string
		AdminID string
		Input   ResultInput
	}{id, adminID, in})
	m.mu.Unlock()
	if m.RecordResultFunc != nil {
		return m.RecordResultFunc(id, adminID, in)
	}
	return nil, nil, ErrNotFound
}

func (m *MockLifecycle) SelectWinner(ctx context.Context, id, adminID, winnerID string) (*Challenge, error) {
	m.mu.Lock()
	m.SelectWinnerCalls = append(m.SelectWinnerCalls, struct {
		ID       string
		AdminID  string
		WinnerID string
	}{id, adminID, winnerID})
	m.mu.Unlock()
	if m.SelectWinnerFunc != nil {
		return m.SelectWinnerFunc(id, adminID, winnerID)
	}
	return nil, ErrNotFound
}
