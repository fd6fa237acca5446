package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/tampere-cricket/internal/ranking"
)

var _ Notifier = (*MockNotifier)(nil)

// MockNotifier is a mock implementation of Notifier for testing.
// It is safe for concurrent use.
type MockNotifier struct {
	mu sync.Mutex

	SendChallengeCreatedFunc   func(n *ChallengeNotice) error
	SendChallengeAcceptedFunc  func(n *ChallengeNotice) error
	SendChallengeCompletedFunc func(n *ChallengeNotice) error
	SendLeaderboardFunc        func(page *ranking.Page) error

	CreatedCalls     []*ChallengeNotice
	AcceptedCalls    []*ChallengeNotice
	CompletedCalls   []*ChallengeNotice
	LeaderboardCalls []*ranking.Page
}

// NewMock creates a new mock notifier.
func NewMock() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendChallengeCreated(ctx context.Context, n *ChallengeNotice) error {
	m.mu.Lock()
	m.CreatedCalls = append(m.CreatedCalls, n)
	m.mu.Unlock()
	if m.SendChallengeCreatedFunc != nil {
		return m.SendChallengeCreatedFunc(n)
	}
	return nil
}

func (m *MockNotifier) SendChallengeAccepted(ctx context.Context, n *ChallengeNotice) error {
	m.mu.Lock()
	m.AcceptedCalls = append(m.AcceptedCalls, n)
	m.mu.Unlock()
	if m.SendChallengeAcceptedFunc != nil {
		return m.SendChallengeAcceptedFunc(n)
	}
	return nil
}

func (m *MockNotifier) SendChallengeCompleted(ctx context.Context, n *ChallengeNotice) error {
	m.mu.Lock()
	m.CompletedCalls = append(m.CompletedCalls, n)
	m.mu.Unlock()
	if m.SendChallengeCompletedFunc != nil {
		return m.SendChallengeCompletedFunc(n)
	}
	return nil
}

func (m *MockNotifier) SendLeaderboard(ctx context.Context, page *ranking.Page) error {
	m.mu.Lock()
	m.LeaderboardCalls = append(m.LeaderboardCalls, page)
	m.mu.Unlock()
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(page)
	}
	return nil
}

// Completed returns a copy of the recorded completion notices.
func (m *MockNotifier) Completed() []*ChallengeNotice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ChallengeNotice(nil), m.CompletedCalls...)
}
