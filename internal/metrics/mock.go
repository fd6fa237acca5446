package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	challengeEvents    map[string]int
	stateConflicts     int
	recomputeDurations []float64
	recomputeFailed    int
	snapshotRuns       int
	notifSent          int
	notifFailed        int
	eventsPublished    int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		challengeEvents:    make(map[string]int),
		recomputeDurations: make([]float64, 0),
	}
}

func (m *Mock) IncChallengeEvent(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challengeEvents[event]++
}

func (m *Mock) IncStateConflicts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stateConflicts++
}

func (m *Mock) ObserveRecomputeDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recomputeDurations = append(m.recomputeDurations, duration)
}

func (m *Mock) IncRecomputeFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recomputeFailed++
}

func (m *Mock) IncSnapshotRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshotRuns++
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) IncEventsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// ChallengeEvents returns how often IncChallengeEvent was called with event.
func (m *Mock) ChallengeEvents(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.challengeEvents[event]
}

// StateConflicts returns the number of times IncStateConflicts was called.
func (m *Mock) StateConflicts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateConflicts
}

// RecomputeDurations returns every observed recompute duration.
func (m *Mock) RecomputeDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.recomputeDurations...)
}

func (m *Mock) RecomputeFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recomputeFailed
}

func (m *Mock) SnapshotRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotRuns
}

// NotifSent returns the number of times IncNotifSent was called.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}

func (m *Mock) EventsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished
}
