package metrics

import "github.com/prometheus/client_golang/prometheus"

// Challenge events counted by IncChallengeEvent.
const (
	EventCreated   = "created"
	EventAccepted  = "accepted"
	EventDeclined  = "declined"
	EventCancelled = "cancelled"
	EventCompleted = "completed"
)

// Service holds all the Prometheus metrics for the application.
type Service struct {
	ChallengeEvents    *prometheus.CounterVec
	StateConflicts     prometheus.Counter
	RecomputeDuration  prometheus.Histogram
	RecomputeFailed    prometheus.Counter
	SnapshotRuns       prometheus.Counter
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	EventsPublished    prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
