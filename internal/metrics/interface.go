package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncChallengeEvent(event string)
	IncStateConflicts()
	ObserveRecomputeDuration(duration float64)
	IncRecomputeFailed()
	IncSnapshotRuns()
	IncNotifSent()
	IncNotifFailed()
	IncEventsPublished()
	SetStartupTime(duration float64)
}
