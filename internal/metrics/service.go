package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ChallengeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cricket_challenge_events_total",
			Help: "Challenge lifecycle transitions by event.",
		}, []string{"event"}),
		StateConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_challenge_state_conflicts_total",
			Help: "Requests rejected because the challenge was in the wrong state or changed concurrently.",
		}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cricket_stats_recompute_duration_seconds",
			Help:    "The duration of a single player statistics recompute.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RecomputeFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_stats_recompute_failed_total",
			Help: "Statistics recomputes that returned an error.",
		}),
		SnapshotRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_rank_snapshot_runs_total",
			Help: "The total number of leaderboard rank snapshots taken.",
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cricket_events_published_total",
			Help: "The total number of domain events published to pubsub.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cricket_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ChallengeEvents,
		s.StateConflicts,
		s.RecomputeDuration,
		s.RecomputeFailed,
		s.SnapshotRuns,
		s.NotifSent,
		s.NotifFailed,
		s.EventsPublished,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncChallengeEvent(event string) {
	s.ChallengeEvents.WithLabelValues(event).Inc()
}

func (s *Service) IncStateConflicts() {
	s.StateConflicts.Inc()
}

func (s *Service) ObserveRecomputeDuration(duration float64) {
	s.RecomputeDuration.Observe(duration)
}

func (s *Service) IncRecomputeFailed() {
	s.RecomputeFailed.Inc()
}

func (s *Service) IncSnapshotRuns() {
	s.SnapshotRuns.Inc()
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) IncEventsPublished() {
	s.EventsPublished.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
