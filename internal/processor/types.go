package processor

import (
	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/metrics"
	"github.com/mauv0809/tampere-cricket/internal/pubsub"
)

// Processor runs the side effects of challenge transitions: statistics,
// cache invalidation, notifications and events.
type Processor struct {
	challenges  Lifecycle
	players     challenge.PlayerLookup
	stats       Recomputer
	leaderboard Invalidator
	pubsub      pubsub.PubSubClient
	notifier    Notifier
	metrics     metrics.Metrics
}
