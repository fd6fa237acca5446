package processor

import (
	"context"

	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/notifier"
	"github.com/mauv0809/tampere-cricket/internal/stats"
)

// Recomputer rebuilds one player's statistics.
type Recomputer interface {
	Recompute(ctx context.Context, playerID string) (*stats.Statistics, error)
}

// Invalidator drops cached leaderboard pages.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}

// Lifecycle is the challenge state machine the processor drives.
type Lifecycle interface {
	challenge.Lifecycle
}
