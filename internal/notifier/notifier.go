package notifier

import (
	"context"
	"time"

	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/ranking"
	"github.com/mauv0809/tampere-cricket/internal/result"
)

// ChallengeNotice is a challenge with player ids already resolved to names.
type ChallengeNotice struct {
	ChallengeID string
	Type        challenge.Type
	Status      challenge.Status
	Challenger  string
	// Opponent is empty for an open challenge.
	Opponent string
	// Team1 and Team2 hold batter then bowler of a single-wicket lineup.
	Team1       [2]string
	Team2       [2]string
	ScheduledAt *time.Time
	Metric      result.Metric
	TargetValue *int
	Winner      string
	Scores      result.Scores
}

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	SendChallengeCreated(ctx context.Context, n *ChallengeNotice) error
	SendChallengeAccepted(ctx context.Context, n *ChallengeNotice) error
	SendChallengeCompleted(ctx context.Context, n *ChallengeNotice) error
	// SendLeaderboard posts the top of a leaderboard page.
	SendLeaderboard(ctx context.Context, page *ranking.Page) error
}
