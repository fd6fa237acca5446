package scheduler

import (
	"context"

	"github.com/mauv0809/tampere-cricket/internal/ranking"
	"github.com/mauv0809/tampere-cricket/internal/stats"
)

// StatsRecomputer rebuilds player statistics.
type StatsRecomputer interface {
	Recompute(ctx context.Context, playerID string) (*stats.Statistics, error)
	RecomputeAll(ctx context.Context, concurrency int) (int, error)
}

// Rankings is the part of the ranking service the jobs drive.
type Rankings interface {
	Leaderboard(ctx context.Context, q ranking.Query) (*ranking.Page, error)
	Snapshot(ctx context.Context) (ranking.SnapshotResult, error)
	Invalidate(ctx context.Context)
}

// LeaderboardPoster publishes the leaderboard after a snapshot.
type LeaderboardPoster interface {
	SendLeaderboard(ctx context.Context, page *ranking.Page) error
}
