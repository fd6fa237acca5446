package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tampere-cricket/internal/metrics"
	"github.com/mauv0809/tampere-cricket/internal/ranking"
	"github.com/mauv0809/tampere-cricket/internal/stats"
)

// NewJobs creates the maintenance jobs. poster may be nil.
func NewJobs(stats StatsRecomputer, rankings Rankings, poster LeaderboardPoster, metrics metrics.Metrics, concurrency int) *Jobs {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Jobs{
		stats:       stats,
		rankings:    rankings,
		poster:      poster,
		metrics:     metrics,
		concurrency: concurrency,
	}
}

// Snapshot stores the current ranks as the previous ranks on every board and
// posts the top of the overall leaderboard. Posting failures are logged.
func (j *Jobs) Snapshot(ctx context.Context) (ranking.SnapshotResult, error) {
	moved, err := j.rankings.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot ranks: %w", err)
	}
	j.metrics.IncSnapshotRuns()
	log.Info("Rank snapshot stored", "overall", moved[ranking.BoardOverall], "batting", moved[ranking.BoardBatting], "bowling", moved[ranking.BoardBowling])

	if j.poster == nil {
		return moved, nil
	}
	page, err := j.rankings.Leaderboard(ctx, ranking.Query{Board: ranking.BoardOverall, PageSize: postedEntries})
	if err != nil {
		log.Error("Failed to load leaderboard for posting", "error", err)
		return moved, nil
	}
	if len(page.Entries) == 0 {
		log.Debug("Leaderboard is empty, nothing to post")
		return moved, nil
	}
	if err := j.poster.SendLeaderboard(ctx, page); err != nil {
		log.Error("Failed to post leaderboard", "error", err)
	}
	return moved, nil
}

// RecomputeAll rebuilds every player's statistics and drops cached
// leaderboard pages.
func (j *Jobs) RecomputeAll(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := j.stats.RecomputeAll(ctx, j.concurrency)
	j.metrics.ObserveRecomputeDuration(time.Since(start).Seconds())
	if err != nil {
		j.metrics.IncRecomputeFailed()
		return 0, fmt.Errorf("failed to recompute statistics: %w", err)
	}
	j.rankings.Invalidate(ctx)
	return n, nil
}

// RecomputePlayer rebuilds one player's statistics.
func (j *Jobs) RecomputePlayer(ctx context.Context, playerID string) (*stats.Statistics, error) {
	start := time.Now()
	st, err := j.stats.Recompute(ctx, playerID)
	j.metrics.ObserveRecomputeDuration(time.Since(start).Seconds())
	if err != nil {
		j.metrics.IncRecomputeFailed()
		return nil, err
	}
	j.rankings.Invalidate(ctx)
	return st, nil
}
