package scheduler

import (
	"time"

	"github.com/mauv0809/tampere-cricket/internal/metrics"
	"github.com/robfig/cron/v3"
)

const (
	DefaultSnapshotSpec  = "0 0 3 * * *"
	DefaultRecomputeSpec = "0 30 3 * * *"

	// jobTimeout bounds a single scheduled run.
	jobTimeout = 10 * time.Minute
	// postedEntries is how many leaderboard lines are posted after a snapshot.
	postedEntries = 10
)

// Jobs holds the maintenance work shared by the cron schedule and the admin
// endpoints.
type Jobs struct {
	stats       StatsRecomputer
	rankings    Rankings
	poster      LeaderboardPoster
	metrics     metrics.Metrics
	concurrency int
}

// Scheduler runs Jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
	jobs *Jobs
}
