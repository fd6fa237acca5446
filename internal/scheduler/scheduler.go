package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// New creates a scheduler running the snapshot and recompute jobs on the
// given six-field cron specs, evaluated in loc.
func New(jobs *Jobs, snapshotSpec, recomputeSpec string, loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(loc),
		cron.WithLogger(cron.PrintfLogger(log.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}))),
	)
	s := &Scheduler{cron: c, jobs: jobs}

	if _, err := c.AddFunc(snapshotSpec, s.runSnapshot); err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", snapshotSpec, err)
	}
	if _, err := c.AddFunc(recomputeSpec, s.runRecompute); err != nil {
		return nil, fmt.Errorf("invalid recompute schedule %q: %w", recomputeSpec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	log.Info("Starting scheduler", "jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	log.Info("Stopping scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		log.Warn("Scheduler stopped before running jobs finished")
	}
}

// Next returns the next run time of every job, in registration order.
func (s *Scheduler) Next() []time.Time {
	entries := s.cron.Entries()
	next := make([]time.Time, len(entries))
	for i, e := range entries {
		next[i] = e.Schedule.Next(time.Now())
	}
	return next
}

func (s *Scheduler) runSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	log.Info("Running rank snapshot job")
	if _, err := s.jobs.Snapshot(ctx); err != nil {
		log.Error("Rank snapshot job failed", "error", err)
	}
}

func (s *Scheduler) runRecompute() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	log.Info("Running statistics recompute job")
	n, err := s.jobs.RecomputeAll(ctx)
	if err != nil {
		log.Error("Statistics recompute job failed", "error", err)
		return
	}
	log.Info("Statistics recompute job completed", "players", n)
}
