package stats

import "context"

// Store rebuilds and reads player statistics.
type Store interface {
	// Recompute overwrites the player's counters and ratings with totals
	// derived from their completed challenges. Safe to repeat.
	Recompute(ctx context.Context, playerID string) (*Statistics, error)
	// RecomputeAll recomputes every player with at most concurrency
	// recomputes in flight and returns how many were done.
	RecomputeAll(ctx context.Context, concurrency int) (int, error)
	// Get returns the stored record without recomputing it.
	Get(ctx context.Context, playerID string) (*Statistics, error)
}
