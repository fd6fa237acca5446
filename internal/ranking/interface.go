package ranking

import "context"

// Store reads the ranking inputs and persists rank snapshots.
type Store interface {
	// Standings returns every active player with at least one completed
	// match, in no particular order.
	Standings(ctx context.Context) ([]Standing, error)
	// SaveSnapshot stores ranks as the new previous ranks for board and
	// records the movement since the last snapshot. Players missing from
	// ranks are stored as unranked. It returns how many players moved.
	SaveSnapshot(ctx context.Context, board Board, ranks map[string]int) (int, error)
}

// Cache keeps rendered leaderboard pages. It is never authoritative: a miss
// or an error falls through to the database.
type Cache interface {
	Get(ctx context.Context, key string) (*Page, bool)
	Set(ctx context.Context, key string, page *Page)
	// Invalidate drops every cached page.
	Invalidate(ctx context.Context)
}
