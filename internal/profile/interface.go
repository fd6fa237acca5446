package profile

import (
	"context"

	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/ranking"
	"github.com/mauv0809/tampere-cricket/internal/stats"
)

type PlayerGetter interface {
	Get(ctx context.Context, id string) (*player.Player, error)
}

type Recomputer interface {
	Get(ctx context.Context, playerID string) (*stats.Statistics, error)
	Recompute(ctx context.Context, playerID string) (*stats.Statistics, error)
}

type Ranker interface {
	RankOf(ctx context.Context, board ranking.Board, playerID string) (*int, error)
	Invalidate(ctx context.Context)
}

// History returns a player's completed challenges, most recent first.
type History interface {
	CompletedFor(ctx context.Context, playerID string) ([]challenge.Completed, error)
}

// HistoryFunc adapts a function to History.
type HistoryFunc func(ctx context.Context, playerID string) ([]challenge.Completed, error)

func (f HistoryFunc) CompletedFor(ctx context.Context, playerID string) ([]challenge.Completed, error) {
	return f(ctx, playerID)
}
