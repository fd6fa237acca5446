package player

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no player has the requested id.
	ErrNotFound      = errors.New("player not found")
	ErrUsernameTaken = errors.New("username is already taken")
)

// Store defines the persistence operations for players.
type Store interface {
	// Create inserts the player together with an empty statistics row.
	Create(ctx context.Context, p *Player) error
	Get(ctx context.Context, id string) (*Player, error)
	GetMany(ctx context.Context, ids []string) (map[string]*Player, error)
	List(ctx context.Context, includeDeleted bool) ([]*Player, error)
	SoftDelete(ctx context.Context, id string, at time.Time) (*Player, error)
}
