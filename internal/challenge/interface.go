package challenge

import (
	"context"
	"time"

	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/result"
)

// Store defines the persistence operations for challenges. Writes that
// change an existing row compare the stored version with c.Version and fail
// with a StateConflictError when someone else got there first.
type Store interface {
	// Create inserts c unless its challenger already holds an active
	// challenge, in which case an AdmissionLimitError is returned.
	Create(ctx context.Context, c *Challenge) error
	Get(ctx context.Context, id string) (*Challenge, error)
	// List returns challenges newest first. An empty status lists all.
	List(ctx context.Context, status Status) ([]*Challenge, error)
	CountByStatus(ctx context.Context) (Counts, error)
	Update(ctx context.Context, c *Challenge) error
	Delete(ctx context.Context, c *Challenge) error
	// SaveResult upserts the result and updates the challenge atomically.
	SaveResult(ctx context.Context, c *Challenge, r *result.MatchResult) error
	GetResult(ctx context.Context, challengeID string) (*result.MatchResult, error)
	// CompletedFor returns the player's completed challenges, most recent first.
	CompletedFor(ctx context.Context, playerID string) ([]Completed, error)
}

// PlayerLookup is the part of the player store the lifecycle needs.
type PlayerLookup interface {
	GetMany(ctx context.Context, ids []string) (map[string]*player.Player, error)
}

// CapacityChecker guards the ground time windows. excludeID is the challenge
// being edited, which must not count against itself.
type CapacityChecker interface {
	CheckCapacity(ctx context.Context, groundID string, at time.Time, excludeID string) error
}

// Lifecycle is every operation a user or admin can perform on challenges.
type Lifecycle interface {
	Create(ctx context.Context, challengerID string, d Draft) (*Challenge, error)
	Get(ctx context.Context, id string) (*Challenge, error)
	List(ctx context.Context, status Status) ([]*Challenge, error)
	Counts(ctx context.Context) (Counts, error)
	Result(ctx context.Context, id string) (*result.MatchResult, error)
	Accept(ctx context.Context, id, actorID string) (*Challenge, error)
	AcceptSlot(ctx context.Context, id string, slot Slot, actorID string) (*Challenge, error)
	Decline(ctx context.Context, id, actorID string) (*Challenge, error)
	Cancel(ctx context.Context, id, actorID string, admin bool) (*Challenge, error)
	Edit(ctx context.Context, id, actorID string, d Draft) (*Challenge, error)
	Delete(ctx context.Context, id, actorID string) error
	RecordResult(ctx context.Context, id, adminID string, in ResultInput) (*Challenge, *result.MatchResult, error)
	SelectWinner(ctx context.Context, id, adminID, winnerID string) (*Challenge, error)
}
