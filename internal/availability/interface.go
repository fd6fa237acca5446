package availability

import (
	"context"
	"errors"
	"time"
)

var (
	ErrGroundNotFound = errors.New("ground not found")
	ErrSlotExists     = errors.New("time slot already exists")
)

// Store defines the persistence operations for grounds and time slots.
type Store interface {
	CreateGround(ctx context.Context, g *Ground) error
	GetGround(ctx context.Context, id string) (*Ground, error)
	ListGrounds(ctx context.Context) ([]*Ground, error)
	CreateSlot(ctx context.Context, t *TimeSlot) error
	// SlotsOn lists the slots of a date ordered by start time. An empty
	// groundID lists every ground.
	SlotsOn(ctx context.Context, date, groundID string) ([]TimeSlot, error)
	// CountActive counts OPEN, PENDING and ACCEPTED challenges at a ground
	// scheduled in [from, to), ignoring excludeID.
	CountActive(ctx context.Context, groundID string, from, to time.Time, excludeID string) (int, error)
}
