package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tampere-cricket/internal/challenge"
)

var _ challenge.CapacityChecker = (*Service)(nil)

// Service answers availability queries and enforces the per-window cap on
// simultaneous challenges.
type Service struct {
	store    Store
	capacity int
	loc      *time.Location
}

// NewService creates an availability service. A capacity below one falls back
// to DefaultSlotCapacity and a nil location to UTC.
func NewService(store Store, capacity int, loc *time.Location) *Service {
	if capacity < 1 {
		capacity = DefaultSlotCapacity
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, capacity: capacity, loc: loc}
}

func (s *Service) Grounds(ctx context.Context) ([]*Ground, error) {
	return s.store.ListGrounds(ctx)
}

func (s *Service) CreateGround(ctx context.Context, g *Ground) error {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return &challenge.ValidationError{Field: "name", Reason: "is required"}
	}
	if g.Capacity < 0 {
		return &challenge.ValidationError{Field: "capacity", Reason: "must not be negative"}
	}
	return s.store.CreateGround(ctx, g)
}

// AddSlot creates a time slot on an existing ground.
func (s *Service) AddSlot(ctx context.Context, t *TimeSlot) error {
	if _, err := s.store.GetGround(ctx, t.GroundID); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return &challenge.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	for field, v := range map[string]string{"start_time": t.StartTime, "end_time": t.EndTime} {
		if _, err := time.Parse(TimeLayout, v); err != nil {
			return &challenge.ValidationError{Field: field, Reason: "must be HH:MM"}
		}
	}
	if t.EndTime <= t.StartTime {
		return &challenge.ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}
	err := s.store.CreateSlot(ctx, t)
	if errors.Is(err, ErrSlotExists) {
		return &challenge.ValidationError{Field: "start_time", Reason: "a slot already starts at this time"}
	}
	return err
}

// Windows lists the open time slots of a date with their current load.
// Slots on grounds that are closed are left out.
func (s *Service) Windows(ctx context.Context, date string) (*Day, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, &challenge.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	grounds, err := s.store.ListGrounds(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*Ground, len(grounds))
	for _, g := range grounds {
		byID[g.ID] = g
	}

	slots, err := s.store.SlotsOn(ctx, date, "")
	if err != nil {
		return nil, err
	}
	day := &Day{Date: date, Slots: []Window{}}
	for _, t := range slots {
		g, ok := byID[t.GroundID]
		if !ok || !g.IsAvailable || !t.IsAvailable {
			continue
		}
		start, end, err := t.Bounds(s.loc)
		if err != nil {
			return nil, err
		}
		count, err := s.store.CountActive(ctx, t.GroundID, start, end, "")
		if err != nil {
			return nil, err
		}
		day.Slots = append(day.Slots, Window{
			SlotID:        t.ID,
			GroundID:      t.GroundID,
			GroundName:    g.Name,
			Date:          t.Date,
			Display:       t.StartTime + " - " + t.EndTime,
			StartTime:     t.StartTime,
			EndTime:       t.EndTime,
			Price:         t.Price,
			CurrentCount:  count,
			MaxChallenges: s.capacity,
			IsAvailable:   count < s.capacity,
		})
	}
	day.TotalSlots = len(day.Slots)
	return day, nil
}

// CheckCapacity rejects a challenge whose scheduled time falls in a window
// that already holds the maximum number of active challenges. Without a
// matching slot the window is the exact scheduled minute.
func (s *Service) CheckCapacity(ctx context.Context, groundID string, at time.Time, excludeID string) error {
	g, err := s.store.GetGround(ctx, groundID)
	if errors.Is(err, ErrGroundNotFound) {
		return &challenge.ValidationError{Field: "ground", Reason: "unknown ground"}
	}
	if err != nil {
		return err
	}
	if !g.IsAvailable {
		return &challenge.ValidationError{Field: "ground", Reason: fmt.Sprintf("%s is not available", g.Name)}
	}

	local := at.In(s.loc)
	from := local.Truncate(time.Minute)
	to := from.Add(time.Minute)
	label := local.Format(DateLayout + " " + TimeLayout)

	slots, err := s.store.SlotsOn(ctx, local.Format(DateLayout), groundID)
	if err != nil {
		return err
	}
	for _, t := range slots {
		if !t.Covers(local.Format(TimeLayout)) {
			continue
		}
		if !t.IsAvailable {
			return &challenge.AdmissionLimitError{Reason: fmt.Sprintf("time slot %s - %s at %s is closed", t.StartTime, t.EndTime, g.Name)}
		}
		if from, to, err = t.Bounds(s.loc); err != nil {
			return err
		}
		label = t.Date + " " + t.StartTime + " - " + t.EndTime
		break
	}

	count, err := s.store.CountActive(ctx, groundID, from, to, excludeID)
	if err != nil {
		return err
	}
	if count >= s.capacity {
		log.Info("Time slot full", "groundID", groundID, "window", label, "count", count)
		return &challenge.AdmissionLimitError{
			Reason: fmt.Sprintf("time slot %s at %s already has %d challenges", label, g.Name, count),
		}
	}
	return nil
}
