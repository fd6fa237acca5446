package availability

import (
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// store handles all database operations for grounds and time slots.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	DefaultSlotCapacity = 2
)

// Ground is a venue challenges can be scheduled at.
type Ground struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	Facilities  string    `json:"facilities"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

// TimeSlot is an admin-created bookable window on one ground and date.
// Price is advisory only.
type TimeSlot struct {
	ID          string  `json:"id"`
	GroundID    string  `json:"ground_id"`
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	IsAvailable bool    `json:"is_available"`
	Price       float64 `json:"price"`
}

// Bounds returns the absolute start and end of the slot in loc.
func (t TimeSlot) Bounds(loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(DateLayout+" "+TimeLayout, t.Date+" "+t.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start of slot %s: %w", t.ID, err)
	}
	end, err := time.ParseInLocation(DateLayout+" "+TimeLayout, t.Date+" "+t.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end of slot %s: %w", t.ID, err)
	}
	return start, end, nil
}

// Covers reports whether the local wall clock time hh:mm falls inside the slot.
func (t TimeSlot) Covers(hhmm string) bool {
	return t.StartTime <= hhmm && hhmm < t.EndTime
}

// Window is a time slot annotated with how many active challenges it holds.
type Window struct {
	SlotID        string  `json:"id"`
	GroundID      string  `json:"ground_id"`
	GroundName    string  `json:"ground_name"`
	Date          string  `json:"date"`
	Display       string  `json:"display"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Price         float64 `json:"price"`
	CurrentCount  int     `json:"current_count"`
	MaxChallenges int     `json:"max_challenges"`
	IsAvailable   bool    `json:"is_available"`
}

// Day is the availability answer for one date.
type Day struct {
	Date       string   `json:"date"`
	Slots      []Window `json:"slots"`
	TotalSlots int      `json:"total_slots"`
}
