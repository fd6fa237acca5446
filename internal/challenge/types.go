package challenge

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/tampere-cricket/internal/result"
)

// store handles all database operations for challenges and their results.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusOpen, StatusPending, StatusAccepted, StatusCompleted, StatusCancelled}

// Active reports whether the status counts against the one-active-challenge rule.
func (s Status) Active() bool {
	return s == StatusOpen || s == StatusPending || s == StatusAccepted
}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

type Type string

const (
	TypeSingleWicket Type = "SINGLE_WICKET"
	TypeBatting      Type = "BATTING"
	TypeBowling      Type = "BOWLING"
)

func (t Type) Valid() bool {
	return t == TypeSingleWicket || t == TypeBatting || t == TypeBowling
}

// Slot names one of the four single-wicket positions.
type Slot string

const (
	SlotTeam1Batter Slot = "team1_batter"
	SlotTeam1Bowler Slot = "team1_bowler"
	SlotTeam2Batter Slot = "team2_batter"
	SlotTeam2Bowler Slot = "team2_bowler"
)

var Slots = []Slot{SlotTeam1Batter, SlotTeam1Bowler, SlotTeam2Batter, SlotTeam2Bowler}

func (s Slot) Valid() bool {
	for _, known := range Slots {
		if s == known {
			return true
		}
	}
	return false
}

// Team returns the side the slot plays for.
func (s Slot) Team() result.Side {
	switch s {
	case SlotTeam1Batter, SlotTeam1Bowler:
		return result.SideOne
	case SlotTeam2Batter, SlotTeam2Bowler:
		return result.SideTwo
	default:
		return result.SideNone
	}
}

func (s Slot) Batter() bool {
	return s == SlotTeam1Batter || s == SlotTeam2Batter
}

// Label is the human readable slot name used in error messages.
func (s Slot) Label() string {
	switch s {
	case SlotTeam1Batter:
		return "Team 1 Batter"
	case SlotTeam1Bowler:
		return "Team 1 Bowler"
	case SlotTeam2Batter:
		return "Team 2 Batter"
	case SlotTeam2Bowler:
		return "Team 2 Bowler"
	default:
		return string(s)
	}
}

// Assignment is one single-wicket slot: who holds it and whether they said yes.
type Assignment struct {
	PlayerID *string `json:"player_id"`
	Accepted bool    `json:"accepted"`
}

func (a Assignment) holds(playerID string) bool {
	return a.PlayerID != nil && *a.PlayerID == playerID
}

// Lineup holds the four single-wicket slots. It is empty for metric challenges.
type Lineup struct {
	Team1Batter Assignment `json:"team1_batter"`
	Team1Bowler Assignment `json:"team1_bowler"`
	Team2Batter Assignment `json:"team2_batter"`
	Team2Bowler Assignment `json:"team2_bowler"`
}

// Get returns a pointer to the slot so callers can update it in place.
func (l *Lineup) Get(slot Slot) *Assignment {
	switch slot {
	case SlotTeam1Batter:
		return &l.Team1Batter
	case SlotTeam1Bowler:
		return &l.Team1Bowler
	case SlotTeam2Batter:
		return &l.Team2Batter
	case SlotTeam2Bowler:
		return &l.Team2Bowler
	default:
		return nil
	}
}

// AllAccepted reports whether every slot is filled and accepted.
func (l Lineup) AllAccepted() bool {
	for _, slot := range Slots {
		a := l.Get(slot)
		if a.PlayerID == nil || !a.Accepted {
			return false
		}
	}
	return true
}

// Empty reports whether no slot has a player.
func (l Lineup) Empty() bool {
	for _, slot := range Slots {
		if l.Get(slot).PlayerID != nil {
			return false
		}
	}
	return true
}

// Full reports whether every slot has a player, accepted or not.
func (l Lineup) Full() bool {
	for _, slot := range Slots {
		if l.Get(slot).PlayerID == nil {
			return false
		}
	}
	return true
}

// SlotsOf returns the slots held by playerID.
func (l Lineup) SlotsOf(playerID string) []Slot {
	var held []Slot
	for _, slot := range Slots {
		if l.Get(slot).holds(playerID) {
			held = append(held, slot)
		}
	}
	return held
}

// Challenge is a proposed or scheduled contest between players.
type Challenge struct {
	ID              string        `json:"id"`
	ChallengerID    string        `json:"challenger_id"`
	OpponentID      *string       `json:"opponent_id"`
	WinnerID        *string       `json:"winner_id"`
	WinningSide     result.Side   `json:"winning_side"`
	Type            Type          `json:"challenge_type"`
	Status          Status        `json:"status"`
	Lineup          Lineup        `json:"lineup"`
	GroundID        *string       `json:"ground_id"`
	ScheduledAt     *time.Time    `json:"scheduled_at"`
	DurationMinutes int           `json:"duration_minutes"`
	Metric          result.Metric `json:"metric"`
	TargetValue     *int          `json:"target_value"`
	OverCount       *int          `json:"over_count"`
	ConditionText   string        `json:"condition_text"`
	Description     string        `json:"description"`
	CreatedAt       time.Time     `json:"created_at"`
	AcceptedAt      *time.Time    `json:"accepted_at"`
	CompletedAt     *time.Time    `json:"completed_at"`
	Version         int           `json:"version"`
}

// Participants returns the distinct players taking part, challenger first
// for metric challenges and in slot order for single-wicket ones.
func (c *Challenge) Participants() []string {
	if c.Type != TypeSingleWicket {
		ids := []string{c.ChallengerID}
		if c.OpponentID != nil {
			ids = append(ids, *c.OpponentID)
		}
		return ids
	}
	seen := make(map[string]bool)
	var ids []string
	for _, slot := range Slots {
		a := c.Lineup.Get(slot)
		if a.PlayerID != nil && !seen[*a.PlayerID] {
			seen[*a.PlayerID] = true
			ids = append(ids, *a.PlayerID)
		}
	}
	return ids
}

// IsParticipant reports whether playerID plays in the challenge.
func (c *Challenge) IsParticipant(playerID string) bool {
	for _, id := range c.Participants() {
		if id == playerID {
			return true
		}
	}
	return false
}

// SideOf returns the side playerID plays for, or SideNone.
func (c *Challenge) SideOf(playerID string) result.Side {
	if c.Type == TypeSingleWicket {
		for _, slot := range c.Lineup.SlotsOf(playerID) {
			return slot.Team()
		}
		return result.SideNone
	}
	switch {
	case c.ChallengerID == playerID:
		return result.SideOne
	case c.OpponentID != nil && *c.OpponentID == playerID:
		return result.SideTwo
	default:
		return result.SideNone
	}
}

// PlayerForSide returns the player recorded as winner when side wins. For
// single-wicket challenges that is the team's batter.
func (c *Challenge) PlayerForSide(side result.Side) *string {
	if c.Type == TypeSingleWicket {
		switch side {
		case result.SideOne:
			return c.Lineup.Team1Batter.PlayerID
		case result.SideTwo:
			return c.Lineup.Team2Batter.PlayerID
		}
		return nil
	}
	switch side {
	case result.SideOne:
		id := c.ChallengerID
		return &id
	case result.SideTwo:
		return c.OpponentID
	}
	return nil
}

// AllParticipantsAccepted is the single-wicket "everyone said yes" predicate.
// Metric challenges have a single acceptance carried by the status.
func (c *Challenge) AllParticipantsAccepted() bool {
	if c.Type == TypeSingleWicket {
		return c.Lineup.AllAccepted()
	}
	return c.Status == StatusAccepted || c.Status == StatusCompleted
}

// PlayedAt orders matches: completion time, falling back to the scheduled
// time, then creation time.
func (c *Challenge) PlayedAt() time.Time {
	switch {
	case c.CompletedAt != nil:
		return *c.CompletedAt
	case c.ScheduledAt != nil:
		return *c.ScheduledAt
	default:
		return c.CreatedAt
	}
}

// Completed pairs a completed challenge with its result, which may be absent
// when the winner was selected manually.
type Completed struct {
	Challenge *Challenge
	Result    *result.MatchResult
}

// Draft is the user supplied part of a challenge, used for create and edit.
type Draft struct {
	OpponentID      *string
	Type            Type
	Team1BatterID   *string
	Team1BowlerID   *string
	Team2BatterID   *string
	Team2BowlerID   *string
	GroundID        *string
	ScheduledAt     *time.Time
	DurationMinutes int
	Metric          result.Metric
	TargetValue     *int
	OverCount       *int
	ConditionText   string
	Description     string
}

func (d Draft) slotPlayer(slot Slot) *string {
	switch slot {
	case SlotTeam1Batter:
		return d.Team1BatterID
	case SlotTeam1Bowler:
		return d.Team1BowlerID
	case SlotTeam2Batter:
		return d.Team2BatterID
	case SlotTeam2Bowler:
		return d.Team2BowlerID
	default:
		return nil
	}
}

// ResultInput is what an admin submits when recording a result.
type ResultInput struct {
	Scores         result.Scores
	Details        result.Details
	ManualWinnerID *string
}

// Counts is the number of challenges per status.
type Counts map[Status]int

// Total sums every status.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
