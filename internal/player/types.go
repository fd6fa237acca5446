package player

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for players.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Status marks whether a player is active or soft-deleted.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusDeleted Status = "DELETED"
)

type Role string

const (
	RoleBatter     Role = "batter"
	RoleBowler     Role = "bowler"
	RoleAllRounder Role = "allrounder"
)

// Player is a registered member of the league.
type Player struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Phone           string     `json:"phone,omitempty"`
	City            string     `json:"city"`
	Bio             string     `json:"bio"`
	Role            Role       `json:"role"`
	ExperienceLevel string     `json:"experience_level"`
	BattingStyle    string     `json:"preferred_batting_style"`
	BowlingStyle    string     `json:"preferred_bowling_style"`
	YearsPlaying    int        `json:"years_playing"`
	IsAdmin         bool       `json:"is_admin"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

// Active reports whether the player may take part in new challenges and rankings.
func (p *Player) Active() bool {
	return p != nil && p.Status != StatusDeleted
}
