package profile

import (
	"time"

	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/ranking"
	"github.com/mauv0809/tampere-cricket/internal/stats"
)

const (
	DefaultTrendDays = 30
	RecentLimit      = 10
)

// Profile is the read model behind a player's profile page.
type Profile struct {
	Player             *player.Player         `json:"player"`
	Statistics         *stats.Statistics      `json:"statistics"`
	ProfileComplete    bool                   `json:"profile_complete"`
	MissingField       string                 `json:"missing_field,omitempty"`
	Rank               *int                   `json:"rank"`
	Ranks              map[ranking.Board]*int `json:"ranks"`
	RecentMatches      []Match                `json:"recent_matches"`
	Trend              []TrendPoint           `json:"performance_trend"`
	AvgRunsPerMatch    float64                `json:"avg_runs_per_match"`
	AvgWicketsPerMatch float64                `json:"avg_wickets_per_match"`
}

// Match is one completed challenge seen from the profile owner.
type Match struct {
	ChallengeID string         `json:"challenge_id"`
	Type        challenge.Type `json:"challenge_type"`
	Opponents   []string       `json:"opponents"`
	WinnerID    *string        `json:"winner_id"`
	Outcome     stats.Outcome  `json:"outcome"`
	Runs        int            `json:"runs"`
	Wickets     int            `json:"wickets"`
	PlayedAt    time.Time      `json:"played_at"`
}

// TrendPoint is the cumulative win rate at the end of one day of the window.
type TrendPoint struct {
	Date    string  `json:"date"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}
