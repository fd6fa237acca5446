package stats

import (
	"database/sql"
	"time"

	"github.com/mauv0809/tampere-cricket/internal/rating"
)

// store handles all database operations for player statistics. Each
// recompute runs in its own transaction, so no in-process lock is held.
type store struct {
	db   *sql.DB
	calc rating.Calculator
}

// Ranks holds one value per leaderboard.
type Ranks struct {
	Overall int `json:"overall"`
	Batting int `json:"batting"`
	Bowling int `json:"bowling"`
}

// Statistics is a player's derived record. Counters and ratings are always
// rebuilt from completed challenges; ranks come from the last snapshot.
type Statistics struct {
	PlayerID string `json:"player_id"`
	rating.Counters
	WinRate float64 `json:"win_rate"`
	rating.Ratings
	BallsFaced    int       `json:"balls_faced"`
	BallsBowled   int       `json:"balls_bowled"`
	PreviousRanks Ranks     `json:"previous_ranks"`
	RankChanges   Ranks     `json:"ranking_change"`
	UpdatedAt     time.Time `json:"updated_at"`
}
