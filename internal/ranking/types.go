package ranking

import (
	"database/sql"
	"sync"

	"github.com/mauv0809/tampere-cricket/internal/rating"
	"github.com/mauv0809/tampere-cricket/internal/stats"
)

// store handles the ranking reads and rank snapshot writes.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Board selects which rating a leaderboard is ordered by.
type Board string

const (
	BoardOverall Board = "overall"
	BoardBatting Board = "batting"
	BoardBowling Board = "bowling"
)

var Boards = []Board{BoardOverall, BoardBatting, BoardBowling}

func (b Board) Valid() bool {
	return b == BoardOverall || b == BoardBatting || b == BoardBowling
}

// Standing is one player's line on a leaderboard.
type Standing struct {
	PlayerID    string `json:"player_id" msgpack:"player_id"`
	Username    string `json:"username" msgpack:"username"`
	DisplayName string `json:"display_name" msgpack:"display_name"`
	Rank        int    `json:"rank" msgpack:"rank"`
	RankChange  int    `json:"ranking_change" msgpack:"ranking_change"`
	rating.Counters
	rating.Ratings
	RankChanges stats.Ranks `json:"-" msgpack:"-"`
}

// Score is the rating the standing is ordered by on board.
func (s Standing) Score(board Board) float64 {
	switch board {
	case BoardBatting:
		return s.Batting
	case BoardBowling:
		return s.Bowling
	default:
		return s.Overall
	}
}

func (b Board) of(r stats.Ranks) int {
	switch b {
	case BoardBatting:
		return r.Batting
	case BoardBowling:
		return r.Bowling
	default:
		return r.Overall
	}
}

// Page is one page of a leaderboard. Ranks are global even when the page
// was filtered by a search query.
type Page struct {
	Board      Board      `json:"board" msgpack:"board"`
	Entries    []Standing `json:"entries" msgpack:"entries"`
	Page       int        `json:"page" msgpack:"page"`
	PageSize   int        `json:"page_size" msgpack:"page_size"`
	Total      int        `json:"total" msgpack:"total"`
	TotalPages int        `json:"total_pages" msgpack:"total_pages"`
	Query      string     `json:"query,omitempty" msgpack:"query"`
}

// Query describes a leaderboard request.
type Query struct {
	Board    Board
	Page     int
	PageSize int
	Search   string
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SnapshotResult is the number of players whose stored rank moved, per board.
type SnapshotResult map[Board]int
