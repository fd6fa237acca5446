package ranking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tampere-cricket/internal/player"
)

// New creates a new ranking Store.
func New(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) Standings(ctx context.Context) ([]Standing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.username, p.first_name, p.last_name, p.status,
			ps.matches_played, ps.wins, ps.losses, ps.draws, ps.runs, ps.wickets,
			ps.rating, ps.batting_rating, ps.bowling_rating,
			ps.ranking_change_overall, ps.ranking_change_batting, ps.ranking_change_bowling
		FROM players p
		JOIN player_stats ps ON ps.player_id = p.id
		WHERE p.status = ? AND ps.matches_played > 0`, player.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	var standings []Standing
	for rows.Next() {
		var (
			st Standing
			p  player.Player
		)
		err := rows.Scan(&st.PlayerID, &p.Username, &p.FirstName, &p.LastName, &p.Status,
			&st.MatchesPlayed, &st.Wins, &st.Losses, &st.Draws, &st.Runs, &st.Wickets,
			&st.Overall, &st.Batting, &st.Bowling,
			&st.RankChanges.Overall, &st.RankChanges.Batting, &st.RankChanges.Bowling)
		if err != nil {
			return nil, err
		}
		st.Username = p.Username
		st.DisplayName = player.DisplayName(&p)
		standings = append(standings, st)
	}
	return standings, rows.Err()
}

func snapshotColumns(board Board) (previous, change string, err error) {
	switch board {
	case BoardOverall:
		return "previous_overall_rank", "ranking_change_overall", nil
	case BoardBatting:
		return "previous_batting_rank", "ranking_change_batting", nil
	case BoardBowling:
		return "previous_bowling_rank", "ranking_change_bowling", nil
	default:
		return "", "", fmt.Errorf("unknown board %q", board)
	}
}

func (s *store) SaveSnapshot(ctx context.Context, board Board, ranks map[string]int) (int, error) {
	previousCol, changeCol, err := snapshotColumns(board)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT player_id, `+previousCol+` FROM player_stats`)
	if err != nil {
		return 0, err
	}
	previous := make(map[string]int)
	for rows.Next() {
		var (
			id   string
			rank int
		)
		if err := rows.Scan(&id, &rank); err != nil {
			rows.Close()
			return 0, err
		}
		previous[id] = rank
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	moved := 0
	for id, before := range previous {
		current := ranks[id]
		change := 0
		if before > 0 && current > 0 {
			change = before - current
		}
		if before != current {
			moved++
		}
		_, err := tx.ExecContext(ctx, `UPDATE player_stats SET `+previousCol+` = ?, `+changeCol+` = ? WHERE player_id = ?`,
			current, change, id)
		if err != nil {
			return 0, fmt.Errorf("failed to store %s rank for %s: %w", board, id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	log.Info("Rank snapshot stored", "board", board, "players", len(previous), "moved", moved)
	return moved, nil
}
