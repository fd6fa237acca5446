package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/rating"
	"golang.org/x/sync/errgroup"
)

// New creates a statistics Store. A nil calculator uses rating.Default().
func New(db *sql.DB, calc rating.Calculator) Store {
	if calc == nil {
		calc = rating.Default()
	}
	return &store{db: db, calc: calc}
}

const selectColumns = `player_id, matches_played, wins, losses, draws, runs, wickets, balls_faced, balls_bowled,
	rating, batting_rating, bowling_rating,
	previous_overall_rank, previous_batting_rank, previous_bowling_rank,
	ranking_change_overall, ranking_change_batting, ranking_change_bowling, updated_at`

// Recompute reads the completed challenges and writes the new totals in one
// transaction, so concurrent recomputes of the same player cannot interleave
// a stale read with a fresh write.
func (s *store) Recompute(ctx context.Context, playerID string) (*Statistics, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM players WHERE id = ?`, playerID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, player.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	completed, err := challenge.QueryCompleted(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}
	counters := Aggregate(playerID, completed)
	ratings := s.calc.Calculate(counters)

	// Upserting also backfills a missing row.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO player_stats (player_id, matches_played, wins, losses, draws, runs, wickets,
			rating, batting_rating, bowling_rating, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			matches_played = excluded.matches_played,
			wins = excluded.wins,
			losses = excluded.losses,
			draws = excluded.draws,
			runs = excluded.runs,
			wickets = excluded.wickets,
			rating = excluded.rating,
			batting_rating = excluded.batting_rating,
			bowling_rating = excluded.bowling_rating,
			updated_at = excluded.updated_at`,
		playerID, counters.MatchesPlayed, counters.Wins, counters.Losses, counters.Draws, counters.Runs,
		counters.Wickets, ratings.Overall, ratings.Batting, ratings.Bowling, time.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to save statistics for %s: %w", playerID, err)
	}

	st, err := scanStatistics(tx.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM player_stats WHERE player_id = ?`, playerID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Debug("Statistics recomputed", "playerID", playerID, "matches", counters.MatchesPlayed, "rating", ratings.Overall)
	return st, nil
}

func (s *store) RecomputeAll(ctx context.Context, concurrency int) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM players ORDER BY id`)
	if err != nil {
		return 0, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if concurrency < 1 {
		concurrency = 1
	}
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, id := range ids {
		g.Go(func() error {
			if _, err := s.Recompute(gctx, id); err != nil {
				return fmt.Errorf("failed to recompute %s: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	log.Info("Recomputed statistics for all players", "players", len(ids), "duration", time.Since(start))
	return len(ids), nil
}

func (s *store) Get(ctx context.Context, playerID string) (*Statistics, error) {
	st, err := scanStatistics(s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM player_stats WHERE player_id = ?`, playerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, player.ErrNotFound
	}
	return st, err
}

func scanStatistics(scanner interface{ Scan(...any) error }) (*Statistics, error) {
	var (
		st        Statistics
		updatedAt int64
	)
	err := scanner.Scan(&st.PlayerID, &st.MatchesPlayed, &st.Wins, &st.Losses, &st.Draws, &st.Runs, &st.Wickets,
		&st.BallsFaced, &st.BallsBowled, &st.Overall, &st.Batting, &st.Bowling,
		&st.PreviousRanks.Overall, &st.PreviousRanks.Batting, &st.PreviousRanks.Bowling,
		&st.RankChanges.Overall, &st.RankChanges.Batting, &st.RankChanges.Bowling, &updatedAt)
	if err != nil {
		return nil, err
	}
	st.WinRate = WinRatePercent(st.Counters)
	st.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &st, nil
}
