package challenge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/tampere-cricket/internal/database"
	"github.com/mauv0809/tampere-cricket/internal/result"
)

// New creates a new challenge Store.
func New(db *sql.DB) Store {
	return &store{db: db}
}

const selectColumns = `id, challenger_id, opponent_id, winner_id, winning_side, challenge_type, status,
	team1_batter_id, team1_bowler_id, team2_batter_id, team2_bowler_id,
	team1_batter_accepted, team1_bowler_accepted, team2_batter_accepted, team2_bowler_accepted,
	ground_id, scheduled_at, duration_minutes, metric, target_value, over_count, condition_text, description,
	created_at, accepted_at, completed_at, version`

const resultColumns = `id, challenge_id, kind,
	side_one_runs, side_one_wickets, side_one_sixes, side_one_fours, side_one_dots,
	side_two_runs, side_two_wickets, side_two_sixes, side_two_fours, side_two_dots,
	total_overs, match_duration, weather_conditions, pitch_conditions, notes, created_by, created_at, updated_at`

func (s *store) Create(ctx context.Context, c *Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var blocking string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM challenges
		WHERE challenger_id = ? AND status IN (?, ?, ?)
		ORDER BY created_at LIMIT 1`,
		c.ChallengerID, StatusOpen, StatusPending, StatusAccepted).Scan(&blocking)
	switch {
	case err == nil:
		log.Warn("Challenge creation blocked by active challenge", "challengerID", c.ChallengerID, "blockingID", blocking)
		return &AdmissionLimitError{
			BlockingChallengeID: blocking,
			Reason:              "you already have an active challenge; complete or cancel it before creating a new one",
		}
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to check active challenges for %s: %w", c.ChallengerID, err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO challenges (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ChallengerID, database.NullString(c.OpponentID), database.NullString(c.WinnerID), int(c.WinningSide),
		c.Type, c.Status,
		database.NullString(c.Lineup.Team1Batter.PlayerID), database.NullString(c.Lineup.Team1Bowler.PlayerID),
		database.NullString(c.Lineup.Team2Batter.PlayerID), database.NullString(c.Lineup.Team2Bowler.PlayerID),
		database.Bool(c.Lineup.Team1Batter.Accepted), database.Bool(c.Lineup.Team1Bowler.Accepted),
		database.Bool(c.Lineup.Team2Batter.Accepted), database.Bool(c.Lineup.Team2Bowler.Accepted),
		database.NullString(c.GroundID), database.NullUnix(c.ScheduledAt), c.DurationMinutes, c.Metric,
		database.NullInt(c.TargetValue), database.NullInt(c.OverCount), c.ConditionText, c.Description,
		c.CreatedAt.Unix(), database.NullUnix(c.AcceptedAt), database.NullUnix(c.CompletedAt), c.Version)
	if err != nil {
		return fmt.Errorf("failed to insert challenge %s: %w", c.ID, err)
	}
	return tx.Commit()
}

func (s *store) Get(ctx context.Context, id string) (*Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := scanChallenge(s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM challenges WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge %s: %w", id, err)
	}
	return c, nil
}

func (s *store) List(ctx context.Context, status Status) ([]*Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + selectColumns + ` FROM challenges`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	return queryChallenges(ctx, s.db, query, args...)
}

func (s *store) CountByStatus(ctx context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM challenges GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(Counts, len(Statuses))
	for _, st := range Statuses {
		counts[st] = 0
	}
	for rows.Next() {
		var (
			st Status
			n  int
		)
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		counts[st] = n
	}
	return counts, rows.Err()
}

func (s *store) Update(ctx context.Context, c *Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := updateChallenge(ctx, s.db, c); err != nil {
		return err
	}
	c.Version++
	return nil
}

func (s *store) Delete(ctx context.Context, c *Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM challenges WHERE id = ? AND version = ?`, c.ID, c.Version)
	if err != nil {
		return fmt.Errorf("failed to delete challenge %s: %w", c.ID, err)
	}
	return checkWritten(ctx, s.db, res, c, EventDelete)
}

func (s *store) SaveResult(ctx context.Context, c *Challenge, r *result.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.ChallengeID = c.ID
	one, two := r.Scores.Sides()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// An existing row keeps its id, author and creation time.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO match_results (`+resultColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(challenge_id) DO UPDATE SET
			kind = excluded.kind,
			side_one_runs = excluded.side_one_runs,
			side_one_wickets = excluded.side_one_wickets,
			side_one_sixes = excluded.side_one_sixes,
			side_one_fours = excluded.side_one_fours,
			side_one_dots = excluded.side_one_dots,
			side_two_runs = excluded.side_two_runs,
			side_two_wickets = excluded.side_two_wickets,
			side_two_sixes = excluded.side_two_sixes,
			side_two_fours = excluded.side_two_fours,
			side_two_dots = excluded.side_two_dots,
			total_overs = excluded.total_overs,
			match_duration = excluded.match_duration,
			weather_conditions = excluded.weather_conditions,
			pitch_conditions = excluded.pitch_conditions,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		r.ID, r.ChallengeID, r.Scores.Kind(),
		one.Runs, one.Wickets, one.Sixes, one.Fours, one.Dots,
		two.Runs, two.Wickets, two.Sixes, two.Fours, two.Dots,
		r.Details.TotalOvers, r.Details.DurationMinutes, r.Details.WeatherConditions, r.Details.PitchConditions,
		r.Details.Notes, r.CreatedBy, r.CreatedAt.Unix(), r.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save result for challenge %s: %w", c.ID, err)
	}
	if err := updateChallenge(ctx, tx, c); err != nil {
		return err
	}

	stored, err := scanResult(tx.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM match_results WHERE challenge_id = ?`, c.ID))
	if err != nil {
		return fmt.Errorf("failed to read back result for challenge %s: %w", c.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	*r = *stored
	c.Version++
	return nil
}

func (s *store) GetResult(ctx context.Context, challengeID string) (*result.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := scanResult(s.db.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM match_results WHERE challenge_id = ?`, challengeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result for challenge %s: %w", challengeID, err)
	}
	return r, nil
}

func (s *store) CompletedFor(ctx context.Context, playerID string) ([]Completed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return QueryCompleted(ctx, s.db, playerID)
}

// QueryCompleted reads the completed challenges playerID took part in,
// together with their results, most recent first. It runs on q so callers
// can read inside their own transaction.
func QueryCompleted(ctx context.Context, q database.Querier, playerID string) ([]Completed, error) {
	candidates, err := queryChallenges(ctx, q, `
		SELECT `+selectColumns+` FROM challenges
		WHERE status = ? AND ? IN (challenger_id, opponent_id, team1_batter_id, team1_bowler_id, team2_batter_id, team2_bowler_id)
		ORDER BY COALESCE(completed_at, scheduled_at, created_at) DESC, rowid DESC`,
		StatusCompleted, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed challenges for %s: %w", playerID, err)
	}

	// The challenger of a single-wicket challenge does not play unless they hold a slot.
	var completed []Completed
	var ids []any
	for _, c := range candidates {
		if c.IsParticipant(playerID) {
			completed = append(completed, Completed{Challenge: c})
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		return completed, nil
	}

	rows, err := q.QueryContext(ctx, `SELECT `+resultColumns+` FROM match_results WHERE challenge_id IN (?`+
		strings.Repeat(",?", len(ids)-1)+`)`, ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results for %s: %w", playerID, err)
	}
	defer rows.Close()

	results := make(map[string]*result.MatchResult, len(ids))
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results[r.ChallengeID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range completed {
		completed[i].Result = results[completed[i].Challenge.ID]
	}
	return completed, nil
}

func updateChallenge(ctx context.Context, q database.Querier, c *Challenge) error {
	res, err := q.ExecContext(ctx, `
		UPDATE challenges SET
			opponent_id = ?, winner_id = ?, winning_side = ?, status = ?,
			team1_batter_id = ?, team1_bowler_id = ?, team2_batter_id = ?, team2_bowler_id = ?,
			team1_batter_accepted = ?, team1_bowler_accepted = ?, team2_batter_accepted = ?, team2_bowler_accepted = ?,
			ground_id = ?, scheduled_at = ?, duration_minutes = ?, metric = ?, target_value = ?, over_count = ?,
			condition_text = ?, description = ?, accepted_at = ?, completed_at = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		database.NullString(c.OpponentID), database.NullString(c.WinnerID), int(c.WinningSide), c.Status,
		database.NullString(c.Lineup.Team1Batter.PlayerID), database.NullString(c.Lineup.Team1Bowler.PlayerID),
		database.NullString(c.Lineup.Team2Batter.PlayerID), database.NullString(c.Lineup.Team2Bowler.PlayerID),
		database.Bool(c.Lineup.Team1Batter.Accepted), database.Bool(c.Lineup.Team1Bowler.Accepted),
		database.Bool(c.Lineup.Team2Batter.Accepted), database.Bool(c.Lineup.Team2Bowler.Accepted),
		database.NullString(c.GroundID), database.NullUnix(c.ScheduledAt), c.DurationMinutes, c.Metric,
		database.NullInt(c.TargetValue), database.NullInt(c.OverCount), c.ConditionText, c.Description,
		database.NullUnix(c.AcceptedAt), database.NullUnix(c.CompletedAt),
		c.ID, c.Version)
	if err != nil {
		return fmt.Errorf("failed to update challenge %s: %w", c.ID, err)
	}
	return checkWritten(ctx, q, res, c, "update")
}

// checkWritten turns a compare-and-swap miss into ErrNotFound or a
// StateConflictError carrying the status found in the database.
func checkWritten(ctx context.Context, q database.Querier, res sql.Result, c *Challenge, ev Event) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var current Status
	err = q.QueryRowContext(ctx, `SELECT status FROM challenges WHERE id = ?`, c.ID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	log.Warn("Concurrent challenge modification", "challengeID", c.ID, "status", current)
	return &StateConflictError{
		ChallengeID: c.ID,
		From:        current,
		Event:       ev,
		Reason:      "the challenge was changed by someone else, reload and try again",
	}
}

func queryChallenges(ctx context.Context, q database.Querier, query string, args ...any) ([]*Challenge, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []*Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

func scanChallenge(scanner interface{ Scan(...any) error }) (*Challenge, error) {
	var (
		c                                    Challenge
		opponent, winner, ground             sql.NullString
		t1bat, t1bowl, t2bat, t2bowl         sql.NullString
		t1batOK, t1bowlOK, t2batOK, t2bowlOK int
		side                                 int
		target, overs                        sql.NullInt64
		scheduled, accepted, completed       sql.NullInt64
		createdAt                            int64
	)
	err := scanner.Scan(&c.ID, &c.ChallengerID, &opponent, &winner, &side, &c.Type, &c.Status,
		&t1bat, &t1bowl, &t2bat, &t2bowl, &t1batOK, &t1bowlOK, &t2batOK, &t2bowlOK,
		&ground, &scheduled, &c.DurationMinutes, &c.Metric, &target, &overs, &c.ConditionText, &c.Description,
		&createdAt, &accepted, &completed, &c.Version)
	if err != nil {
		return nil, err
	}
	c.OpponentID = database.StringPtr(opponent)
	c.WinnerID = database.StringPtr(winner)
	c.WinningSide = result.Side(side)
	c.Lineup = Lineup{
		Team1Batter: Assignment{PlayerID: database.StringPtr(t1bat), Accepted: t1batOK == 1},
		Team1Bowler: Assignment{PlayerID: database.StringPtr(t1bowl), Accepted: t1bowlOK == 1},
		Team2Batter: Assignment{PlayerID: database.StringPtr(t2bat), Accepted: t2batOK == 1},
		Team2Bowler: Assignment{PlayerID: database.StringPtr(t2bowl), Accepted: t2bowlOK == 1},
	}
	c.GroundID = database.StringPtr(ground)
	c.ScheduledAt = database.TimePtr(scheduled)
	c.TargetValue = database.IntPtr(target)
	c.OverCount = database.IntPtr(overs)
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	c.AcceptedAt = database.TimePtr(accepted)
	c.CompletedAt = database.TimePtr(completed)
	return &c, nil
}

func scanResult(scanner interface{ Scan(...any) error }) (*result.MatchResult, error) {
	var (
		r                    result.MatchResult
		kind                 result.Kind
		one, two             result.SideStats
		createdAt, updatedAt int64
	)
	err := scanner.Scan(&r.ID, &r.ChallengeID, &kind,
		&one.Runs, &one.Wickets, &one.Sixes, &one.Fours, &one.Dots,
		&two.Runs, &two.Wickets, &two.Sixes, &two.Fours, &two.Dots,
		&r.Details.TotalOvers, &r.Details.DurationMinutes, &r.Details.WeatherConditions, &r.Details.PitchConditions,
		&r.Details.Notes, &r.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	r.Scores = result.NewScores(kind, one, two)
	r.CreatedAt = time.Unix(createdAt, 0).UTC()
	r.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &r, nil
}
