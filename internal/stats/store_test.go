package stats_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/database"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/rating"
	"github.com/mauv0809/tampere-cricket/internal/result"
	"github.com/mauv0809/tampere-cricket/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db         *sql.DB
	stats      stats.Store
	players    player.Store
	challenges challenge.Store
}

func setupTestDB(t *testing.T) *testEnv {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err, "Failed to initialize test database")
	t.Cleanup(teardown)
	return &testEnv{
		db:         db,
		stats:      stats.New(db, nil),
		players:    player.New(db),
		challenges: challenge.New(db),
	}
}

func (e *testEnv) addPlayer(t *testing.T, username string) string {
	t.Helper()
	p := &player.Player{Username: username}
	require.NoError(t, e.players.Create(context.Background(), p))
	return p.ID
}

// addCompleted stores a completed batting challenge and, when scores are
// given, its result.
func (e *testEnv) addCompleted(t *testing.T, challenger, opponent string, winner *string, scores *result.Contest) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	side := result.SideNone
	if winner != nil && *winner == challenger {
		side = result.SideOne
	} else if winner != nil {
		side = result.SideTwo
	}
	c := &challenge.Challenge{
		ChallengerID:    challenger,
		OpponentID:      &opponent,
		WinnerID:        winner,
		WinningSide:     side,
		Type:            challenge.TypeBatting,
		Status:          challenge.StatusCompleted,
		Metric:          result.MetricRuns,
		DurationMinutes: challenge.DefaultDurationMinutes,
		CompletedAt:     &now,
	}
	require.NoError(t, e.challenges.Create(ctx, c))
	if scores != nil {
		r := &result.MatchResult{Scores: *scores, CreatedBy: challenger, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, e.challenges.SaveResult(ctx, c, r))
	}
}

func TestRecompute(t *testing.T) {
	ctx := context.Background()
	env := setupTestDB(t)
	alice, bob := env.addPlayer(t, "alice"), env.addPlayer(t, "bob")

	env.addCompleted(t, alice, bob, &alice, &result.Contest{
		Challenger: result.SideStats{Runs: 60, Wickets: 2},
		Opponent:   result.SideStats{Runs: 40, Wickets: 1},
	})
	env.addCompleted(t, bob, alice, &alice, &result.Contest{
		Challenger: result.SideStats{Runs: 10, Wickets: 0},
		Opponent:   result.SideStats{Runs: 40, Wickets: 4},
	})
	env.addCompleted(t, alice, bob, &bob, nil)
	env.addCompleted(t, bob, alice, &bob, nil)

	st, err := env.stats.Recompute(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, rating.Counters{MatchesPlayed: 4, Wins: 2, Losses: 2, Runs: 100, Wickets: 6}, st.Counters)
	assert.Equal(t, 50.0, st.WinRate)
	assert.Equal(t, rating.Calculate(st.Counters), st.Ratings)
	assert.InDelta(t, 622.0, st.Overall, 1e-9)
	assert.InDelta(t, 495.0, st.Batting, 1e-9)
	assert.InDelta(t, 380.0, st.Bowling, 1e-9)

	stored, err := env.stats.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, st.Counters, stored.Counters)
}

func TestRecompute_Idempotent(t *testing.T) {
	ctx := context.Background()
	env := setupTestDB(t)
	alice, bob := env.addPlayer(t, "alice"), env.addPlayer(t, "bob")
	env.addCompleted(t, alice, bob, &alice, &result.Contest{Challenger: result.SideStats{Runs: 12}})

	first, err := env.stats.Recompute(ctx, alice)
	require.NoError(t, err)
	second, err := env.stats.Recompute(ctx, alice)
	require.NoError(t, err)

	assert.Equal(t, first.Counters, second.Counters)
	assert.Equal(t, first.Ratings, second.Ratings)
}

func TestRecompute_ConvergesFromAnyStartingState(t *testing.T) {
	ctx := context.Background()
	env := setupTestDB(t)
	alice, bob := env.addPlayer(t, "alice"), env.addPlayer(t, "bob")
	env.addCompleted(t, alice, bob, &bob, &result.Contest{Opponent: result.SideStats{Runs: 30, Wickets: 1}})

	fresh, err := env.stats.Recompute(ctx, bob)
	require.NoError(t, err)

	// Corrupt the stored record as an incremental updater gone wrong would.
	_, err = env.db.Exec(`UPDATE player_stats SET matches_played = 99, wins = 42, runs = 7, rating = 1234.5 WHERE player_id = ?`, bob)
	require.NoError(t, err)

	again, err := env.stats.Recompute(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, fresh.Counters, again.Counters)
	assert.Equal(t, fresh.Ratings, again.Ratings)
}

func TestRecompute_BackfillsMissingRow(t *testing.T) {
	ctx := context.Background()
	env := setupTestDB(t)
	alice := env.addPlayer(t, "alice")
	_, err := env.db.Exec(`DELETE FROM player_stats WHERE player_id = ?`, alice)
	require.NoError(t, err)

	st, err := env.stats.Recompute(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, st.MatchesPlayed)
	assert.Equal(t, rating.Ratings{}, st.Ratings, "no matches means zero ratings")
}

func TestRecompute_UnknownPlayer(t *testing.T) {
	env := setupTestDB(t)
	_, err := env.stats.Recompute(context.Background(), "ghost")
	assert.ErrorIs(t, err, player.ErrNotFound)
}

func TestRecomputeAll(t *testing.T) {
	ctx := context.Background()
	env := setupTestDB(t)
	alice, bob, carol := env.addPlayer(t, "alice"), env.addPlayer(t, "bob"), env.addPlayer(t, "carol")
	env.addCompleted(t, alice, bob, &alice, &result.Contest{Challenger: result.SideStats{Runs: 20}})
	env.addCompleted(t, carol, bob, &carol, nil)

	n, err := env.stats.RecomputeAll(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for id, want := range map[string]rating.Counters{
		alice: {MatchesPlayed: 1, Wins: 1, Runs: 20},
		bob:   {MatchesPlayed: 2, Losses: 2},
		carol: {MatchesPlayed: 1, Wins: 1},
	} {
		st, err := env.stats.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, st.Counters)
	}
}
