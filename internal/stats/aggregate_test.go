package stats_test

import (
	"testing"

	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/rating"
	"github.com/mauv0809/tampere-cricket/internal/result"
	"github.com/mauv0809/tampere-cricket/internal/stats"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func metricMatch(challenger, opponent string, winner *string, side result.Side, scores *result.Contest) challenge.Completed {
	c := challenge.Completed{Challenge: &challenge.Challenge{
		ID:           challenger + "-" + opponent,
		ChallengerID: challenger,
		OpponentID:   &opponent,
		WinnerID:     winner,
		WinningSide:  side,
		Type:         challenge.TypeBatting,
		Status:       challenge.StatusCompleted,
		Metric:       result.MetricRuns,
	}}
	if scores != nil {
		c.Result = &result.MatchResult{Scores: *scores}
	}
	return c
}

func TestAggregate_MetricChallenges(t *testing.T) {
	completed := []challenge.Completed{
		metricMatch("alice", "bob", ptr("alice"), result.SideOne, &result.Contest{
			Challenger: result.SideStats{Runs: 35, Wickets: 1},
			Opponent:   result.SideStats{Runs: 20, Wickets: 2},
		}),
		metricMatch("bob", "alice", ptr("bob"), result.SideOne, &result.Contest{
			Challenger: result.SideStats{Runs: 50},
			Opponent:   result.SideStats{Runs: 10, Wickets: 3},
		}),
		// Winner picked by an admin without scores.
		metricMatch("carol", "alice", ptr("alice"), result.SideTwo, nil),
	}

	got := stats.Aggregate("alice", completed)
	assert.Equal(t, rating.Counters{MatchesPlayed: 3, Wins: 2, Losses: 1, Runs: 45, Wickets: 4}, got)

	bob := stats.Aggregate("bob", completed)
	assert.Equal(t, rating.Counters{MatchesPlayed: 2, Wins: 1, Losses: 1, Runs: 70, Wickets: 2}, bob)
}

func TestAggregate_DrawIsItsOwnBucket(t *testing.T) {
	completed := []challenge.Completed{
		metricMatch("alice", "bob", nil, result.SideNone, &result.Contest{}),
	}
	got := stats.Aggregate("alice", completed)
	assert.Equal(t, 1, got.MatchesPlayed)
	assert.Equal(t, 1, got.Draws)
	assert.Zero(t, got.Wins)
	assert.Zero(t, got.Losses)
	assert.Equal(t, got.MatchesPlayed, got.Wins+got.Losses+got.Draws)
}

func TestAggregate_SkipsUnfinishedAndForeignChallenges(t *testing.T) {
	open := metricMatch("alice", "bob", nil, result.SideNone, nil)
	open.Challenge.Status = challenge.StatusAccepted

	got := stats.Aggregate("alice", []challenge.Completed{
		open,
		metricMatch("carol", "dave", ptr("carol"), result.SideOne, nil),
	})
	assert.Equal(t, rating.Counters{}, got)
}

func TestAggregate_SingleWicket(t *testing.T) {
	a, b, c, d := "a", "b", "c", "d"
	match := challenge.Completed{
		Challenge: &challenge.Challenge{
			ChallengerID: a,
			Type:         challenge.TypeSingleWicket,
			Status:       challenge.StatusCompleted,
			WinnerID:     &c,
			WinningSide:  result.SideTwo,
			Lineup: challenge.Lineup{
				Team1Batter: challenge.Assignment{PlayerID: &a, Accepted: true},
				Team1Bowler: challenge.Assignment{PlayerID: &b, Accepted: true},
				Team2Batter: challenge.Assignment{PlayerID: &c, Accepted: true},
				Team2Bowler: challenge.Assignment{PlayerID: &d, Accepted: true},
			},
		},
		Result: &result.MatchResult{Scores: result.SingleWicket{
			Team1: result.SideStats{Runs: 18, Wickets: 1},
			Team2: result.SideStats{Runs: 24, Wickets: 2},
		}},
	}
	completed := []challenge.Completed{match}

	assert.Equal(t, rating.Counters{MatchesPlayed: 1, Losses: 1, Runs: 18}, stats.Aggregate(a, completed))
	assert.Equal(t, rating.Counters{MatchesPlayed: 1, Losses: 1, Wickets: 1}, stats.Aggregate(b, completed))
	assert.Equal(t, rating.Counters{MatchesPlayed: 1, Wins: 1, Runs: 24}, stats.Aggregate(c, completed))
	assert.Equal(t, rating.Counters{MatchesPlayed: 1, Wins: 1, Wickets: 2}, stats.Aggregate(d, completed),
		"the winning team's bowler shares the win")
}

func TestWinRatePercent(t *testing.T) {
	assert.Equal(t, 0.0, stats.WinRatePercent(rating.Counters{}))
	assert.Equal(t, 66.7, stats.WinRatePercent(rating.Counters{MatchesPlayed: 3, Wins: 2}))
	assert.Equal(t, 50.0, stats.WinRatePercent(rating.Counters{MatchesPlayed: 4, Wins: 2}))
}
