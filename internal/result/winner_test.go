package result_test

import (
	"testing"

	"github.com/mauv0809/tampere-cricket/internal/result"
	"github.com/stretchr/testify/assert"
)

func target(v int) *int { return &v }

func TestDetermineContest(t *testing.T) {
	tests := []struct {
		name     string
		contest  result.Contest
		metric   result.Metric
		target   *int
		expected result.Side
	}{
		{
			name:     "target met by challenger with higher score",
			contest:  result.Contest{Challenger: result.SideStats{Runs: 35}, Opponent: result.SideStats{Runs: 20}},
			metric:   result.MetricRuns,
			target:   target(30),
			expected: result.SideOne,
		},
		{
			name:     "neither met target, higher score wins",
			contest:  result.Contest{Challenger: result.SideStats{Wickets: 2}, Opponent: result.SideStats{Wickets: 4}},
			metric:   result.MetricWickets,
			target:   target(5),
			expected: result.SideTwo,
		},
		{
			name:     "challenger exactly on target, opponent higher",
			contest:  result.Contest{Challenger: result.SideStats{Sixes: 3}, Opponent: result.SideStats{Sixes: 9}},
			metric:   result.MetricSixes,
			target:   target(3),
			expected: result.SideTwo,
		},
		{
			name:     "exactly one side met target wins outright",
			contest:  result.Contest{Challenger: result.SideStats{Fours: 6}, Opponent: result.SideStats{Fours: 5}},
			metric:   result.MetricFours,
			target:   target(6),
			expected: result.SideOne,
		},
		{
			name:     "both met target, higher wins",
			contest:  result.Contest{Challenger: result.SideStats{Dots: 8}, Opponent: result.SideStats{Dots: 12}},
			metric:   result.MetricDots,
			target:   target(6),
			expected: result.SideTwo,
		},
		{
			name:     "both met target and tied goes to opponent",
			contest:  result.Contest{Challenger: result.SideStats{Runs: 40}, Opponent: result.SideStats{Runs: 40}},
			metric:   result.MetricRuns,
			target:   target(30),
			expected: result.SideTwo,
		},
		{
			name:     "no target, higher wins",
			contest:  result.Contest{Challenger: result.SideStats{Runs: 12}, Opponent: result.SideStats{Runs: 11}},
			metric:   result.MetricRuns,
			expected: result.SideOne,
		},
		{
			name:     "no target, tie goes to opponent",
			contest:  result.Contest{Challenger: result.SideStats{Runs: 10}, Opponent: result.SideStats{Runs: 10}},
			metric:   result.MetricRuns,
			expected: result.SideTwo,
		},
		{
			name:     "unknown metric scores zero for both",
			contest:  result.Contest{Challenger: result.SideStats{Runs: 99}, Opponent: result.SideStats{Runs: 1}},
			metric:   result.Metric("catches"),
			expected: result.SideTwo,
		},
		{
			name:     "unknown metric with target is neither met",
			contest:  result.Contest{Challenger: result.SideStats{Runs: 99}, Opponent: result.SideStats{Runs: 1}},
			metric:   result.Metric(""),
			target:   target(1),
			expected: result.SideTwo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, result.DetermineContest(tt.contest, tt.metric, tt.target))
			assert.Equal(t, tt.expected, result.Determine(tt.contest, tt.metric, tt.target))
		})
	}
}

func TestDetermineSingleWicket(t *testing.T) {
	t.Run("team one batter scores more", func(t *testing.T) {
		s := result.SingleWicket{Team1: result.SideStats{Runs: 41}, Team2: result.SideStats{Runs: 40}}
		assert.Equal(t, result.SideOne, result.DetermineSingleWicket(s))
	})

	t.Run("team two batter scores more", func(t *testing.T) {
		s := result.SingleWicket{Team1: result.SideStats{Runs: 10, Wickets: 3}, Team2: result.SideStats{Runs: 11}}
		assert.Equal(t, result.SideTwo, result.DetermineSingleWicket(s))
	})

	t.Run("equal runs is a draw", func(t *testing.T) {
		s := result.SingleWicket{Team1: result.SideStats{Runs: 40}, Team2: result.SideStats{Runs: 40}}
		assert.Equal(t, result.SideNone, result.DetermineSingleWicket(s))
		assert.Equal(t, result.SideNone, result.Determine(s, result.MetricWickets, target(1)))
	})
}

func TestSideStats_Score(t *testing.T) {
	s := result.SideStats{Runs: 1, Wickets: 2, Sixes: 3, Fours: 4, Dots: 5}
	assert.Equal(t, 1, s.Score(result.MetricRuns))
	assert.Equal(t, 2, s.Score(result.MetricWickets))
	assert.Equal(t, 3, s.Score(result.MetricSixes))
	assert.Equal(t, 4, s.Score(result.MetricFours))
	assert.Equal(t, 5, s.Score(result.MetricDots))
	assert.Equal(t, 0, s.Score(result.Metric("overs")))
}

func TestNewScores(t *testing.T) {
	one := result.SideStats{Runs: 1}
	two := result.SideStats{Runs: 2}

	sw := result.NewScores(result.KindSingleWicket, one, two)
	assert.Equal(t, result.SingleWicket{Team1: one, Team2: two}, sw)

	c := result.NewScores(result.KindMetric, one, two)
	assert.Equal(t, result.Contest{Challenger: one, Opponent: two}, c)
	a, b := c.Sides()
	assert.Equal(t, one, a)
	assert.Equal(t, two, b)
}
