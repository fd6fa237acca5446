package result

import "time"

// Metric is the statistic a batting or bowling challenge is scored against.
type Metric string

const (
	MetricRuns    Metric = "runs"
	MetricWickets Metric = "wickets"
	MetricSixes   Metric = "sixes"
	MetricFours   Metric = "fours"
	MetricDots    Metric = "dots"
)

// Metrics lists every recognised metric.
var Metrics = []Metric{MetricRuns, MetricWickets, MetricSixes, MetricFours, MetricDots}

// Valid reports whether m is a recognised metric.
func (m Metric) Valid() bool {
	for _, known := range Metrics {
		if m == known {
			return true
		}
	}
	return false
}

// SideStats are the counters recorded for one side of a match.
type SideStats struct {
	Runs    int `json:"runs" msgpack:"runs"`
	Wickets int `json:"wickets" msgpack:"wickets"`
	Sixes   int `json:"sixes" msgpack:"sixes"`
	Fours   int `json:"fours" msgpack:"fours"`
	Dots    int `json:"dots" msgpack:"dots"`
}

// Score returns the counter selected by m. Unknown metrics score 0.
func (s SideStats) Score(m Metric) int {
	switch m {
	case MetricRuns:
		return s.Runs
	case MetricWickets:
		return s.Wickets
	case MetricSixes:
		return s.Sixes
	case MetricFours:
		return s.Fours
	case MetricDots:
		return s.Dots
	default:
		return 0
	}
}

// Kind discriminates the Scores union.
type Kind string

const (
	KindSingleWicket Kind = "SINGLE_WICKET"
	KindMetric       Kind = "METRIC"
)

// Scores is either SingleWicket or Contest.
type Scores interface {
	Kind() Kind
	// Sides returns side one and side two in storage order.
	Sides() (SideStats, SideStats)
}

// SingleWicket holds the two teams' counters. Runs belong to the team's
// batter, wickets and dots to the team's bowler.
type SingleWicket struct {
	Team1 SideStats `json:"team1"`
	Team2 SideStats `json:"team2"`
}

func (SingleWicket) Kind() Kind { return KindSingleWicket }

func (s SingleWicket) Sides() (SideStats, SideStats) { return s.Team1, s.Team2 }

// Contest holds challenger and opponent counters for a metric challenge.
type Contest struct {
	Challenger SideStats `json:"challenger"`
	Opponent   SideStats `json:"opponent"`
}

func (Contest) Kind() Kind { return KindMetric }

func (c Contest) Sides() (SideStats, SideStats) { return c.Challenger, c.Opponent }

// NewScores rebuilds a Scores value from its stored form.
func NewScores(kind Kind, one, two SideStats) Scores {
	if kind == KindSingleWicket {
		return SingleWicket{Team1: one, Team2: two}
	}
	return Contest{Challenger: one, Opponent: two}
}

// Details is the match context recorded alongside the scores.
type Details struct {
	TotalOvers        int    `json:"total_overs"`
	DurationMinutes   int    `json:"match_duration"`
	WeatherConditions string `json:"weather_conditions"`
	PitchConditions   string `json:"pitch_conditions"`
	Notes             string `json:"notes"`
}

// MatchResult is the recorded outcome of one challenge.
type MatchResult struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challenge_id"`
	Scores      Scores    `json:"scores"`
	Details     Details   `json:"details"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Side identifies which side of a match won. SideOne is the challenger in a
// metric challenge and team 1 in a single-wicket challenge.
type Side int

const (
	SideNone Side = iota
	SideOne
	SideTwo
)

func (s Side) String() string {
	switch s {
	case SideOne:
		return "one"
	case SideTwo:
		return "two"
	default:
		return "none"
	}
}
