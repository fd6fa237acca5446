package rating

// Counters are the accumulated match totals a rating is derived from.
type Counters struct {
	MatchesPlayed int `json:"matches_played"`
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	Draws         int `json:"draws"`
	Runs          int `json:"runs"`
	Wickets       int `json:"wickets"`
}

// WinRate is wins over matches played, 0 when nothing was played.
func (c Counters) WinRate() float64 {
	if c.MatchesPlayed <= 0 {
		return 0
	}
	return float64(c.Wins) / float64(c.MatchesPlayed)
}

// Ratings holds the three derived rating scalars.
type Ratings struct {
	Overall float64 `json:"rating"`
	Batting float64 `json:"batting_rating"`
	Bowling float64 `json:"bowling_rating"`
}

// Calculator maps counters to ratings. Implementations must be pure.
type Calculator interface {
	Calculate(c Counters) Ratings
}
