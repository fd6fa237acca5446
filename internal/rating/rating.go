package rating

var _ Calculator = Blend{}

// Blend rewards participation, raw totals and win rate. It is not an Elo:
// every scalar is zero until the player has something to show for it.
type Blend struct{}

// Default returns the calculator used across the application.
func Default() Calculator {
	return Blend{}
}

// Calculate is shorthand for Default().Calculate(c).
func Calculate(c Counters) Ratings {
	return Blend{}.Calculate(c)
}

func (Blend) Calculate(c Counters) Ratings {
	if c.MatchesPlayed <= 0 {
		return Ratings{}
	}
	matches := float64(c.MatchesPlayed)
	winRate := c.WinRate()
	runs := float64(c.Runs)
	wickets := float64(c.Wickets)

	var r Ratings
	if c.Runs > 0 {
		r.Batting = 300 + 0.2*runs + 5*(runs/matches) + 100*winRate
	}
	if c.Wickets > 0 {
		r.Bowling = 300 + 3*wickets + 8*(wickets/matches) + 100*winRate
	}
	if c.Wins > 0 || c.Runs > 0 || c.Wickets > 0 {
		r.Overall = 400 + 50*float64(c.Wins) + 0.1*runs + 2*wickets + 200*winRate
	}
	return r
}
