package result

// Determine picks the winning side for the recorded scores. metric and
// target only apply to Contest scores.
func Determine(scores Scores, metric Metric, target *int) Side {
	switch s := scores.(type) {
	case SingleWicket:
		return DetermineSingleWicket(s)
	case Contest:
		return DetermineContest(s, metric, target)
	default:
		return SideNone
	}
}

// DetermineSingleWicket compares the two batters' runs. Equal runs is a draw.
func DetermineSingleWicket(s SingleWicket) Side {
	switch {
	case s.Team1.Runs > s.Team2.Runs:
		return SideOne
	case s.Team2.Runs > s.Team1.Runs:
		return SideTwo
	default:
		return SideNone
	}
}

// DetermineContest applies the target rules in order: no target, both met,
// one met, neither met. Whenever the higher score decides, a tie goes to the
// opponent.
func DetermineContest(c Contest, metric Metric, target *int) Side {
	challenger := c.Challenger.Score(metric)
	opponent := c.Opponent.Score(metric)

	higher := func() Side {
		if challenger > opponent {
			return SideOne
		}
		return SideTwo
	}

	if target == nil {
		return higher()
	}
	challengerMet := challenger >= *target
	opponentMet := opponent >= *target
	switch {
	case challengerMet && opponentMet:
		return higher()
	case challengerMet:
		return SideOne
	case opponentMet:
		return SideTwo
	default:
		return higher()
	}
}
