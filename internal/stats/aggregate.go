package stats

import (
	"math"

	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/rating"
	"github.com/mauv0809/tampere-cricket/internal/result"
)

// Aggregate folds the player's completed challenges into counters. Matches
// the player did not play in, or that are not completed, are skipped. A
// missing result counts the match with zero runs and wickets.
func Aggregate(playerID string, completed []challenge.Completed) rating.Counters {
	var c rating.Counters
	for _, cc := range completed {
		ch := cc.Challenge
		if ch == nil || ch.Status != challenge.StatusCompleted || !ch.IsParticipant(playerID) {
			continue
		}
		c.MatchesPlayed++
		switch OutcomeFor(ch, playerID) {
		case OutcomeWin:
			c.Wins++
		case OutcomeLoss:
			c.Losses++
		default:
			c.Draws++
		}
		if cc.Result != nil {
			runs, wickets := Contribution(ch, playerID, cc.Result.Scores)
			c.Runs += runs
			c.Wickets += wickets
		}
	}
	return c
}

// Outcome is a completed match seen from one player.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// OutcomeFor credits single-wicket wins to the whole winning team and metric
// wins to the recorded winner.
func OutcomeFor(ch *challenge.Challenge, playerID string) Outcome {
	if ch.WinnerID == nil && ch.WinningSide == result.SideNone {
		return OutcomeDraw
	}
	if ch.Type == challenge.TypeSingleWicket && ch.WinningSide != result.SideNone {
		if ch.SideOf(playerID) == ch.WinningSide {
			return OutcomeWin
		}
		return OutcomeLoss
	}
	if ch.WinnerID != nil && *ch.WinnerID == playerID {
		return OutcomeWin
	}
	return OutcomeLoss
}

// Contribution returns the runs and wickets attributable to the player.
// In a single-wicket match the batter owns the team's runs and the bowler
// the team's wickets.
func Contribution(ch *challenge.Challenge, playerID string, scores result.Scores) (runs, wickets int) {
	if scores == nil {
		return 0, 0
	}
	one, two := scores.Sides()
	pick := func(side result.Side) result.SideStats {
		if side == result.SideOne {
			return one
		}
		return two
	}

	if ch.Type != challenge.TypeSingleWicket {
		side := ch.SideOf(playerID)
		if side == result.SideNone {
			return 0, 0
		}
		s := pick(side)
		return s.Runs, s.Wickets
	}
	for _, slot := range ch.Lineup.SlotsOf(playerID) {
		s := pick(slot.Team())
		if slot.Batter() {
			runs += s.Runs
		} else {
			wickets += s.Wickets
		}
	}
	return runs, wickets
}

// WinRatePercent is the win rate as a percentage rounded to one decimal.
func WinRatePercent(c rating.Counters) float64 {
	return math.Round(c.WinRate()*1000) / 10
}
