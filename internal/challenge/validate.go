package challenge

import (
	"time"

	"github.com/mauv0809/tampere-cricket/internal/result"
)

const (
	DefaultDurationMinutes = 15
	MinDurationMinutes     = 15
	MaxDurationMinutes     = 300
	MinOvers               = 1
	MaxOvers               = 20
	MinTarget              = 1
	MaxTarget              = 100
)

func normalize(d *Draft) {
	if d.DurationMinutes == 0 {
		d.DurationMinutes = DefaultDurationMinutes
	}
	if d.Type == TypeSingleWicket && d.Metric == "" {
		d.Metric = result.MetricRuns
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// validateDraft checks every structural rule that does not need the
// database. now decides what "in the past" means.
func validateDraft(challengerID string, d Draft, now time.Time) error {
	if !d.Type.Valid() {
		return invalid("challenge_type", "must be one of SINGLE_WICKET, BATTING or BOWLING")
	}
	if d.OpponentID != nil && *d.OpponentID == challengerID {
		return invalid("opponent", "you cannot challenge yourself")
	}
	if d.ScheduledAt != nil && d.ScheduledAt.In(now.Location()).Before(startOfDay(now)) {
		return invalid("date", "challenge date cannot be in the past")
	}
	if d.DurationMinutes < MinDurationMinutes || d.DurationMinutes > MaxDurationMinutes {
		return invalid("duration_minutes", "must be between %d and %d", MinDurationMinutes, MaxDurationMinutes)
	}
	if d.OverCount != nil && (*d.OverCount < MinOvers || *d.OverCount > MaxOvers) {
		return invalid("over_count", "must be between %d and %d", MinOvers, MaxOvers)
	}
	if d.TargetValue != nil && (*d.TargetValue < MinTarget || *d.TargetValue > MaxTarget) {
		return invalid("target_value", "must be between %d and %d", MinTarget, MaxTarget)
	}

	if d.Type == TypeSingleWicket {
		return validateSingleWicket(d)
	}
	for _, slot := range Slots {
		if d.slotPlayer(slot) != nil {
			return invalid(string(slot), "only single-wicket challenges have team slots")
		}
	}
	if !d.Metric.Valid() {
		return invalid("metric", "must be one of runs, wickets, sixes, fours or dots")
	}
	return nil
}

func validateSingleWicket(d Draft) error {
	if d.OpponentID != nil {
		return invalid("opponent", "single-wicket challenges are played by team slots, not a single opponent")
	}
	if d.TargetValue != nil {
		return invalid("target_value", "single-wicket challenges are decided on runs and take no target")
	}
	if d.Metric != result.MetricRuns {
		return invalid("metric", "single-wicket challenges are decided on runs")
	}
	for _, one := range []Slot{SlotTeam1Batter, SlotTeam1Bowler} {
		for _, two := range []Slot{SlotTeam2Batter, SlotTeam2Bowler} {
			p1, p2 := d.slotPlayer(one), d.slotPlayer(two)
			if p1 != nil && p2 != nil && *p1 == *p2 {
				return invalid(string(one), "%s cannot be the same as %s", one.Label(), two.Label())
			}
		}
	}
	return nil
}

// validateResult checks that the submitted scores fit the challenge.
func validateResult(c *Challenge, in ResultInput) error {
	if in.Scores == nil {
		return invalid("scores", "are required")
	}
	want := result.KindMetric
	if c.Type == TypeSingleWicket {
		want = result.KindSingleWicket
	}
	if in.Scores.Kind() != want {
		return invalid("scores", "%s challenges need %s scores", c.Type, want)
	}
	one, two := in.Scores.Sides()
	for _, side := range []result.SideStats{one, two} {
		if side.Runs < 0 || side.Wickets < 0 || side.Sixes < 0 || side.Fours < 0 || side.Dots < 0 {
			return invalid("scores", "counters cannot be negative")
		}
	}
	if in.Details.TotalOvers < 0 || in.Details.DurationMinutes < 0 {
		return invalid("details", "overs and duration cannot be negative")
	}
	if in.ManualWinnerID != nil && !c.IsParticipant(*in.ManualWinnerID) {
		return invalid("winner", "must be a participant of the challenge")
	}
	return nil
}
