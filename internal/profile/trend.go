package profile

import (
	"math"
	"time"

	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/stats"
)

// Trend builds one point per day for the days ending today. Only matches
// played inside the window count, and each point carries the cumulative
// win rate up to and including its day.
func Trend(playerID string, completed []challenge.Completed, today time.Time, days int, loc *time.Location) []TrendPoint {
	if days < 1 {
		days = DefaultTrendDays
	}
	if loc == nil {
		loc = time.UTC
	}
	local := today.In(loc)
	first := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -(days - 1))

	type tally struct{ matches, wins int }
	perDay := make(map[string]tally)
	for _, cc := range completed {
		ch := cc.Challenge
		if ch == nil || ch.Status != challenge.StatusCompleted || !ch.IsParticipant(playerID) {
			continue
		}
		played := ch.PlayedAt().In(loc)
		if played.Before(first) {
			continue
		}
		key := played.Format(time.DateOnly)
		t := perDay[key]
		t.matches++
		if stats.OutcomeFor(ch, playerID) == stats.OutcomeWin {
			t.wins++
		}
		perDay[key] = t
	}

	points := make([]TrendPoint, 0, days)
	var matches, wins int
	for i := 0; i < days; i++ {
		key := first.AddDate(0, 0, i).Format(time.DateOnly)
		t := perDay[key]
		matches += t.matches
		wins += t.wins
		points = append(points, TrendPoint{Date: key, Matches: matches, Wins: wins, WinRate: percent(wins, matches)})
	}
	return points
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}

func perMatch(total, matches int) float64 {
	if matches == 0 {
		return 0
	}
	return math.Round(float64(total)/float64(matches)*100) / 100
}
