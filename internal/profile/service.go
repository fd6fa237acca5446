package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/ranking"
	"github.com/mauv0809/tampere-cricket/internal/stats"
)

// Service assembles player profiles. Statistics are recomputed on every read
// so a profile never shows stale counters. A recompute that moves the stored
// counters or ratings drops the cached leaderboard pages.
type Service struct {
	players   PlayerGetter
	stats     Recomputer
	ranks     Ranker
	history   History
	trendDays int
	loc       *time.Location
	now       func() time.Time
}

func NewService(players PlayerGetter, stats Recomputer, ranks Ranker, history History, trendDays int, loc *time.Location) *Service {
	if trendDays < 1 {
		trendDays = DefaultTrendDays
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		players:   players,
		stats:     stats,
		ranks:     ranks,
		history:   history,
		trendDays: trendDays,
		loc:       loc,
		now:       time.Now,
	}
}

// WithClock replaces the clock that anchors the trend window.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Get(ctx context.Context, playerID string) (*Profile, error) {
	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	before, err := s.stats.Get(ctx, playerID)
	if err != nil && !errors.Is(err, player.ErrNotFound) {
		return nil, err
	}
	st, err := s.stats.Recompute(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh statistics for %s: %w", playerID, err)
	}
	if before == nil || before.Counters != st.Counters || before.Ratings != st.Ratings {
		log.Info("Statistics drifted on read, dropping cached leaderboards", "playerID", playerID)
		s.ranks.Invalidate(ctx)
	}
	completed, err := s.history.CompletedFor(ctx, playerID)
	if err != nil {
		return nil, err
	}

	prof := &Profile{
		Player:             p,
		Statistics:         st,
		Ranks:              make(map[ranking.Board]*int, len(ranking.Boards)),
		RecentMatches:      []Match{},
		Trend:              Trend(playerID, completed, s.now(), s.trendDays, s.loc),
		AvgRunsPerMatch:    perMatch(st.Runs, st.MatchesPlayed),
		AvgWicketsPerMatch: perMatch(st.Wickets, st.MatchesPlayed),
	}
	prof.ProfileComplete, prof.MissingField = player.ProfileComplete(p)

	for _, board := range ranking.Boards {
		r, err := s.ranks.RankOf(ctx, board, playerID)
		if err != nil {
			return nil, err
		}
		prof.Ranks[board] = r
	}
	prof.Rank = prof.Ranks[ranking.BoardOverall]

	for _, cc := range completed {
		if len(prof.RecentMatches) == RecentLimit {
			break
		}
		ch := cc.Challenge
		if !ch.IsParticipant(playerID) {
			continue
		}
		m := Match{
			ChallengeID: ch.ID,
			Type:        ch.Type,
			WinnerID:    ch.WinnerID,
			Outcome:     stats.OutcomeFor(ch, playerID),
			PlayedAt:    ch.PlayedAt(),
		}
		side := ch.SideOf(playerID)
		for _, id := range ch.Participants() {
			if id != playerID && ch.SideOf(id) != side {
				m.Opponents = append(m.Opponents, id)
			}
		}
		if cc.Result != nil {
			m.Runs, m.Wickets = stats.Contribution(ch, playerID, cc.Result.Scores)
		}
		prof.RecentMatches = append(prof.RecentMatches, m)
	}

	log.Debug("Profile assembled", "playerID", playerID, "matches", st.MatchesPlayed, "recent", len(prof.RecentMatches))
	return prof, nil
}
