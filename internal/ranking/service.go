package ranking

import (
	"context"
	"fmt"
	"strings"
)

// Service answers leaderboard and rank queries. Ranks are computed from the
// current ratings on every read; the cache only holds rendered pages.
type Service struct {
	store Store
	cache Cache
}

// NewService creates a ranking service. A nil cache disables caching.
func NewService(store Store, cache Cache) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{store: store, cache: cache}
}

// Leaderboard returns one page of the ranked players matching q.Search.
// Out of range page numbers are clamped.
func (s *Service) Leaderboard(ctx context.Context, q Query) (*Page, error) {
	q = normalizeQuery(q)
	key := fmt.Sprintf("%s:%d:%d:%s", q.Board, q.Page, q.PageSize, strings.ToLower(q.Search))
	if page, ok := s.cache.Get(ctx, key); ok {
		return page, nil
	}

	standings, err := s.store.Standings(ctx)
	if err != nil {
		return nil, err
	}
	ranked := Rank(standings, q.Board)
	for i := range ranked {
		ranked[i].RankChange = q.Board.of(ranked[i].RankChanges)
	}
	matches := filter(ranked, q.Search)

	page := paginate(matches, q)
	page.Board = q.Board
	page.Query = q.Search
	s.cache.Set(ctx, key, page)
	return page, nil
}

// RankOf returns the player's current rank on board, or nil when unranked.
func (s *Service) RankOf(ctx context.Context, board Board, playerID string) (*int, error) {
	standings, err := s.store.Standings(ctx)
	if err != nil {
		return nil, err
	}
	return RankOf(standings, board, playerID), nil
}

// Snapshot stores the current ranks on every board as the new "previous"
// ranks, so the next snapshot can report movement.
func (s *Service) Snapshot(ctx context.Context) (SnapshotResult, error) {
	standings, err := s.store.Standings(ctx)
	if err != nil {
		return nil, err
	}
	res := make(SnapshotResult, len(Boards))
	for _, board := range Boards {
		ranks := make(map[string]int)
		for _, st := range Rank(standings, board) {
			ranks[st.PlayerID] = st.Rank
		}
		moved, err := s.store.SaveSnapshot(ctx, board, ranks)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot %s ranks: %w", board, err)
		}
		res[board] = moved
	}
	s.cache.Invalidate(ctx)
	return res, nil
}

// Invalidate drops cached leaderboard pages after ratings changed.
func (s *Service) Invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx)
}

func normalizeQuery(q Query) Query {
	if !q.Board.Valid() {
		q.Board = BoardOverall
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func filter(standings []Standing, search string) []Standing {
	if search == "" {
		return standings
	}
	needle := strings.ToLower(search)
	var out []Standing
	for _, st := range standings {
		if strings.Contains(strings.ToLower(st.Username), needle) ||
			strings.Contains(strings.ToLower(st.DisplayName), needle) {
			out = append(out, st)
		}
	}
	return out
}

func paginate(standings []Standing, q Query) *Page {
	total := len(standings)
	totalPages := (total + q.PageSize - 1) / q.PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	page := q.Page
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * q.PageSize
	end := start + q.PageSize
	if end > total {
		end = total
	}
	entries := make([]Standing, 0, end-start)
	if start < end {
		entries = append(entries, standings[start:end]...)
	}
	return &Page{
		Entries:    entries,
		Page:       page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
