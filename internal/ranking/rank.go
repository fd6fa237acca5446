package ranking

import "sort"

// Sort orders standings for board: rating descending, then matches played,
// then wins. Remaining ties fall back to the player id so the order is
// stable between requests.
func Sort(standings []Standing, board Board) {
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if sa, sb := a.Score(board), b.Score(board); sa != sb {
			return sa > sb
		}
		if a.MatchesPlayed != b.MatchesPlayed {
			return a.MatchesPlayed > b.MatchesPlayed
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.PlayerID < b.PlayerID
	})
}

// Rank drops players without a completed match, sorts the rest and assigns
// 1-based ranks. The input slice is not modified.
func Rank(standings []Standing, board Board) []Standing {
	ranked := make([]Standing, 0, len(standings))
	for _, s := range standings {
		if s.MatchesPlayed > 0 {
			ranked = append(ranked, s)
		}
	}
	Sort(ranked, board)
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// RankOf returns the player's rank on board, or nil when the player is
// unranked.
func RankOf(standings []Standing, board Board, playerID string) *int {
	for _, s := range Rank(standings, board) {
		if s.PlayerID == playerID {
			r := s.Rank
			return &r
		}
	}
	return nil
}
