package handlers

import (
	"net/http"

	"github.com/mauv0809/tampere-cricket/internal/ranking"
)

// LeaderboardHandler serves ?board=&page=&page_size=&q=. Out of range pages
// are clamped rather than rejected.
func LeaderboardHandler(rankings *ranking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board := ranking.Board(r.URL.Query().Get("board"))
		if board != "" && !board.Valid() {
			respondError(w, http.StatusBadRequest, "board must be one of overall, batting or bowling")
			return
		}
		page, err := queryInt(r, "page", 1)
		if err != nil {
			writeError(w, r, err)
			return
		}
		size, err := queryInt(r, "page_size", ranking.DefaultPageSize)
		if err != nil {
			writeError(w, r, err)
			return
		}
		result, err := rankings.Leaderboard(r.Context(), ranking.Query{
			Board:    board,
			Page:     page,
			PageSize: size,
			Search:   r.URL.Query().Get("q"),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}
