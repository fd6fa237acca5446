package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/ranking"
	"github.com/mauv0809/tampere-cricket/internal/stats"
	"github.com/slack-go/slack"
)

// slackBoardSize is how many leaderboard entries a slash command reply shows.
const slackBoardSize = 10

// SlackFormatter renders slash command replies.
type SlackFormatter interface {
	FormatLeaderboardResponse(page *ranking.Page) slack.Message
	FormatPlayerStatsResponse(name string, st *stats.Statistics) slack.Message
	FormatPlayerNotFoundResponse(name string) slack.Message
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler answers "/leaderboard [overall|batting|bowling]".
func LeaderboardCommandHandler(rankings *ranking.Service, formatter SlackFormatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		board := ranking.Board(strings.ToLower(strings.TrimSpace(r.FormValue("text"))))
		if board != "" && !board.Valid() {
			http.Error(w, "Board must be one of overall, batting or bowling.", http.StatusBadRequest)
			return
		}

		page, err := rankings.Leaderboard(r.Context(), ranking.Query{Board: board, PageSize: slackBoardSize})
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard", "error", err)
			return
		}
		respondWithSlackMsg(w, formatter.FormatLeaderboardResponse(page))
	}
}

// PlayerStatsCommandHandler answers "/player-stats <username or name>".
func PlayerStatsCommandHandler(players player.Store, statsStore stats.Store, formatter SlackFormatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		name := strings.Join(strings.Fields(r.FormValue("text")), " ")
		if name == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player stats command", "player", name)
		all, err := players.List(r.Context(), false)
		if err != nil {
			http.Error(w, "Failed to look up player", http.StatusInternalServerError)
			log.Error("Failed to list players", "error", err)
			return
		}
		p := findPlayer(all, name)
		if p == nil {
			respondWithSlackMsg(w, formatter.FormatPlayerNotFoundResponse(name))
			return
		}

		st, err := statsStore.Get(r.Context(), p.ID)
		if errors.Is(err, player.ErrNotFound) {
			respondWithSlackMsg(w, formatter.FormatPlayerNotFoundResponse(name))
			return
		}
		if err != nil {
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			log.Error("Failed to get player stats", "player", p.ID, "error", err)
			return
		}
		respondWithSlackMsg(w, formatter.FormatPlayerStatsResponse(player.DisplayName(p), st))
	}
}

// findPlayer matches a username first, then a display name, ignoring case.
func findPlayer(players []*player.Player, name string) *player.Player {
	for _, p := range players {
		if strings.EqualFold(p.Username, name) {
			return p
		}
	}
	for _, p := range players {
		if strings.EqualFold(player.DisplayName(p), name) {
			return p
		}
	}
	return nil
}
