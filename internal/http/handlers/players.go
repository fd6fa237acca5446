package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/tampere-cricket/internal/auth"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/profile"
	"github.com/mauv0809/tampere-cricket/internal/stats"
)

// Invalidator drops cached leaderboard pages.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type registration struct {
	Player *player.Player `json:"player"`
	Token  string         `json:"token"`
}

// CreatePlayerHandler registers a player and returns a bearer token for it.
func CreatePlayerHandler(players player.Store, authenticator *auth.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		p := req.player()
		if err := players.Create(r.Context(), p); err != nil {
			writeError(w, r, err)
			return
		}
		token, err := authenticator.Issue(p.ID, p.IsAdmin)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, registration{Player: p, Token: token})
	}
}

// DeletePlayerHandler soft-deletes a player. Their history stays, their
// username is freed and they drop off the leaderboard.
func DeletePlayerHandler(players player.Store, leaderboard Invalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := players.SoftDelete(r.Context(), chi.URLParam(r, "id"), time.Now())
		if err != nil {
			writeError(w, r, err)
			return
		}
		leaderboard.Invalidate(r.Context())
		log.Info("Player deleted", "playerID", p.ID, "by", actor(r).PlayerID)
		respondJSON(w, http.StatusOK, p)
	}
}

func ProfileHandler(profiles *profile.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prof, err := profiles.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, prof)
	}
}

// PlayerStatsHandler returns the stored statistics without recomputing them.
func PlayerStatsHandler(store stats.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, st)
	}
}
