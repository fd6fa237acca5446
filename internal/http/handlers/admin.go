package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tampere-cricket/internal/scheduler"
)

// RecomputeStatsHandler rebuilds one player's statistics when ?player_id= is
// given and every player's otherwise.
func RecomputeStatsHandler(jobs *scheduler.Jobs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id := r.URL.Query().Get("player_id"); id != "" {
			st, err := jobs.RecomputePlayer(r.Context(), id)
			if err != nil {
				writeError(w, r, err)
				return
			}
			respondJSON(w, http.StatusOK, st)
			return
		}
		n, err := jobs.RecomputeAll(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		log.Info("Statistics recomputed on request", "players", n, "by", actor(r).PlayerID)
		respondJSON(w, http.StatusOK, map[string]int{"recomputed": n})
	}
}

func RankSnapshotHandler(jobs *scheduler.Jobs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moved, err := jobs.Snapshot(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"moved": moved})
	}
}
