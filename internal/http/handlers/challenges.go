package handlers

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/processor"
	"github.com/mauv0809/tampere-cricket/internal/result"
)

type challengeList struct {
	Challenges []*challenge.Challenge `json:"challenges"`
	Counts     challenge.Counts       `json:"counts"`
	Total      int                    `json:"total"`
}

type challengeDetail struct {
	Challenge *challenge.Challenge `json:"challenge"`
	Result    *result.MatchResult  `json:"result,omitempty"`
}

// ListChallengesHandler lists challenges, optionally filtered by ?status=,
// together with the number of challenges in every status.
func ListChallengesHandler(challenges challenge.Lifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := challenge.Status(r.URL.Query().Get("status"))
		list, err := challenges.List(r.Context(), status)
		if err != nil {
			writeError(w, r, err)
			return
		}
		counts, err := challenges.Counts(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		if list == nil {
			list = []*challenge.Challenge{}
		}
		respondJSON(w, http.StatusOK, challengeList{Challenges: list, Counts: counts, Total: counts.Total()})
	}
}

func GetChallengeHandler(challenges challenge.Lifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		c, err := challenges.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		res, err := challenges.Result(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, challengeDetail{Challenge: c, Result: res})
	}
}

func CreateChallengeHandler(proc *processor.Processor, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req challengeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		d, err := req.draft(loc)
		if err != nil {
			writeError(w, r, err)
			return
		}
		c, err := proc.Create(r.Context(), actor(r).PlayerID, d)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, c)
	}
}

func EditChallengeHandler(proc *processor.Processor, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req challengeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		d, err := req.draft(loc)
		if err != nil {
			writeError(w, r, err)
			return
		}
		c, err := proc.Edit(r.Context(), chi.URLParam(r, "id"), actor(r).PlayerID, d)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}

func DeleteChallengeHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := proc.Delete(r.Context(), chi.URLParam(r, "id"), actor(r).PlayerID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func AcceptChallengeHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := proc.Accept(r.Context(), chi.URLParam(r, "id"), actor(r).PlayerID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}

// AcceptSlotHandler accepts (or claims) one single-wicket slot.
func AcceptSlotHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot := challenge.Slot(chi.URLParam(r, "slot"))
		c, err := proc.AcceptSlot(r.Context(), chi.URLParam(r, "id"), slot, actor(r).PlayerID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}

func DeclineChallengeHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := proc.Decline(r.Context(), chi.URLParam(r, "id"), actor(r).PlayerID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}

func CancelChallengeHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := actor(r)
		c, err := proc.Cancel(r.Context(), chi.URLParam(r, "id"), a.PlayerID, a.Admin)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}

// RecordResultHandler stores an admin submitted result and completes the
// challenge.
func RecordResultHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resultRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		in, err := req.input()
		if err != nil {
			writeError(w, r, err)
			return
		}
		id := chi.URLParam(r, "id")
		c, res, err := proc.RecordResult(r.Context(), id, actor(r).PlayerID, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		log.Info("Result recorded", "challengeID", id, "status", c.Status)
		respondJSON(w, http.StatusOK, challengeDetail{Challenge: c, Result: res})
	}
}

// SelectWinnerHandler completes a challenge with an admin chosen winner and
// no scores.
func SelectWinnerHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req winnerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		c, err := proc.SelectWinner(r.Context(), chi.URLParam(r, "id"), actor(r).PlayerID, req.WinnerID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}
