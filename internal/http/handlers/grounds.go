package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/tampere-cricket/internal/availability"
)

func ListGroundsHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		grounds, err := svc.Grounds(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		if grounds == nil {
			grounds = []*availability.Ground{}
		}
		respondJSON(w, http.StatusOK, map[string]any{"grounds": grounds})
	}
}

func CreateGroundHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groundRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		g := &availability.Ground{
			Name:        req.Name,
			Location:    req.Location,
			Capacity:    req.Capacity,
			Facilities:  req.Facilities,
			IsAvailable: !req.Closed,
		}
		if err := svc.CreateGround(r.Context(), g); err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, g)
	}
}

func AddSlotHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req slotRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		slot := &availability.TimeSlot{
			GroundID:    chi.URLParam(r, "id"),
			Date:        req.Date,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Price:       req.Price,
			IsAvailable: !req.Closed,
		}
		if err := svc.AddSlot(r.Context(), slot); err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, slot)
	}
}

// AvailabilityHandler lists the open windows of ?date=YYYY-MM-DD with their
// current load.
func AvailabilityHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := svc.Windows(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, day)
	}
}
