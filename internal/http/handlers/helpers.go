package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/mauv0809/tampere-cricket/internal/auth"
	"github.com/mauv0809/tampere-cricket/internal/availability"
	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/player"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type errorResponse struct {
	Error               string            `json:"error"`
	Fields              map[string]string `json:"fields,omitempty"`
	BlockingChallengeID string            `json:"blocking_challenge_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// writeError maps domain errors onto status codes. Anything unrecognised is
// logged and reported as an internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		admission *challenge.AdmissionLimitError
		invalid   *requestError
	)
	switch {
	case errors.As(err, &invalid):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: invalid.Error(), Fields: invalid.fields})
	case errors.As(err, &admission):
		respondJSON(w, http.StatusConflict, errorResponse{Error: admission.Error(), BlockingChallengeID: admission.BlockingChallengeID})
	case errors.Is(err, challenge.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, challenge.ErrStateConflict), errors.Is(err, player.ErrUsernameTaken):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, challenge.ErrNotFound), errors.Is(err, player.ErrNotFound), errors.Is(err, availability.ErrGroundNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, challenge.ErrForbidden), errors.Is(err, auth.ErrNotAdmin):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, auth.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		log.Error("Request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requestError is a malformed request body.
type requestError struct {
	msg    string
	fields map[string]string
}

func (e *requestError) Error() string { return e.msg }

// decodeJSON reads a JSON body into v and validates its struct tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &requestError{msg: fmt.Sprintf("invalid request body: %v", err)}
	}
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return &requestError{msg: "validation failed", fields: fieldErrors(ve)}
		}
		return err
	}
	return nil
}

func fieldErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "min", "gte":
			msg = "must be at least " + fe.Param()
		case "max", "lte":
			msg = "must not exceed " + fe.Param()
		case "oneof":
			msg = "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
		case "datetime":
			msg = "must match " + fe.Param()
		default:
			msg = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		}
		out[fe.Field()] = msg
	}
	return out
}

// actor returns the authenticated caller. Routes using it sit behind
// auth.RequireActor.
func actor(r *http.Request) *auth.Actor {
	a, ok := auth.ActorFrom(r.Context())
	if !ok {
		return &auth.Actor{}
	}
	return a
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &requestError{msg: fmt.Sprintf("%s must be a number", name)}
	}
	return n, nil
}
