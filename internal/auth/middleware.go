package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
)

// Middleware authenticates a bearer token when one is present. Requests
// without an Authorization header pass through anonymously; a bad token is
// rejected with 401.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			deny(w, http.StatusUnauthorized, "authorization header must be a bearer token")
			return
		}
		actor, err := a.Parse(strings.TrimSpace(token))
		if err != nil {
			log.Debug("Rejected bearer token", "error", err, "path", r.URL.Path)
			deny(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireActor rejects anonymous requests.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFrom(r.Context()); !ok {
			deny(w, http.StatusUnauthorized, ErrUnauthorized.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous and non-admin requests.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFrom(r.Context())
		if !ok {
			deny(w, http.StatusUnauthorized, ErrUnauthorized.Error())
			return
		}
		if !actor.Admin {
			deny(w, http.StatusForbidden, ErrNotAdmin.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
