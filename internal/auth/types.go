package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotAdmin     = errors.New("admin privileges required")
)

const DefaultTokenTTL = 7 * 24 * time.Hour

// Actor is the authenticated caller of a request.
type Actor struct {
	PlayerID string `json:"player_id"`
	Admin    bool   `json:"admin"`
}

// Claims is the token payload. The subject holds the player id.
type Claims struct {
	Admin bool `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator signs and verifies HS256 bearer tokens.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}
