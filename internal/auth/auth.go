package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "tampere-cricket"

// New creates an Authenticator. A non-positive ttl falls back to DefaultTokenTTL.
func New(secret string, ttl time.Duration) *Authenticator {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Authenticator{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}
}

// WithClock replaces the clock used for issuing and validating tokens.
func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	a.now = now
	return a
}

// Issue signs a token for playerID.
func (a *Authenticator) Issue(playerID string, admin bool) (string, error) {
	if playerID == "" {
		return "", errors.New("player id is required")
	}
	now := a.now()
	claims := &Claims{
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Parse validates a token and returns its Actor. Every failure wraps
// ErrUnauthorized.
func (a *Authenticator) Parse(tokenString string) (*Actor, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token is empty", ErrUnauthorized)
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	},
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: token has expired", ErrUnauthorized)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: token signature is invalid", ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: could not parse token: %v", ErrUnauthorized, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: token is invalid", ErrUnauthorized)
	}
	return &Actor{PlayerID: claims.Subject, Admin: claims.Admin}, nil
}

type contextKey struct{}

// WithActor returns a context carrying a.
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// ActorFrom returns the request's actor, if it was authenticated.
func ActorFrom(ctx context.Context) (*Actor, bool) {
	a, ok := ctx.Value(contextKey{}).(*Actor)
	return a, ok && a != nil
}
