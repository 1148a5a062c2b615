package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

var (
	ErrNoSession = errors.New("no active session")
	ErrExpired   = errors.New("session expired")
)

// Session is the logged-in user and the bearer token the remote API issued.
// A zero ExpiresAt means the token carries no expiry.
type Session struct {
	Token     string
	User      ledger.User
	ExpiresAt time.Time
}

// claims are the fields read from the token payload. The remote API signs and
// verifies tokens; the client only inspects them.
type claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// New builds a session for a freshly issued token. Missing user fields are
// filled from the token claims when present.
func New(token string, user ledger.User) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}

	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return Session{}, fmt.Errorf("parsing session token: %w", err)
	}

	if user.Name == "" {
		user.Name = c.Name
	}

	if user.Email == "" {
		user.Email = c.Email
	}

	s := Session{Token: token, User: user}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}

	return s, nil
}

// FromToken rebuilds a session from a bearer token alone. The user id is the
// numeric subject claim.
func FromToken(token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}

	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrNoSession, err)
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return Session{}, fmt.Errorf("%w: token subject %q is not a user id", ErrNoSession, c.Subject)
	}

	return New(token, ledger.User{ID: id})
}

// Valid returns ErrNoSession for an empty session and ErrExpired once the
// token expiry has passed.
func (s Session) Valid(now time.Time) error {
	if s.Token == "" {
		return ErrNoSession
	}

	if !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt) {
		return ErrExpired
	}

	return nil
}

type ctxKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
