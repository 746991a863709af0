// Package session holds the bearer token of the signed-in user.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"balance-dashboard/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken is returned by Claims when the session is empty.
var ErrNoToken = errors.New("session has no token")

// Session is the in-memory token slot. The zero value is an empty,
// unauthenticated session. It is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
}

// New returns a session holding token ("" for unauthenticated).
func New(token string) *Session {
	return &Session{token: token}
}

// Token returns the current token, or "" when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the token. An empty token signs the session out.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// IsAuthenticated reports whether a token is present.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Expire clears the token only if it is still the one observed when a
// request was issued. It returns true for the single caller that performed
// the clear, so concurrent 401s on the same token log out once.
func (s *Session) Expire(observed string) bool {
	if observed == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != observed {
		return false
	}
	s.token = ""
	return true
}

// Restore loads the persisted token into the session. It reports whether a
// token was found.
func (s *Session) Restore(ctx context.Context, store ports.TokenStore) (bool, error) {
	token, err := store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("loading persisted token: %w", err)
	}
	s.SetToken(token)
	return token != "", nil
}

// Claims is what the dashboard can read from the token without the signing
// key. Nothing here is verified; the backend stays the authority.
type Claims struct {
	Subject   string
	ExpiresAt time.Time // zero when the token carries no exp
}

// Expired reports whether the token's exp lies before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Claims decodes the token's sub and exp claims. Opaque (non-JWT) tokens
// yield an error; callers treat that as "unknown", not as signed out.
func (s *Session) Claims() (Claims, error) {
	token := s.Token()
	if token == "" {
		return Claims{}, ErrNoToken
	}

	var mc jwt.MapClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &mc); err != nil {
		return Claims{}, fmt.Errorf("parsing token: %w", err)
	}

	var c Claims
	c.Subject, _ = mc.GetSubject()
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
