// Package session replaces the front end's old module-level token with an
// explicit session value: created on login, invalidated on logout or the
// first 401, and passed into the API client rather than read from globals.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jwalitptl/clinic-client/internal/model"
)

// Session holds the bearer token and the identity it was issued for
type Session struct {
	Token     string
	UserID    int
	Email     string
	ExpiresAt time.Time
}

// FromToken builds a session by introspecting the JWT claims. The client is
// not the token issuer and has no key, so the signature is not verified and
// claim extraction is best-effort; the claims are used only to know when to
// prompt for a fresh login. An opaque non-JWT token yields a session with
// no expiry, trusted until the backend rejects it.
func FromToken(token string, user model.User) *Session {
	s := &Session{
		Token:  token,
		UserID: user.ID,
		Email:  user.Email,
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return s
	}

	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}
	if s.Email == "" {
		if sub, err := parsed.Claims.GetSubject(); err == nil {
			s.Email = sub
		}
	}

	return s
}

// Valid reports whether the session can still authenticate requests. A zero
// expiry means the token carried no exp claim and is trusted until the
// backend rejects it.
func (s *Session) Valid() bool {
	if s == nil || s.Token == "" {
		return false
	}
	if s.ExpiresAt.IsZero() {
		return true
	}
	return time.Now().Before(s.ExpiresAt)
}

// Store is the single holder of the current session, safe for concurrent
// use by the client's request paths.
type Store struct {
	mu      sync.RWMutex
	current *Session
}

func NewStore() *Store {
	return &Store{}
}

// Set installs a new session, replacing any previous one
func (st *Store) Set(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = s
}

// Current returns the active session, or nil when logged out
func (st *Store) Current() *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// Token returns the bearer token of the active session, empty when logged out
func (st *Store) Token() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.current == nil {
		return ""
	}
	return st.current.Token
}

// Invalidate drops the current session. Called on logout and on the first
// 401 from the backend.
func (st *Store) Invalidate() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = nil
}
