package service

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// DefaultSessionTTL is how long an issued token stays valid.
const DefaultSessionTTL = 24 * time.Hour

// Session is an issued bearer token and the admin it authenticates.
type Session struct {
	Token     string
	AdminID   int64
	ExpiresAt time.Time
}

// SessionRegistry maps opaque tokens to admin identities. Sessions live only
// in process memory. Expired entries are evicted on lookup, or in bulk by
// Sweep.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionRegistry creates an empty registry. A non-positive ttl selects
// DefaultSessionTTL.
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionRegistry{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetClock overrides the time source. Intended for tests.
func (r *SessionRegistry) SetClock(now func() time.Time) {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}

// TTL returns the lifetime given to new sessions.
func (r *SessionRegistry) TTL() time.Duration {
	return r.ttl
}

// Issue mints a new token for adminID.
func (r *SessionRegistry) Issue(adminID int64) (Session, error) {
	token, err := newToken()
	if err != nil {
		return Session{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := Session{Token: token, AdminID: adminID, ExpiresAt: r.now().Add(r.ttl)}
	r.sessions[token] = s
	return s, nil
}

// Lookup returns the admin id for token. Unknown and expired tokens are
// indistinguishable; an expired entry is removed.
func (r *SessionRegistry) Lookup(token string) (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return 0, false
	}
	if !r.now().Before(s.ExpiresAt) {
		delete(r.sessions, token)
		return 0, false
	}
	return s.AdminID, true
}

// Revoke removes token if present.
func (r *SessionRegistry) Revoke(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// Sweep removes every expired session and returns how many were removed.
func (r *SessionRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for token, s := range r.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, including expired ones not yet
// evicted.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
