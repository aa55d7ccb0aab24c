package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionTTL is how long an idle server-side session is kept.
const SessionTTL = 24 * time.Hour

// Session is the request-scoped mutable bag shared by the auth gate and
// the CSRF layer. ReturnTo holds the path to resume after login; CSRFToken
// is generated once and reused for the session's lifetime.
type Session struct {
	ID        string
	ReturnTo  string
	CSRFToken string
	lastSeen  time.Time
}

// SessionStore keeps sessions in process memory, keyed by a random uuid
// carried in a cookie. State is lost on restart, which is acceptable: the
// only contents are a redirect hint and a CSRF token.
//
// It is safe for concurrent use; per-session mutation goes through the
// store so a single mutex guards the map and its entries.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a SessionStore and starts a background goroutine
// that evicts idle sessions.
func NewSessionStore() *SessionStore {
	st := NewSessionStoreWithClock(time.Now)
	go st.cleanup()
	return st
}

// NewSessionStoreWithClock is like NewSessionStore but with an explicit
// clock and no background cleanup, for deterministic tests.
func NewSessionStoreWithClock(now func() time.Time) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      SessionTTL,
		now:      now,
	}
}

// Create allocates a new session with a fresh random id.
func (st *SessionStore) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s := &Session{
		ID:       uuid.NewString(),
		lastSeen: st.now(),
	}
	st.sessions[s.ID] = s
	return s
}

// Get returns the session for the given id, or nil if it does not exist
// or has idled out. A hit refreshes the idle deadline.
func (st *SessionStore) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil
	}
	if st.now().Sub(s.lastSeen) > st.ttl {
		delete(st.sessions, id)
		return nil
	}
	s.lastSeen = st.now()
	return s
}

// SetReturnTo records the path to redirect to after a successful login.
func (st *SessionStore) SetReturnTo(id, path string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		s.ReturnTo = path
	}
}

// PopReturnTo returns and clears the recorded post-login path.
func (st *SessionStore) PopReturnTo(id string) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return ""
	}
	path := s.ReturnTo
	s.ReturnTo = ""
	return path
}

// EnsureCSRFToken returns the session's CSRF token, generating a
// 32-byte hex-encoded random value on first use. Idempotent per session.
func (st *SessionStore) EnsureCSRFToken(id string) (string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return "", fmt.Errorf("session %s not found", id)
	}
	if s.CSRFToken != "" {
		return s.CSRFToken, nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	s.CSRFToken = hex.EncodeToString(buf)
	return s.CSRFToken, nil
}

// CSRFToken returns the session's current CSRF token, or "" if the
// session is unknown or has none yet.
func (st *SessionStore) CSRFToken(id string) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		return s.CSRFToken
	}
	return ""
}

// cleanup runs periodically and evicts sessions past the idle deadline.
func (st *SessionStore) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	for range ticker.C {
		st.mu.Lock()
		cutoff := st.now().Add(-st.ttl)
		for id, s := range st.sessions {
			if s.lastSeen.Before(cutoff) {
				delete(st.sessions, id)
			}
		}
		st.mu.Unlock()
	}
}
