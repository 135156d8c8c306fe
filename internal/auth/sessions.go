package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Lockout policy: this many consecutive failures locks the username out.
const (
	MaxLoginAttempts = 6
	LockoutPeriod    = 15 * time.Minute
)

// DefaultSessionTTL applies when the configuration leaves the TTL unset.
const DefaultSessionTTL = 12 * time.Hour

// ErrLockedOut is returned while a username is in its lockout window.
var ErrLockedOut = errors.New("too many failed attempts, account temporarily locked")

// Session ties a token to a logged-in user until it expires.
type Session struct {
	Token     string
	User      User
	ExpiresAt time.Time
}

type attemptState struct {
	failures    int
	lockedUntil time.Time
}

// SessionManager keeps sessions and login-failure counters in memory.
// Nothing survives a restart; every client logs in again.
type SessionManager struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]Session
	attempts map[string]*attemptState
	now      func() time.Time
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		ttl:      ttl,
		sessions: make(map[string]Session),
		attempts: make(map[string]*attemptState),
		now:      time.Now,
	}
}

// CheckLockout reports whether a username may attempt a login right now.
func (m *SessionManager) CheckLockout(username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.attempts[username]
	if st != nil && m.now().Before(st.lockedUntil) {
		return ErrLockedOut
	}
	return nil
}

// RecordFailure counts a failed login and starts the lockout window once
// the attempt limit is reached.
func (m *SessionManager) RecordFailure(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.attempts[username]
	if st == nil {
		st = &attemptState{}
		m.attempts[username] = st
	}
	if !st.lockedUntil.IsZero() && !m.now().Before(st.lockedUntil) {
		// Previous lockout expired; start counting fresh.
		st.failures = 0
		st.lockedUntil = time.Time{}
	}
	st.failures++
	if st.failures >= MaxLoginAttempts {
		st.lockedUntil = m.now().Add(LockoutPeriod)
	}
}

// Start creates a session for a successfully verified user and clears the
// failure counter.
func (m *SessionManager) Start(user User) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.attempts, user.Username)
	s := Session{
		Token:     uuid.NewString(),
		User:      user,
		ExpiresAt: m.now().Add(m.ttl),
	}
	m.sessions[s.Token] = s
	return s
}

// Lookup resolves a token, dropping it when expired.
func (m *SessionManager) Lookup(token string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return Session{}, false
	}
	if !m.now().Before(s.ExpiresAt) {
		delete(m.sessions, token)
		return Session{}, false
	}
	return s, true
}

// End invalidates a token. Unknown tokens are a no-op.
func (m *SessionManager) End(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Refresh replaces the stored user for every live session of username,
// so role changes apply without forcing a re-login.
func (m *SessionManager) Refresh(user User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if s.User.Username == user.Username {
			s.User = user
			m.sessions[token] = s
		}
	}
}
