// Package session holds logged-in users in memory.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/ballotblock/internal/ports/secondary"
)

// DefaultTTL is how long a session lives when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// MemoryStore implements secondary.SessionStore with an in-process map.
// Sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*secondary.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a MemoryStore whose sessions expire after ttl.
// A non-positive ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		sessions: make(map[string]*secondary.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a session for username and returns its token.
func (s *MemoryStore) Create(ctx context.Context, username, accountType string) (string, error) {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	s.sessions[token] = &secondary.Session{
		Token:       token,
		Username:    username,
		AccountType: accountType,
		ExpiresAt:   s.now().Add(s.ttl).Unix(),
	}
	return token, nil
}

// Lookup returns the session for a token, or nil if it is unknown or expired.
func (s *MemoryStore) Lookup(ctx context.Context, token string) (*secondary.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok || s.expired(session) {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

// IsAuthenticated reports whether username holds a live session.
func (s *MemoryStore) IsAuthenticated(ctx context.Context, username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, session := range s.sessions {
		if session.Username == username && !s.expired(session) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) expired(session *secondary.Session) bool {
	return s.now().Unix() >= session.ExpiresAt
}

// pruneLocked drops expired sessions. Callers hold the write lock.
func (s *MemoryStore) pruneLocked() {
	for token, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, token)
		}
	}
}

// Ensure MemoryStore implements the interface.
var _ secondary.SessionStore = (*MemoryStore)(nil)
