// Package auth - session.go defines server-side login sessions. A session id
// is embedded in the signed token (jti); a token is only honoured while its
// session is still in the store, so logout takes effect immediately.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/orgdesk/orgdesk/internal/safego"
)

// Session maps a session id to the user it authenticates
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
}

// SessionStore persists sessions. Get returns (nil, nil) for unknown or
// expired ids.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// MemorySessionStore keeps sessions in process memory
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemorySessionStore creates an empty in-memory store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Save implements SessionStore
func (s *MemorySessionStore) Save(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

// Get implements SessionStore
func (s *MemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, id)
		return nil, nil
	}
	return &session, nil
}

// Delete implements SessionStore. Deleting an unknown id is not an error.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Ping implements SessionStore
func (s *MemorySessionStore) Ping(context.Context) error {
	return nil
}

// Sweep removes expired sessions and returns how many were dropped
func (s *MemorySessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled
func (s *MemorySessionStore) StartSweeper(ctx context.Context, interval time.Duration) {
	safego.Go("session-sweeper", func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					slog.Debug("expired sessions swept", "count", n)
				}
			}
		}
	})
}

// SessionManager issues and resolves session tokens
type SessionManager struct {
	store SessionStore
	ttl   time.Duration
}

// NewSessionManager creates a manager issuing sessions that live for ttl
func NewSessionManager(store SessionStore, ttl time.Duration) *SessionManager {
	return &SessionManager{store: store, ttl: ttl}
}

// Store returns the underlying session store
func (m *SessionManager) Store() SessionStore {
	return m.store
}

// Open starts a session for userID and returns its signed token
func (m *SessionManager) Open(ctx context.Context, userID int64) (string, *Session, error) {
	session := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.store.Save(ctx, session); err != nil {
		return "", nil, fmt.Errorf("failed to save session: %w", err)
	}

	token, err := GenerateJWT(userID, session.ID, m.ttl)
	if err != nil {
		_ = m.store.Delete(ctx, session.ID)
		return "", nil, err
	}
	return token, session, nil
}

// Resolve returns the live session a token is bound to, or (nil, nil) when the
// token is invalid, expired or revoked.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := ValidateJWT(token)
	if err != nil {
		slog.Debug("rejected session token", "error", err)
		return nil, nil
	}

	session, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil || session.UserID != claims.UserID {
		return nil, nil
	}
	return session, nil
}

// Revoke ends a session
func (m *SessionManager) Revoke(ctx context.Context, sessionID string) error {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
