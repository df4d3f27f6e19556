package session

import (
	"context"
	"sync"
	"time"

	"github.com/desertthunder/soundcheck/internal/services"
)

// Session is the server-side state of one browser client.
type Session struct {
	ID        string                `json:"id"`
	Token     *services.AccessToken `json:"token,omitempty"`
	ExpiresAt time.Time             `json:"expires_at"`
}

// GetToken returns the stored token, or nil when none is present or it has expired.
func (s *Session) GetToken() *services.AccessToken {
	if s == nil || !s.Token.Valid() {
		return nil
	}
	return s.Token
}

// SetToken stores tok, replacing any previous token. A nil tok clears it.
func (s *Session) SetToken(tok *services.AccessToken) {
	s.Token = tok
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store defines how sessions are stored and retrieved.
//
// Get returns (nil, nil) when the session does not exist or has expired.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore is a process-local [Store].
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session), now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if s.Expired(m.now()) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes expired sessions and returns how many were dropped.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	dropped := 0
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped
}
