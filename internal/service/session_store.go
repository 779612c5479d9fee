package service

import (
	"context"
	"sync"
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
)

// SessionStore is the shared, expiring key-value home for session records.
// Expiry is store-level and passive: a Find after the TTL simply misses, no
// active sweep runs. Save with a fresh TTL implements the rolling renewal.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session, ttl time.Duration) error
	Find(ctx context.Context, sessionID string) (*domain.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

type memorySessionEntry struct {
	session   domain.Session
	expiresAt time.Time
}

// InMemorySessionStore backs tests and single-node development runs.
type InMemorySessionStore struct {
	mu   sync.RWMutex
	data map[string]memorySessionEntry
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{data: make(map[string]memorySessionEntry)}
}

func (s *InMemorySessionStore) Save(_ context.Context, session *domain.Session, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[session.ID] = memorySessionEntry{
		session:   *session,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (s *InMemorySessionStore) Find(_ context.Context, sessionID string) (*domain.Session, error) {
	now := time.Now().UTC()
	s.mu.RLock()
	entry, ok := s.data[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if now.After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.data, sessionID)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	cp := entry.session
	return &cp, nil
}

func (s *InMemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}
