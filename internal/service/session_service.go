package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/security"
)

// SessionService owns the session lifecycle: created at login, refreshed with
// a rolling TTL on every authenticated request, destroyed on logout or on an
// integrity violation. One session is issued per login; there is no
// multi-session bookkeeping.
type SessionService struct {
	store SessionStore
	ttl   time.Duration
	idle  time.Duration
	now   func() time.Time
}

func NewSessionService(store SessionStore, ttl, idleTimeout time.Duration) *SessionService {
	return &SessionService{
		store: store,
		ttl:   ttl,
		idle:  idleTimeout,
		now:   time.Now,
	}
}

// Create builds a fresh session for the account. The fingerprint starts
// empty (unbound) and is captured by the integrity guard on the first
// authenticated request. tokenID is the JTI of the login token issued
// alongside the session.
func (s *SessionService) Create(ctx context.Context, account *domain.Account, ip, tokenID string) (*domain.Session, error) {
	secret, err := security.NewCSRFSecret()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	session := &domain.Session{
		ID:             uuid.NewString(),
		AccountID:      account.ID,
		Role:           account.Role,
		TokenID:        tokenID,
		LastIP:         ip,
		LastActivityAt: now,
		CSRFSecret:     secret,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, session, s.ttl); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) Find(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.store.Find(ctx, sessionID)
}

// Destroy removes the session record immediately.
func (s *SessionService) Destroy(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// CheckIntegrity evaluates the hijack checks for a bound session and returns
// every violated reason. An unbound session never violates; Bind is the
// transition out of that state.
func (s *SessionService) CheckIntegrity(session *domain.Session, fingerprint, ip string, now time.Time) []string {
	if !session.Bound() {
		return nil
	}
	var reasons []string
	if session.LastIP != "" && session.LastIP != ip {
		reasons = append(reasons, ViolationIPChange)
	}
	if session.Fingerprint != fingerprint {
		reasons = append(reasons, ViolationFingerprintMismatch)
	}
	if !session.LastActivityAt.IsZero() && now.Sub(session.LastActivityAt) > s.idle {
		reasons = append(reasons, ViolationSessionTimeout)
	}
	return reasons
}

// Bind captures the first-request fingerprint and IP, moving the session
// from unbound to bound.
func (s *SessionService) Bind(ctx context.Context, session *domain.Session, fingerprint, ip string) error {
	session.Fingerprint = fingerprint
	return s.touch(ctx, session, ip)
}

// Touch records activity: updates lastIP/lastActivity and re-saves with the
// full TTL, giving the session its rolling expiry.
func (s *SessionService) Touch(ctx context.Context, session *domain.Session, ip string) error {
	return s.touch(ctx, session, ip)
}

func (s *SessionService) touch(ctx context.Context, session *domain.Session, ip string) error {
	now := s.now().UTC()
	session.LastIP = ip
	session.LastActivityAt = now
	session.ExpiresAt = now.Add(s.ttl)
	return s.store.Save(ctx, session, s.ttl)
}

// CSRFToken derives the stable per-session token from the session-bound
// secret.
func (s *SessionService) CSRFToken(session *domain.Session) string {
	return security.CSRFToken(session.CSRFSecret, session.ID)
}

// WithClock overrides the time source, used by tests to simulate idle gaps.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}
