package domain

import "time"

// Session is the server-side record behind the webinara_session cookie. It
// lives in the session store (Redis in production) under its opaque ID with a
// rolling TTL; expiry is passive, handled by the store itself.
type Session struct {
	ID             string    `json:"id"`
	AccountID      uint      `json:"account_id"`
	Role           string    `json:"role"`
	TokenID        string    `json:"token_id"`
	Fingerprint    string    `json:"fingerprint"`
	LastIP         string    `json:"last_ip"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CSRFSecret     string    `json:"csrf_secret"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Bound reports whether the session has captured a client fingerprint yet.
func (s *Session) Bound() bool { return s.Fingerprint != "" }
