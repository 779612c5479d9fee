package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// CSRFToken derives the per-session token:
// base64url(HMAC-SHA256(secret, sessionID)) with padding stripped. The token
// is deterministic for a (secret, sessionID) pair and rotates whenever the
// session is recreated.
func CSRFToken(secret, sessionID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sessionID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CSRFTokenEqual compares tokens in constant time.
func CSRFTokenEqual(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}

// NewCSRFSecret returns a fresh random secret for a new session.
func NewCSRFSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
