package security

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
)

// Fingerprint derives the client fingerprint digest from the request IP,
// user agent and accept-language: hex(SHA-256("ip|ua|lang")).
func Fingerprint(ip, userAgent, acceptLanguage string) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{ip, userAgent, acceptLanguage}, "|")))
	return hex.EncodeToString(sum[:])
}

// FingerprintRequest computes the fingerprint for an incoming request using
// ClientIP and the identifying headers.
func FingerprintRequest(r *http.Request) string {
	return Fingerprint(ClientIP(r), r.UserAgent(), r.Header.Get("Accept-Language"))
}

// ClientIP returns the remote IP without the port. chi's RealIP middleware
// already folds X-Forwarded-For / X-Real-IP into RemoteAddr upstream.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
