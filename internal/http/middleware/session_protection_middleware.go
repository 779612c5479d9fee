package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/webinara/webinara-backend/internal/http/response"
	"github.com/webinara/webinara-backend/internal/observability"
	"github.com/webinara/webinara-backend/internal/security"
	"github.com/webinara/webinara-backend/internal/service"
)

// SessionProtection is the hijack guard. It runs after RequireAuth: the
// first authenticated request binds the client fingerprint to the session,
// every later one re-checks fingerprint, IP and idle gap. A violated session
// is destroyed before the 401 goes out. Store failures during bind and touch
// fail open: protection degrades rather than blocking traffic.
func SessionProtection(sessions *service.SessionService, cookieName string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
				return
			}

			fingerprint := security.FingerprintRequest(r)
			ip := security.ClientIP(r)
			now := time.Now().UTC()

			if !session.Bound() {
				if err := sessions.Bind(r.Context(), session, fingerprint, ip); err != nil {
					logger.WarnContext(r.Context(), "session bind failed, continuing unprotected", "session_id", session.ID, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			if reasons := sessions.CheckIntegrity(session, fingerprint, ip, now); len(reasons) > 0 {
				for _, reason := range reasons {
					observability.RecordSessionViolation(reason)
				}
				logger.WarnContext(r.Context(), "session security violation",
					"session_id", session.ID,
					"account_id", session.AccountID,
					"reasons", reasons,
				)
				observability.Audit(r, "session_violation", "session_id", session.ID, "account_id", session.AccountID, "reasons", reasons)
				if err := sessions.Destroy(r.Context(), session.ID); err != nil {
					logger.ErrorContext(r.Context(), "violated session destroy failed", "session_id", session.ID, "error", err)
				}
				security.ClearAuthCookie(w, cookieName)
				security.ClearAuthCookie(w, security.TokenCookieName)
				response.Error(w, r, http.StatusUnauthorized, "SESSION_VIOLATION", "session security check failed", map[string]any{"reasons": reasons})
				return
			}

			if err := sessions.Touch(r.Context(), session, ip); err != nil {
				logger.WarnContext(r.Context(), "session touch failed", "session_id", session.ID, "error", err)
			}
			next.ServeHTTP(w, r)
		})
	}
}
