package middleware

import (
	"net/http"

	"github.com/webinara/webinara-backend/internal/http/response"
	"github.com/webinara/webinara-backend/internal/observability"
	"github.com/webinara/webinara-backend/internal/security"
)

// CSRFGuard validates the double-submit token on state-changing methods.
// The expected token is derived from the session-bound secret, so the guard
// must run after RequireAuth. The token arrives in the X-CSRF-Token header
// or, for form posts, the _csrf field.
func CSRFGuard() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			session, ok := SessionFromContext(r.Context())
			if !ok {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
				return
			}

			submitted := r.Header.Get("X-CSRF-Token")
			if submitted == "" {
				submitted = r.FormValue("_csrf")
			}
			if submitted == "" {
				observability.RecordCSRFValidation("missing")
				observability.Audit(r, "csrf_rejected", "reason", "missing", "session_id", session.ID)
				response.Error(w, r, http.StatusForbidden, "CSRF_TOKEN_MISSING", "csrf token missing", nil)
				return
			}

			expected := security.CSRFToken(session.CSRFSecret, session.ID)
			if !security.CSRFTokenEqual(expected, submitted) {
				observability.RecordCSRFValidation("invalid")
				observability.Audit(r, "csrf_rejected", "reason", "invalid", "session_id", session.ID)
				response.Error(w, r, http.StatusForbidden, "CSRF_TOKEN_INVALID", "csrf token invalid", nil)
				return
			}
			observability.RecordCSRFValidation("valid")
			next.ServeHTTP(w, r)
		})
	}
}
