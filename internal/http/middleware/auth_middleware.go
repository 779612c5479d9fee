package middleware

import (
	"context"
	"net/http"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/http/response"
	"github.com/webinara/webinara-backend/internal/security"
	"github.com/webinara/webinara-backend/internal/service"
)

type contextKey string

const sessionContextKey contextKey = "session"

// RequireAuth resolves the session cookie against the store and attaches the
// session to the request context. Anything short of a live session is a 401.
// With a token manager supplied, the login token cookie must also parse and
// carry the jti recorded on the session, so a spliced session/token cookie
// pair is rejected.
func RequireAuth(sessions *service.SessionService, tokens *security.JWTManager, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := security.GetCookie(r, cookieName)
			if sessionID == "" {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
				return
			}
			session, err := sessions.Find(r.Context(), sessionID)
			if err != nil {
				security.ClearAuthCookie(w, cookieName)
				security.ClearAuthCookie(w, security.TokenCookieName)
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "session expired or invalid", nil)
				return
			}
			if tokens != nil {
				claims, err := tokens.ParseLoginToken(security.GetCookie(r, security.TokenCookieName))
				if err != nil || claims.ID != session.TokenID {
					security.ClearAuthCookie(w, cookieName)
					security.ClearAuthCookie(w, security.TokenCookieName)
					response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "login token mismatch", nil)
					return
				}
			}
			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route group on the session role. RequireAuth must run
// first.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
				return
			}
			if session.Role != role {
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient role", map[string]string{"required": role})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is RequireRole for the admin role.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(domain.RoleAdmin)
}

func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*domain.Session)
	return s, ok
}
