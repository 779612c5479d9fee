package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/repository"
)

// UserActivityLogger appends one audit row per authenticated request. Runs
// after RequireAuth; a write failure is logged and never blocks the request.
func UserActivityLogger(userLogs repository.UserLogRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session, ok := SessionFromContext(r.Context()); ok {
				entry := &domain.UserLog{
					UserID:    session.AccountID,
					Method:    r.Method,
					URL:       r.URL.Path,
					Timestamp: time.Now().UTC(),
				}
				if err := userLogs.Create(r.Context(), entry); err != nil {
					logger.ErrorContext(r.Context(), "user activity record failed", "account_id", session.AccountID, "error", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
