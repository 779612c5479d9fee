package handler

import (
	"net/http"

	"github.com/webinara/webinara-backend/internal/http/middleware"
	"github.com/webinara/webinara-backend/internal/http/response"
	"github.com/webinara/webinara-backend/internal/service"
)

// CSRFHandler hands the client its per-session token. The token is
// deterministic for the session, so refetching never invalidates forms that
// are already open.
type CSRFHandler struct {
	sessions *service.SessionService
}

func NewCSRFHandler(sessions *service.SessionService) *CSRFHandler {
	return &CSRFHandler{sessions: sessions}
}

func (h *CSRFHandler) Token(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"csrfToken": h.sessions.CSRFToken(session)})
}
