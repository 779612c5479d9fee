package handler

import (
	"net/http"

	"github.com/webinara/webinara-backend/internal/http/response"
	"github.com/webinara/webinara-backend/internal/repository"
)

// UserLogHandler exposes the activity audit trail, admin-only.
type UserLogHandler struct {
	userLogs repository.UserLogRepository
}

func NewUserLogHandler(userLogs repository.UserLogRepository) *UserLogHandler {
	return &UserLogHandler{userLogs: userLogs}
}

func (h *UserLogHandler) List(w http.ResponseWriter, r *http.Request) {
	logs, err := h.userLogs.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, logs)
}
