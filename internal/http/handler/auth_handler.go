package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/http/middleware"
	"github.com/webinara/webinara-backend/internal/http/response"
	"github.com/webinara/webinara-backend/internal/observability"
	"github.com/webinara/webinara-backend/internal/security"
	"github.com/webinara/webinara-backend/internal/service"
)

// AuthHandler covers login, logout and registration. Login plants two
// cookies: the opaque session identifier and the signed login token.
type AuthHandler struct {
	auth              *service.AuthService
	sessions          *service.SessionService
	sessionCookieName string
	sessionTTL        time.Duration
	tokenTTL          time.Duration
}

func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, sessionCookieName string, sessionTTL, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:              auth,
		sessions:          sessions,
		sessionCookieName: sessionCookieName,
		sessionTTL:        sessionTTL,
		tokenTTL:          tokenTTL,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountView struct {
	ID             uint   `json:"id"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profilePicture"`
}

func viewAccount(a *domain.Account) accountView {
	return accountView{
		ID:             a.ID,
		FullName:       a.FullName,
		Email:          a.Email,
		Role:           a.Role,
		ProfilePicture: a.ProfilePicture,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		badRequest(w, r, "email and password are required")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password, security.ClientIP(r))
	if err != nil {
		var locked *service.AccountLockedError
		if errors.As(err, &locked) {
			observability.Audit(r, "account_locked", "email", req.Email, "unlocks_in", locked.UnlocksIn)
		} else {
			observability.Audit(r, "login_denied", "email", req.Email)
		}
		writeServiceError(w, r, err)
		return
	}

	security.SetAuthCookie(w, h.sessionCookieName, result.Session.ID, h.sessionTTL)
	security.SetAuthCookie(w, security.TokenCookieName, result.Token, h.tokenTTL)
	observability.Audit(r, "login", "account_id", result.Account.ID, "role", result.Account.Role)

	response.JSON(w, r, http.StatusOK, map[string]any{
		"message":   "login successful",
		"id":        result.Account.ID,
		"role":      result.Account.Role,
		"user":      viewAccount(result.Account),
		"csrfToken": h.sessions.CSRFToken(result.Session),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session, ok := middleware.SessionFromContext(r.Context()); ok {
		if err := h.auth.Logout(r.Context(), session.ID); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	security.ClearAuthCookie(w, h.sessionCookieName)
	security.ClearAuthCookie(w, security.TokenCookieName)
	response.Message(w, r, http.StatusOK, "logged out")
}

type registerRequest struct {
	FullName     string `json:"fullName"`
	MobileNumber string `json:"mobileNumber"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		badRequest(w, r, "fullName, email and password are required")
		return
	}

	account, err := h.auth.RegisterUser(r.Context(), service.RegisterInput{
		FullName:     req.FullName,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
		City:         req.City,
		Email:        req.Email,
		Password:     req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, map[string]any{
		"message": "registration successful",
		"user":    viewAccount(account),
	})
}

// RegisterAdmin provisions another admin account; the route is gated on an
// existing admin session.
func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		badRequest(w, r, "fullName, email and password are required")
		return
	}

	account, err := h.auth.RegisterAdmin(r.Context(), service.RegisterInput{
		FullName:     req.FullName,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
		City:         req.City,
		Email:        req.Email,
		Password:     req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, map[string]any{
		"message": "admin registered",
		"user":    viewAccount(account),
	})
}
