package handler

import (
	"net/http"

	"github.com/webinara/webinara-backend/internal/http/middleware"
	"github.com/webinara/webinara-backend/internal/http/response"
	"github.com/webinara/webinara-backend/internal/service"
)

// UserHandler serves the authenticated profile plus the OTP password-reset
// flow. The OTP endpoints are public: they run before the user can log in.
type UserHandler struct {
	accounts *service.AccountService
	otp      *service.OTPService
}

func NewUserHandler(accounts *service.AccountService, otp *service.OTPService) *UserHandler {
	return &UserHandler{accounts: accounts, otp: otp}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	account, err := h.accounts.Get(r.Context(), session.AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":             account.ID,
			"fullName":       account.FullName,
			"mobileNumber":   account.MobileNumber,
			"address":        account.Address,
			"city":           account.City,
			"email":          account.Email,
			"role":           account.Role,
			"profilePicture": account.ProfilePicture,
		},
	})
}

type updateProfileRequest struct {
	FullName       string `json:"fullName"`
	MobileNumber   string `json:"mobileNumber"`
	Address        string `json:"address"`
	City           string `json:"city"`
	ProfilePicture string `json:"profilePicture"`
	Password       string `json:"password"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	account, err := h.accounts.Update(r.Context(), session.AccountID, service.UpdateProfileInput{
		FullName:       req.FullName,
		MobileNumber:   req.MobileNumber,
		Address:        req.Address,
		City:           req.City,
		ProfilePicture: req.ProfilePicture,
		Password:       req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{
		"message": "profile updated",
		"user":    viewAccount(account),
	})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	if err := h.accounts.Delete(r.Context(), session.AccountID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Message(w, r, http.StatusOK, "account deleted")
}

// List is the admin user directory.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role != "" {
		accounts, err := h.accounts.ListByRole(r.Context(), role)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		response.JSON(w, r, http.StatusOK, accounts)
		return
	}
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, accounts)
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *UserHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		badRequest(w, r, "email is required")
		return
	}
	if err := h.otp.Issue(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Message(w, r, http.StatusOK, "otp sent")
}

func (h *UserHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" || req.OTP == "" {
		badRequest(w, r, "email and otp are required")
		return
	}
	if err := h.otp.Verify(r.Context(), req.Email, req.OTP); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Message(w, r, http.StatusOK, "otp verified")
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		badRequest(w, r, "email, otp and newPassword are required")
		return
	}
	if err := h.otp.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Message(w, r, http.StatusOK, "password reset successful")
}
