package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/webinara/webinara-backend/internal/http/response"
	"github.com/webinara/webinara-backend/internal/service"
)

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func urlParamID(r *http.Request, name string) (uint, error) {
	return urlParamUint(chi.URLParam(r, name))
}

func urlParamUint(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

// writeServiceError maps service-layer errors onto the response envelope.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var locked *service.AccountLockedError
	switch {
	case errors.As(err, &locked):
		response.Error(w, r, http.StatusForbidden, "ACCOUNT_LOCKED", locked.Error(),
			map[string]int{"unlocks_in_minutes": locked.UnlocksInMinutes()})
	case errors.Is(err, service.ErrIncorrectEmail):
		response.Error(w, r, http.StatusUnauthorized, "INCORRECT_EMAIL", "Incorrect email address", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Incorrect password", nil)
	case errors.Is(err, service.ErrPasswordReused):
		response.Error(w, r, http.StatusBadRequest, "PASSWORD_REUSED", "password was used recently, choose a different one", nil)
	case errors.Is(err, service.ErrInvalidOTP):
		response.Error(w, r, http.StatusBadRequest, "OTP_INVALID", "invalid otp", nil)
	case errors.Is(err, service.ErrOTPExpired):
		response.Error(w, r, http.StatusBadRequest, "OTP_EXPIRED", "otp has expired", nil)
	case errors.Is(err, service.ErrEmailTaken):
		response.Error(w, r, http.StatusConflict, "EMAIL_TAKEN", "email already registered", nil)
	case errors.Is(err, service.ErrAlreadyBooked):
		response.Error(w, r, http.StatusConflict, "ALREADY_BOOKED", "webinar already booked", nil)
	case errors.Is(err, service.ErrSeatsFull):
		response.Error(w, r, http.StatusConflict, "SEATS_FULL", "no seats available", nil)
	case errors.Is(err, service.ErrNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
}
