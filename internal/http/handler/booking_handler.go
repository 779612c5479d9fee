package handler

import (
	"net/http"

	"github.com/webinara/webinara-backend/internal/http/middleware"
	"github.com/webinara/webinara-backend/internal/http/response"
	"github.com/webinara/webinara-backend/internal/service"
)

// BookingHandler books seats and serves the per-user booking views.
type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type bookRequest struct {
	WebinarID uint `json:"webinarId"`
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var req bookRequest
	if err := decodeJSON(r, &req); err != nil || req.WebinarID == 0 {
		badRequest(w, r, "webinarId is required")
		return
	}
	booking, err := h.bookings.Book(r.Context(), session.AccountID, req.WebinarID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, map[string]any{
		"message": "booking confirmed",
		"booking": booking,
	})
}

func (h *BookingHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	bookings, err := h.bookings.Upcoming(r.Context(), session.AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, bookings)
}

func (h *BookingHandler) Past(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	bookings, err := h.bookings.Past(r.Context(), session.AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, bookings)
}

// Check reports whether the caller already booked the webinar.
func (h *BookingHandler) Check(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	webinarID, err := urlParamID(r, "webinarId")
	if err != nil {
		badRequest(w, r, "invalid webinar id")
		return
	}
	booked, err := h.bookings.HasBooking(r.Context(), session.AccountID, webinarID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"isBooked": booked})
}

// List is the admin view over all bookings, optionally per webinar.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("webinarId"); raw != "" {
		webinarID, err := urlParamUint(raw)
		if err != nil {
			badRequest(w, r, "invalid webinar id")
			return
		}
		bookings, err := h.bookings.ListByWebinar(r.Context(), webinarID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		response.JSON(w, r, http.StatusOK, bookings)
		return
	}
	bookings, err := h.bookings.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, bookings)
}
