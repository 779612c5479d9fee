package handler

import (
	"net/http"
	"time"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/http/response"
	"github.com/webinara/webinara-backend/internal/service"
)

// WebinarHandler is the catalog API: public browse and search endpoints
// plus the admin mutations.
type WebinarHandler struct {
	webinars *service.WebinarService
}

func NewWebinarHandler(webinars *service.WebinarService) *WebinarHandler {
	return &WebinarHandler{webinars: webinars}
}

type webinarRequest struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Category     string `json:"category"`
	Level        string `json:"level"`
	Language     string `json:"language"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	TotalSeats   *int   `json:"totalSeats"`
	WebinarPhoto string `json:"webinarPhoto"`
	HostID       uint   `json:"hostId"`
}

func (req *webinarRequest) apply(w *domain.Webinar) error {
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return err
		}
		w.Date = date
	}
	if req.Title != "" {
		w.Title = req.Title
	}
	if req.Subtitle != "" {
		w.Subtitle = req.Subtitle
	}
	if req.Category != "" {
		w.Category = req.Category
	}
	if req.Level != "" {
		w.Level = req.Level
	}
	if req.Language != "" {
		w.Language = req.Language
	}
	if req.StartTime != "" {
		w.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		w.EndTime = req.EndTime
	}
	if req.TotalSeats != nil {
		w.TotalSeats = req.TotalSeats
	}
	if req.WebinarPhoto != "" {
		w.WebinarPhoto = req.WebinarPhoto
	}
	if req.HostID != 0 {
		w.HostID = req.HostID
	}
	return nil
}

func (h *WebinarHandler) List(w http.ResponseWriter, r *http.Request) {
	webinars, err := h.webinars.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, webinars)
}

// Home lists the upcoming webinars shown on the landing page.
func (h *WebinarHandler) Home(w http.ResponseWriter, r *http.Request) {
	webinars, err := h.webinars.Upcoming(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, webinars)
}

func (h *WebinarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		badRequest(w, r, "invalid webinar id")
		return
	}
	webinar, err := h.webinars.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, webinar)
}

func (h *WebinarHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.webinars.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, results)
}

// Filter narrows the upcoming listing by category, level and language
// query parameters; all are optional.
func (h *WebinarHandler) Filter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	results, err := h.webinars.Filter(r.Context(), q.Get("category"), q.Get("level"), q.Get("language"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, results)
}

// ByCategory filters upcoming webinars to one category.
func (h *WebinarHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		badRequest(w, r, "category is required")
		return
	}
	results, err := h.webinars.UpcomingByCategory(r.Context(), category)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, results)
}

// CheckFull answers the seat-availability probe the booking page runs.
func (h *WebinarHandler) CheckFull(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		badRequest(w, r, "invalid webinar id")
		return
	}
	full, err := h.webinars.CheckFull(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"isFull": full})
}

func (h *WebinarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req webinarRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if req.Title == "" || req.HostID == 0 || req.Date == "" {
		badRequest(w, r, "title, hostId and date are required")
		return
	}
	webinar := &domain.Webinar{}
	if err := req.apply(webinar); err != nil {
		badRequest(w, r, "invalid date, expected YYYY-MM-DD")
		return
	}
	if err := h.webinars.Create(r.Context(), webinar); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, webinar)
}

func (h *WebinarHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		badRequest(w, r, "invalid webinar id")
		return
	}
	var req webinarRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	webinar, err := h.webinars.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := req.apply(webinar); err != nil {
		badRequest(w, r, "invalid date, expected YYYY-MM-DD")
		return
	}
	if err := h.webinars.Update(r.Context(), webinar); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, webinar)
}

func (h *WebinarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		badRequest(w, r, "invalid webinar id")
		return
	}
	if err := h.webinars.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Message(w, r, http.StatusOK, "webinar deleted")
}
