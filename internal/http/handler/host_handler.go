package handler

import (
	"net/http"

	"github.com/webinara/webinara-backend/internal/domain"
	"github.com/webinara/webinara-backend/internal/http/response"
	"github.com/webinara/webinara-backend/internal/service"
)

// HostHandler is the host directory: reads are public, writes admin-only.
type HostHandler struct {
	webinars *service.WebinarService
}

func NewHostHandler(webinars *service.WebinarService) *HostHandler {
	return &HostHandler{webinars: webinars}
}

type hostRequest struct {
	FullName         string   `json:"fullName"`
	Bio              string   `json:"bio"`
	Email            string   `json:"email"`
	Expertise        []string `json:"expertise"`
	SocialMediaLinks []string `json:"socialMediaLinks"`
	ProfilePicture   string   `json:"profilePicture"`
}

func (h *HostHandler) List(w http.ResponseWriter, r *http.Request) {
	hosts, err := h.webinars.ListHosts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, hosts)
}

func (h *HostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		badRequest(w, r, "invalid host id")
		return
	}
	host, err := h.webinars.GetHost(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, host)
}

func (h *HostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req hostRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if req.FullName == "" || req.Email == "" {
		badRequest(w, r, "fullName and email are required")
		return
	}
	host := &domain.Host{
		FullName:         req.FullName,
		Bio:              req.Bio,
		Email:            req.Email,
		Expertise:        req.Expertise,
		SocialMediaLinks: req.SocialMediaLinks,
		ProfilePicture:   req.ProfilePicture,
	}
	if err := h.webinars.CreateHost(r.Context(), host); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, host)
}

func (h *HostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		badRequest(w, r, "invalid host id")
		return
	}
	var req hostRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	host, err := h.webinars.GetHost(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if req.FullName != "" {
		host.FullName = req.FullName
	}
	if req.Bio != "" {
		host.Bio = req.Bio
	}
	if req.Email != "" {
		host.Email = req.Email
	}
	if req.Expertise != nil {
		host.Expertise = req.Expertise
	}
	if req.SocialMediaLinks != nil {
		host.SocialMediaLinks = req.SocialMediaLinks
	}
	if req.ProfilePicture != "" {
		host.ProfilePicture = req.ProfilePicture
	}
	if err := h.webinars.UpdateHost(r.Context(), host); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, host)
}

func (h *HostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		badRequest(w, r, "invalid host id")
		return
	}
	if err := h.webinars.DeleteHost(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Message(w, r, http.StatusOK, "host deleted")
}
