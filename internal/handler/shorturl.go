package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hostlink/hostlink/internal/handler/dto"
	"github.com/hostlink/hostlink/internal/middleware"
	"github.com/hostlink/hostlink/internal/service"
)

// ShortURLHandler handles HTTP requests for short URL operations.
type ShortURLHandler struct {
	svc    *service.ShortURLService
	logger *slog.Logger
}

// NewShortURLHandler creates a new ShortURLHandler.
func NewShortURLHandler(svc *service.ShortURLService, logger *slog.Logger) *ShortURLHandler {
	return &ShortURLHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/shorten.
func (h *ShortURLHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateShortURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := middleware.ValidateOriginalURL(req.OriginalURL); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_URL", err.Error())
		return
	}
	if err := middleware.ValidateShortCode(req.CustomCode); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_CODE", err.Error())
		return
	}

	input := service.CreateShortURLInput{
		OriginalURL: req.OriginalURL,
		CustomCode:  req.CustomCode,
		Domain:      h.requestDomain(r, req.Domain),
		Title:       req.Title,
		ExpiresAt:   req.ExpiresAt,
	}

	shortURL, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("short_url_created",
		"short_url_id", shortURL.ID,
		"short_code", shortURL.ShortCode,
		"domain", shortURL.Domain,
		"has_custom_code", req.CustomCode != "",
	)

	writeJSON(w, http.StatusCreated, dto.ToShortURLResponse(shortURL))
}

// List handles GET /api/urls.
func (h *ShortURLHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 20
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	urls, err := h.svc.List(r.Context(), h.requestDomain(r, query.Get("domain")), limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToShortURLListResponse(urls))
}

// Update handles PATCH /api/urls/{shortCode}.
func (h *ShortURLHandler) Update(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")
	if shortCode == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_CODE", "Short code is required")
		return
	}

	var req dto.UpdateShortURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.UpdateShortURLInput{
		Domain:      h.requestDomain(r, r.URL.Query().Get("domain")),
		ShortCode:   shortCode,
		OriginalURL: req.OriginalURL,
		Title:       req.Title,
		ExpiresAt:   req.ExpiresAt,
		ClearExpiry: req.ClearExpiry,
		IsActive:    req.IsActive,
	}

	shortURL, err := h.svc.Update(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("short_url_updated",
		"short_url_id", shortURL.ID,
		"short_code", shortURL.ShortCode,
		"domain", shortURL.Domain,
	)

	writeJSON(w, http.StatusOK, dto.ToShortURLResponse(shortURL))
}

// Delete handles DELETE /api/urls/{shortCode}.
// By default the URL is deactivated; ?hard=true removes it and its clicks.
func (h *ShortURLHandler) Delete(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")
	if shortCode == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_CODE", "Short code is required")
		return
	}

	domain := h.requestDomain(r, r.URL.Query().Get("domain"))
	hard := r.URL.Query().Get("hard") == "true"

	var err error
	if hard {
		err = h.svc.Delete(r.Context(), domain, shortCode)
	} else {
		err = h.svc.Deactivate(r.Context(), domain, shortCode)
	}
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("short_url_deleted",
		"short_code", shortCode,
		"domain", domain,
		"hard", hard,
	)

	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/stats/{shortCode}.
func (h *ShortURLHandler) Stats(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")
	if shortCode == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_CODE", "Short code is required")
		return
	}

	stats, err := h.svc.Stats(r.Context(), h.requestDomain(r, r.URL.Query().Get("domain")), shortCode)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToStatsResponse(stats))
}

// requestDomain picks the effective domain: an explicit value wins, then the
// request host, then the service default.
func (h *ShortURLHandler) requestDomain(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return middleware.GetDomain(r.Context())
}

// handleServiceError maps service errors to HTTP responses.
func (h *ShortURLHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "URL_NOT_FOUND", "Short URL not found")
	case errors.Is(err, service.ErrCodeExists):
		h.writeError(w, http.StatusConflict, "CODE_TAKEN", "Short code already exists for this domain")
	case errors.Is(err, service.ErrInvalidURL):
		h.writeError(w, http.StatusBadRequest, "INVALID_URL", "Invalid original URL")
	case errors.Is(err, service.ErrURLTooLong):
		h.writeError(w, http.StatusBadRequest, "URL_TOO_LONG", "Original URL exceeds maximum length")
	case errors.Is(err, service.ErrInvalidCode):
		h.writeError(w, http.StatusBadRequest, "INVALID_CODE", "Invalid short code format")
	case errors.Is(err, service.ErrAllocationExhausted):
		h.logger.Error("short_code_allocation_exhausted")
		h.writeError(w, http.StatusInternalServerError, "ALLOCATION_FAILED", "Could not allocate a unique short code")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *ShortURLHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
