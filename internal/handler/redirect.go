package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hostlink/hostlink/internal/analytics"
	"github.com/hostlink/hostlink/internal/handler/dto"
	"github.com/hostlink/hostlink/internal/middleware"
	"github.com/hostlink/hostlink/internal/service"
)

// RedirectHandler handles redirect requests.
type RedirectHandler struct {
	svc      *service.ShortURLService
	recorder *analytics.Recorder
	logger   *slog.Logger
}

// NewRedirectHandler creates a new RedirectHandler.
func NewRedirectHandler(svc *service.ShortURLService, recorder *analytics.Recorder, logger *slog.Logger) *RedirectHandler {
	return &RedirectHandler{
		svc:      svc,
		recorder: recorder,
		logger:   logger,
	}
}

// Redirect handles GET /{shortCode} for URL redirection.
// The serving domain scopes the lookup, so the same code can live on
// different domains.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")
	if shortCode == "" {
		h.writeError(w, http.StatusNotFound, "URL_NOT_FOUND", "Short URL not found")
		return
	}

	domain := middleware.GetDomain(r.Context())

	start := time.Now()
	shortURL, err := h.svc.Resolve(r.Context(), domain, shortCode)
	duration := time.Since(start)

	if err != nil {
		h.handleRedirectError(w, shortCode, domain, err, duration)
		return
	}

	// Record the click without blocking the redirect
	if h.recorder != nil {
		h.recorder.Record(analytics.EventFromRequest(r, shortURL.ID))
	}

	h.logger.Info("redirect_success",
		"short_code", shortCode,
		"domain", domain,
		"duration_ms", float64(duration.Microseconds())/1000,
	)

	// Set security headers
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Cache-Control", "private, max-age=0")

	http.Redirect(w, r, shortURL.OriginalURL, http.StatusFound)
}

// handleRedirectError handles errors during redirect resolution.
func (h *RedirectHandler) handleRedirectError(w http.ResponseWriter, shortCode, domain string, err error, duration time.Duration) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.logger.Info("redirect_not_found",
			"short_code", shortCode,
			"domain", domain,
			"duration_ms", float64(duration.Microseconds())/1000,
		)
		h.writeError(w, http.StatusNotFound, "URL_NOT_FOUND", "Short URL not found")

	case errors.Is(err, service.ErrExpired):
		h.logger.Info("redirect_expired",
			"short_code", shortCode,
			"domain", domain,
			"duration_ms", float64(duration.Microseconds())/1000,
		)
		h.writeError(w, http.StatusGone, "URL_EXPIRED", "Short URL has expired")

	case errors.Is(err, service.ErrInactive):
		h.logger.Info("redirect_inactive",
			"short_code", shortCode,
			"domain", domain,
			"duration_ms", float64(duration.Microseconds())/1000,
		)
		// Return 404 for inactive URLs (don't reveal existence)
		h.writeError(w, http.StatusNotFound, "URL_NOT_FOUND", "Short URL not found")

	default:
		h.logger.Error("redirect_error",
			"short_code", shortCode,
			"domain", domain,
			"error", err,
			"duration_ms", float64(duration.Microseconds())/1000,
		)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes a JSON error response for redirect failures.
func (h *RedirectHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	// Set security headers even on errors
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=0")

	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
