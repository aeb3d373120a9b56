package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hostlink/hostlink/internal/handler/dto"
	"github.com/hostlink/hostlink/internal/service"
)

// DomainHandler serves the internal domain registry endpoints.
// All routes are guarded by the internal API key middleware.
type DomainHandler struct {
	svc    *service.DomainService
	logger *slog.Logger
}

// NewDomainHandler creates a new DomainHandler.
func NewDomainHandler(svc *service.DomainService, logger *slog.Logger) *DomainHandler {
	return &DomainHandler{
		svc:    svc,
		logger: logger,
	}
}

// Configure handles POST /api/internal/domains.
func (h *DomainHandler) Configure(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfigureDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorEnvelope("invalid request body"))
		return
	}

	if req.AccountID <= 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorEnvelope("account_id is required"))
		return
	}

	cfg, err := h.svc.Configure(r.Context(), service.ConfigureDomainInput{
		Domain:     req.Domain,
		AccountID:  req.AccountID,
		DomainType: req.DomainType,
		UseCaddy:   req.UseCaddy,
		Notes:      req.Notes,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("domain_configured",
		"domain", cfg.Domain,
		"account_id", cfg.AccountID,
		"domain_type", string(cfg.DomainType),
	)

	writeJSON(w, http.StatusCreated, dto.SuccessEnvelope(cfg))
}

// Status handles GET /api/internal/domains/{domain}/status.
func (h *DomainHandler) Status(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.GetStatus(r.Context(), chi.URLParam(r, "domain"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessEnvelope(cfg))
}

// UpdateSSL handles POST /api/internal/domains/{domain}/ssl.
func (h *DomainHandler) UpdateSSL(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSSLStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorEnvelope("invalid request body"))
		return
	}

	domain := chi.URLParam(r, "domain")
	cfg, err := h.svc.UpdateSSLStatus(r.Context(), domain, req.SSLStatus, req.SSLIssuedAt, req.SSLExpiresAt)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("domain_ssl_updated",
		"domain", cfg.Domain,
		"ssl_status", string(cfg.SSLStatus),
		"is_verified", cfg.IsVerified,
	)

	writeJSON(w, http.StatusOK, dto.SuccessEnvelope(cfg))
}

// Remove handles DELETE /api/internal/domains/{domain}.
// By default the domain is deactivated; ?hard_delete=true removes the row.
func (h *DomainHandler) Remove(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	hard := strings.EqualFold(r.URL.Query().Get("hard_delete"), "true")

	if err := h.svc.Remove(r.Context(), domain, hard); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("domain_removed", "domain", domain, "hard", hard)

	writeJSON(w, http.StatusOK, dto.DomainEnvelope{Status: "success", Message: "domain removed"})
}

// ListForAccount handles GET /api/internal/accounts/{accountID}/domains.
func (h *DomainHandler) ListForAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil || accountID <= 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorEnvelope("invalid account id"))
		return
	}

	activeOnly := r.URL.Query().Get("active_only") == "true"

	domains, err := h.svc.ListForAccount(r.Context(), accountID, activeOnly)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessListEnvelope(domains))
}

// handleServiceError maps domain service errors to internal API responses.
func (h *DomainHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrDomainNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorEnvelope("domain not found"))
	case errors.Is(err, service.ErrDomainExists):
		writeJSON(w, http.StatusConflict, dto.ErrorEnvelope("domain already configured"))
	case errors.Is(err, service.ErrInvalidDomain):
		writeJSON(w, http.StatusBadRequest, dto.ErrorEnvelope("invalid domain name"))
	case errors.Is(err, service.ErrInvalidSSLStatus):
		writeJSON(w, http.StatusBadRequest, dto.ErrorEnvelope("invalid ssl status"))
	case errors.Is(err, service.ErrInvalidDomainType):
		writeJSON(w, http.StatusBadRequest, dto.ErrorEnvelope("invalid domain type"))
	default:
		h.logger.Error("internal_error", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorEnvelope("an internal error occurred"))
	}
}
