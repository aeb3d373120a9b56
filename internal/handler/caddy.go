package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hostlink/hostlink/internal/handler/dto"
	"github.com/hostlink/hostlink/internal/metrics"
	"github.com/hostlink/hostlink/internal/model"
	"github.com/hostlink/hostlink/internal/service"
)

// DomainValidator decides whether a domain may receive a TLS certificate.
// ErrDomainNotFound means the domain is unknown or deactivated.
type DomainValidator interface {
	ValidateDomain(ctx context.Context, domain string) (*model.DomainConfiguration, error)
}

// CaddyHandler serves the on-demand TLS ask endpoint consumed by the reverse
// proxy before it requests a certificate for an unknown host.
type CaddyHandler struct {
	validator DomainValidator
	logger    *slog.Logger
	metrics   metrics.Recorder
}

// NewCaddyHandler creates a new CaddyHandler.
func NewCaddyHandler(validator DomainValidator, logger *slog.Logger, recorder metrics.Recorder) *CaddyHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CaddyHandler{
		validator: validator,
		logger:    logger,
		metrics:   recorder,
	}
}

// ValidateDomain handles GET /caddy/validate-domain?domain={host}.
// Returns 200 with allow=true for registered active domains and 403 with
// allow=false otherwise. The proxy only issues certificates on 200.
func (h *CaddyHandler) ValidateDomain(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error: "domain query parameter is required",
			Code:  "MISSING_DOMAIN",
		})
		return
	}

	cfg, err := h.validator.ValidateDomain(r.Context(), domain)
	if err != nil {
		if !errors.Is(err, service.ErrDomainNotFound) {
			// Deny on errors so certificates are never issued for
			// unverified hosts
			h.logger.Error("domain_validation_error",
				"domain", domain,
				"error", err,
			)
		} else {
			h.logger.Info("domain_validation_denied", "domain", domain)
		}
		h.metrics.IncDomainValidation(false)
		writeJSON(w, http.StatusForbidden, dto.ValidateDomainResponse{
			Allow:  false,
			Domain: domain,
			Error:  "domain not configured",
		})
		return
	}

	h.metrics.IncDomainValidation(true)
	writeJSON(w, http.StatusOK, dto.ValidateDomainResponse{
		Allow:     true,
		Domain:    cfg.Domain,
		AccountID: cfg.AccountID,
	})
}
