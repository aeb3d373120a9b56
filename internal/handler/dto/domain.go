package dto

import (
	"time"

	"github.com/hostlink/hostlink/internal/model"
)

// ConfigureDomainRequest represents the request body for registering a domain.
type ConfigureDomainRequest struct {
	Domain     string `json:"domain"`
	AccountID  int64  `json:"account_id"`
	DomainType string `json:"domain_type,omitempty"`
	UseCaddy   *bool  `json:"use_caddy,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// UpdateSSLStatusRequest represents the request body for an SSL status update.
type UpdateSSLStatusRequest struct {
	SSLStatus    string     `json:"ssl_status"`
	SSLIssuedAt  *time.Time `json:"ssl_issued_at,omitempty"`
	SSLExpiresAt *time.Time `json:"ssl_expires_at,omitempty"`
}

// DomainResponse represents a domain configuration in API responses.
type DomainResponse struct {
	ID           string     `json:"id"`
	Domain       string     `json:"domain"`
	AccountID    int64      `json:"account_id"`
	DomainType   string     `json:"domain_type"`
	IsVerified   bool       `json:"is_verified"`
	IsActive     bool       `json:"is_active"`
	SSLStatus    string     `json:"ssl_status"`
	SSLIssuedAt  *time.Time `json:"ssl_issued_at,omitempty"`
	SSLExpiresAt *time.Time `json:"ssl_expires_at,omitempty"`
	UseCaddy     bool       `json:"use_caddy"`
	Notes        string     `json:"notes,omitempty"`
	ConfiguredAt time.Time  `json:"configured_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// DomainEnvelope wraps internal API responses in a status envelope.
type DomainEnvelope struct {
	Status  string           `json:"status"`
	Message string           `json:"message,omitempty"`
	Domain  *DomainResponse  `json:"domain,omitempty"`
	Domains []DomainResponse `json:"domains,omitempty"`
}

// ValidateDomainResponse is the response consumed by the TLS proxy.
type ValidateDomainResponse struct {
	Allow     bool   `json:"allow"`
	Domain    string `json:"domain,omitempty"`
	AccountID int64  `json:"account_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ToDomainResponse converts a model to its API representation.
func ToDomainResponse(d *model.DomainConfiguration) DomainResponse {
	return DomainResponse{
		ID:           d.ID,
		Domain:       d.Domain,
		AccountID:    d.AccountID,
		DomainType:   string(d.DomainType),
		IsVerified:   d.IsVerified,
		IsActive:     d.IsActive,
		SSLStatus:    string(d.SSLStatus),
		SSLIssuedAt:  d.SSLIssuedAt,
		SSLExpiresAt: d.SSLExpiresAt,
		UseCaddy:     d.UseCaddy,
		Notes:        d.Notes,
		ConfiguredAt: d.ConfiguredAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// SuccessEnvelope wraps a single domain in a success envelope.
func SuccessEnvelope(d *model.DomainConfiguration) DomainEnvelope {
	resp := ToDomainResponse(d)
	return DomainEnvelope{Status: "success", Domain: &resp}
}

// SuccessListEnvelope wraps a domain list in a success envelope.
func SuccessListEnvelope(domains []*model.DomainConfiguration) DomainEnvelope {
	data := make([]DomainResponse, 0, len(domains))
	for _, d := range domains {
		data = append(data, ToDomainResponse(d))
	}
	return DomainEnvelope{Status: "success", Domains: data}
}

// ErrorEnvelope builds an error envelope with a message.
func ErrorEnvelope(message string) DomainEnvelope {
	return DomainEnvelope{Status: "error", Message: message}
}
