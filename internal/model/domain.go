// Package model defines domain entities for the application.
package model

import "time"

// SSLStatus represents the certificate lifecycle state of a domain.
type SSLStatus string

const (
	SSLStatusPending SSLStatus = "pending"
	SSLStatusActive  SSLStatus = "active"
	SSLStatusFailed  SSLStatus = "failed"
	SSLStatusExpired SSLStatus = "expired"
)

// IsValid checks if the SSL status is a known value.
func (s SSLStatus) IsValid() bool {
	switch s {
	case SSLStatusPending, SSLStatusActive, SSLStatusFailed, SSLStatusExpired:
		return true
	}
	return false
}

// DomainType classifies what a configured domain is used for.
type DomainType string

const (
	DomainTypeForms   DomainType = "forms"
	DomainTypePayment DomainType = "payment"
	DomainTypeOther   DomainType = "other"
)

// IsValid checks if the domain type is a known value.
func (d DomainType) IsValid() bool {
	switch d {
	case DomainTypeForms, DomainTypePayment, DomainTypeOther:
		return true
	}
	return false
}

// DomainConfiguration tracks a domain registered for the shortener.
// The reverse proxy consults it before issuing on-demand TLS certificates.
type DomainConfiguration struct {
	ID           string     `json:"id"`
	Domain       string     `json:"domain"` // lowercase, globally unique
	AccountID    int64      `json:"account_id"`
	DomainType   DomainType `json:"domain_type"`
	IsVerified   bool       `json:"is_verified"`
	IsActive     bool       `json:"is_active"`
	SSLStatus    SSLStatus  `json:"ssl_status"`
	SSLIssuedAt  *time.Time `json:"ssl_issued_at,omitempty"`
	SSLExpiresAt *time.Time `json:"ssl_expires_at,omitempty"`
	UseCaddy     bool       `json:"use_caddy"`
	Notes        string     `json:"notes"`
	ConfiguredAt time.Time  `json:"configured_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
