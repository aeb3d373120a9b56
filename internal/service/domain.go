package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hostlink/hostlink/internal/metrics"
	"github.com/hostlink/hostlink/internal/model"
	"github.com/hostlink/hostlink/internal/repository"
)

// Domain service errors.
var (
	ErrDomainNotFound    = errors.New("domain not found")
	ErrDomainExists      = errors.New("domain already configured")
	ErrInvalidDomain     = errors.New("invalid domain name")
	ErrInvalidSSLStatus  = errors.New("invalid ssl status")
	ErrInvalidDomainType = errors.New("invalid domain type")
)

const maxDomainLength = 253

// DomainService manages the domain registry consulted for TLS issuance.
type DomainService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewDomainService creates a new DomainService.
func NewDomainService(repo *repository.Repository, recorder metrics.Recorder) *DomainService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &DomainService{repo: repo, metrics: recorder}
}

// ConfigureDomainInput defines input for registering a domain.
type ConfigureDomainInput struct {
	Domain     string
	AccountID  int64
	DomainType string
	UseCaddy   *bool
	Notes      string
}

// Configure registers a domain for an account. Re-configuring an inactive
// domain reactivates it and resets SSL state to pending; an active domain
// conflicts.
func (s *DomainService) Configure(ctx context.Context, input ConfigureDomainInput) (*model.DomainConfiguration, error) {
	domain, err := normalizeDomain(input.Domain)
	if err != nil {
		return nil, err
	}

	domainType := model.DomainTypeOther
	if input.DomainType != "" {
		domainType = model.DomainType(input.DomainType)
		if !domainType.IsValid() {
			return nil, ErrInvalidDomainType
		}
	}

	useCaddy := true
	if input.UseCaddy != nil {
		useCaddy = *input.UseCaddy
	}

	existing, err := s.repo.GetDomain(ctx, domain)
	if err != nil && !errors.Is(err, repository.ErrDomainNotFound) {
		return nil, fmt.Errorf("failed to look up domain: %w", err)
	}

	if existing != nil {
		if existing.IsActive {
			return nil, ErrDomainExists
		}
		existing.AccountID = input.AccountID
		existing.DomainType = domainType
		existing.IsActive = true
		existing.IsVerified = false
		existing.SSLStatus = model.SSLStatusPending
		existing.SSLIssuedAt = nil
		existing.SSLExpiresAt = nil
		existing.UseCaddy = useCaddy
		existing.Notes = input.Notes
		if err := s.repo.UpdateDomain(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to reactivate domain: %w", err)
		}
		s.metrics.IncDomainConfigured()
		return existing, nil
	}

	now := time.Now().UTC()
	cfg := &model.DomainConfiguration{
		ID:           ulid.Make().String(),
		Domain:       domain,
		AccountID:    input.AccountID,
		DomainType:   domainType,
		IsVerified:   false,
		IsActive:     true,
		SSLStatus:    model.SSLStatusPending,
		UseCaddy:     useCaddy,
		Notes:        input.Notes,
		ConfiguredAt: now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateDomain(ctx, cfg); err != nil {
		if errors.Is(err, repository.ErrDomainTaken) {
			return nil, ErrDomainExists
		}
		return nil, fmt.Errorf("failed to create domain: %w", err)
	}

	s.metrics.IncDomainConfigured()
	return cfg, nil
}

// GetStatus returns the configuration for a domain.
func (s *DomainService) GetStatus(ctx context.Context, domain string) (*model.DomainConfiguration, error) {
	normalized, err := normalizeDomain(domain)
	if err != nil {
		return nil, err
	}
	cfg, err := s.repo.GetDomain(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrDomainNotFound) {
			return nil, ErrDomainNotFound
		}
		return nil, err
	}
	return cfg, nil
}

// Remove deactivates a domain, or deletes it permanently when hard is set.
func (s *DomainService) Remove(ctx context.Context, domain string, hard bool) error {
	normalized, err := normalizeDomain(domain)
	if err != nil {
		return err
	}

	if hard {
		err = s.repo.DeleteDomain(ctx, normalized)
	} else {
		err = s.repo.DeactivateDomain(ctx, normalized)
	}
	if err != nil {
		if errors.Is(err, repository.ErrDomainNotFound) {
			return ErrDomainNotFound
		}
		return err
	}

	s.metrics.IncDomainRemoved()
	return nil
}

// ListForAccount returns the domains configured for an account, newest first.
func (s *DomainService) ListForAccount(ctx context.Context, accountID int64, activeOnly bool) ([]*model.DomainConfiguration, error) {
	return s.repo.ListDomainsByAccount(ctx, accountID, activeOnly)
}

// UpdateSSLStatus records the outcome of a certificate operation. Moving to
// active also marks the domain verified.
func (s *DomainService) UpdateSSLStatus(ctx context.Context, domain string, status string, issuedAt, expiresAt *time.Time) (*model.DomainConfiguration, error) {
	normalized, err := normalizeDomain(domain)
	if err != nil {
		return nil, err
	}

	sslStatus := model.SSLStatus(status)
	if !sslStatus.IsValid() {
		return nil, ErrInvalidSSLStatus
	}

	cfg, err := s.repo.UpdateDomainSSL(ctx, normalized, sslStatus, issuedAt, expiresAt)
	if err != nil {
		if errors.Is(err, repository.ErrDomainNotFound) {
			return nil, ErrDomainNotFound
		}
		return nil, err
	}
	return cfg, nil
}

// IsAllowed reports whether a domain may receive a TLS certificate. Unknown
// and inactive domains are both denied.
func (s *DomainService) IsAllowed(ctx context.Context, domain string) (bool, error) {
	normalized, err := normalizeDomain(domain)
	if err != nil {
		return false, err
	}
	return s.repo.DomainAllowed(ctx, normalized)
}

// ValidateDomain resolves a domain for the TLS proxy. It returns the
// configuration for active domains and ErrDomainNotFound for unknown or
// deactivated ones, so certificate issuance is denied for both alike.
func (s *DomainService) ValidateDomain(ctx context.Context, domain string) (*model.DomainConfiguration, error) {
	normalized, err := normalizeDomain(domain)
	if err != nil {
		return nil, ErrDomainNotFound
	}

	cfg, err := s.repo.GetDomain(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrDomainNotFound) {
			return nil, ErrDomainNotFound
		}
		return nil, err
	}
	if !cfg.IsActive {
		return nil, ErrDomainNotFound
	}
	return cfg, nil
}

// normalizeDomain lowercases and trims a domain name and strips any port.
func normalizeDomain(domain string) (string, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if host, _, ok := strings.Cut(domain, ":"); ok {
		domain = host
	}
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" || len(domain) > maxDomainLength {
		return "", ErrInvalidDomain
	}
	if strings.ContainsAny(domain, " /\\@?#") {
		return "", ErrInvalidDomain
	}
	return domain, nil
}
