package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hostlink/hostlink/internal/model"
)

// Common errors for domain configuration repository operations.
var (
	ErrDomainNotFound = errors.New("domain configuration not found")
	ErrDomainTaken    = errors.New("domain already configured")
)

const domainColumns = `id, domain, account_id, domain_type, is_verified, is_active, ssl_status, ssl_issued_at, ssl_expires_at, use_caddy, notes, configured_at, updated_at`

// CreateDomain inserts a new domain configuration.
// The UNIQUE constraint on domain reports duplicates as ErrDomainTaken.
func (r *Repository) CreateDomain(ctx context.Context, d *model.DomainConfiguration) error {
	query := `
		INSERT INTO domain_configurations (id, domain, account_id, domain_type, is_verified, is_active, ssl_status, ssl_issued_at, ssl_expires_at, use_caddy, notes, configured_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		d.ID,
		d.Domain,
		d.AccountID,
		d.DomainType,
		d.IsVerified,
		d.IsActive,
		d.SSLStatus,
		d.SSLIssuedAt,
		d.SSLExpiresAt,
		d.UseCaddy,
		d.Notes,
		d.ConfiguredAt,
		d.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDomainTaken
		}
		return fmt.Errorf("failed to create domain configuration: %w", err)
	}

	return nil
}

// GetDomain retrieves a domain configuration by domain name.
func (r *Repository) GetDomain(ctx context.Context, domain string) (*model.DomainConfiguration, error) {
	query := `SELECT ` + domainColumns + ` FROM domain_configurations WHERE domain = $1`

	d, err := scanDomain(r.pool.QueryRow(ctx, query, domain))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDomainNotFound
		}
		return nil, fmt.Errorf("failed to get domain configuration: %w", err)
	}

	return d, nil
}

// UpdateDomain updates a domain configuration's mutable fields.
func (r *Repository) UpdateDomain(ctx context.Context, d *model.DomainConfiguration) error {
	query := `
		UPDATE domain_configurations
		SET account_id = $2, domain_type = $3, is_verified = $4, is_active = $5,
		    ssl_status = $6, ssl_issued_at = $7, ssl_expires_at = $8,
		    use_caddy = $9, notes = $10, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		d.ID,
		d.AccountID,
		d.DomainType,
		d.IsVerified,
		d.IsActive,
		d.SSLStatus,
		d.SSLIssuedAt,
		d.SSLExpiresAt,
		d.UseCaddy,
		d.Notes,
	)

	if err != nil {
		return fmt.Errorf("failed to update domain configuration: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDomainNotFound
	}

	return nil
}

// DeactivateDomain soft-deletes a domain configuration.
func (r *Repository) DeactivateDomain(ctx context.Context, domain string) error {
	query := `
		UPDATE domain_configurations
		SET is_active = FALSE, updated_at = NOW()
		WHERE domain = $1
	`

	result, err := r.pool.Exec(ctx, query, domain)
	if err != nil {
		return fmt.Errorf("failed to deactivate domain: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDomainNotFound
	}

	return nil
}

// DeleteDomain permanently removes a domain configuration.
func (r *Repository) DeleteDomain(ctx context.Context, domain string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM domain_configurations WHERE domain = $1`, domain)
	if err != nil {
		return fmt.Errorf("failed to delete domain: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDomainNotFound
	}

	return nil
}

// ListDomainsByAccount returns an account's domains, newest first.
func (r *Repository) ListDomainsByAccount(ctx context.Context, accountID int64, activeOnly bool) ([]*model.DomainConfiguration, error) {
	query := `SELECT ` + domainColumns + ` FROM domain_configurations WHERE account_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY configured_at DESC`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []*model.DomainConfiguration
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating domains: %w", err)
	}

	return domains, nil
}

// UpdateDomainSSL updates the certificate lifecycle fields for a domain.
// Marking SSL active also marks the domain verified.
func (r *Repository) UpdateDomainSSL(ctx context.Context, domain string, status model.SSLStatus, issuedAt, expiresAt *time.Time) (*model.DomainConfiguration, error) {
	d, err := r.GetDomain(ctx, domain)
	if err != nil {
		return nil, err
	}

	d.SSLStatus = status
	if issuedAt != nil {
		d.SSLIssuedAt = issuedAt
	}
	if expiresAt != nil {
		d.SSLExpiresAt = expiresAt
	}
	if status == model.SSLStatusActive {
		d.IsVerified = true
	}

	if err := r.UpdateDomain(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

// DomainAllowed reports whether a domain exists and is active.
// Consulted by the reverse proxy before on-demand certificate issuance.
func (r *Repository) DomainAllowed(ctx context.Context, domain string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM domain_configurations WHERE domain = $1 AND is_active = TRUE)`

	var allowed bool
	if err := r.pool.QueryRow(ctx, query, domain).Scan(&allowed); err != nil {
		return false, fmt.Errorf("failed to check domain allowance: %w", err)
	}

	return allowed, nil
}

// scanDomain scans a single row into a DomainConfiguration model.
func scanDomain(row pgx.Row) (*model.DomainConfiguration, error) {
	var d model.DomainConfiguration
	err := row.Scan(
		&d.ID,
		&d.Domain,
		&d.AccountID,
		&d.DomainType,
		&d.IsVerified,
		&d.IsActive,
		&d.SSLStatus,
		&d.SSLIssuedAt,
		&d.SSLExpiresAt,
		&d.UseCaddy,
		&d.Notes,
		&d.ConfiguredAt,
		&d.UpdatedAt,
	)
	return &d, err
}
