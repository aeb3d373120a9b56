package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hostlink/hostlink/internal/model"
)

// Common errors for short URL repository operations.
var (
	ErrShortURLNotFound = errors.New("short url not found")
	ErrCodeTaken        = errors.New("short code already exists for domain")
)

// CreateShortURL inserts a new short URL.
// The UNIQUE (domain, short_code) constraint is the source of truth for
// uniqueness; a violation is reported as ErrCodeTaken.
func (r *Repository) CreateShortURL(ctx context.Context, s *model.ShortURL) error {
	query := `
		INSERT INTO short_urls (id, short_code, original_url, domain, title, clicks, expires_at, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.ShortCode,
		s.OriginalURL,
		s.Domain,
		s.Title,
		s.Clicks,
		s.ExpiresAt,
		s.IsActive,
		s.CreatedAt,
		s.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrCodeTaken
		}
		return fmt.Errorf("failed to create short url: %w", err)
	}

	return nil
}

// GetShortURL retrieves a short URL by (domain, short_code).
// This is the hot path for redirects.
func (r *Repository) GetShortURL(ctx context.Context, domain, shortCode string) (*model.ShortURL, error) {
	query := `
		SELECT id, short_code, original_url, domain, title, clicks, expires_at, is_active, created_at, updated_at
		FROM short_urls
		WHERE domain = $1 AND short_code = $2
	`

	s, err := scanShortURL(r.pool.QueryRow(ctx, query, domain, shortCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShortURLNotFound
		}
		return nil, fmt.Errorf("failed to get short url: %w", err)
	}

	return s, nil
}

// ListShortURLs retrieves short URLs for a domain, newest first.
func (r *Repository) ListShortURLs(ctx context.Context, domain string, limit int) ([]*model.ShortURL, error) {
	query := `
		SELECT id, short_code, original_url, domain, title, clicks, expires_at, is_active, created_at, updated_at
		FROM short_urls
		WHERE domain = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, domain, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list short urls: %w", err)
	}
	defer rows.Close()

	var urls []*model.ShortURL
	for rows.Next() {
		s, err := scanShortURL(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan short url: %w", err)
		}
		urls = append(urls, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating short urls: %w", err)
	}

	return urls, nil
}

// UpdateShortURL updates a short URL's mutable fields.
func (r *Repository) UpdateShortURL(ctx context.Context, s *model.ShortURL) error {
	query := `
		UPDATE short_urls
		SET original_url = $2, title = $3, expires_at = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		s.ID,
		s.OriginalURL,
		s.Title,
		s.ExpiresAt,
		s.IsActive,
	)

	if err != nil {
		return fmt.Errorf("failed to update short url: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrShortURLNotFound
	}

	return nil
}

// DeactivateShortURL soft-deletes a short URL by clearing is_active.
func (r *Repository) DeactivateShortURL(ctx context.Context, id string) error {
	query := `
		UPDATE short_urls
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate short url: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrShortURLNotFound
	}

	return nil
}

// DeleteShortURL permanently removes a short URL.
// Click rows cascade-delete with it.
func (r *Repository) DeleteShortURL(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM short_urls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete short url: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrShortURLNotFound
	}

	return nil
}

// IncrementClicks increments the click counter in place.
// The counter update runs relative to the stored value so concurrent
// clicks on the same code never lose updates.
func (r *Repository) IncrementClicks(ctx context.Context, id string) error {
	query := `
		UPDATE short_urls
		SET clicks = clicks + 1
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment clicks: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrShortURLNotFound
	}

	return nil
}

// CodeExists checks if a (domain, short_code) pair already exists.
// The check is advisory; CreateShortURL's constraint closes the race.
func (r *Repository) CodeExists(ctx context.Context, domain, shortCode string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM short_urls WHERE domain = $1 AND short_code = $2)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, domain, shortCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check short code existence: %w", err)
	}

	return exists, nil
}

// scanShortURL scans a single row into a ShortURL model.
func scanShortURL(row pgx.Row) (*model.ShortURL, error) {
	var s model.ShortURL
	err := row.Scan(
		&s.ID,
		&s.ShortCode,
		&s.OriginalURL,
		&s.Domain,
		&s.Title,
		&s.Clicks,
		&s.ExpiresAt,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return &s, err
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	// PostgreSQL error code 23505 is unique_violation
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "unique")
}
