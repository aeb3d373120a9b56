// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hostlink/hostlink/internal/cache"
	"github.com/hostlink/hostlink/internal/metrics"
	"github.com/hostlink/hostlink/internal/model"
	"github.com/hostlink/hostlink/internal/repository"
)

// Service errors.
var (
	ErrInvalidURL          = errors.New("invalid original URL")
	ErrURLTooLong          = errors.New("original URL too long")
	ErrInvalidCode         = errors.New("invalid short code format")
	ErrCodeExists          = errors.New("short code already exists")
	ErrNotFound            = errors.New("short URL not found")
	ErrInactive            = errors.New("short URL is inactive")
	ErrExpired             = errors.New("short URL is expired")
	ErrAllocationExhausted = errors.New("could not allocate a unique short code")
)

// Custom code validation regex: 1-10 chars, alphanumeric + hyphen.
var codeRegex = regexp.MustCompile(`^[a-zA-Z0-9-]{1,10}$`)

const (
	maxOriginalURLLength = 2048
	maxTitleLength       = 255
	maxCodeRetries       = 10
)

// ShortURLService handles short URL business logic.
type ShortURLService struct {
	repo          *repository.Repository
	cache         *cache.Cache
	defaultDomain string
	logger        *slog.Logger
	metrics       metrics.Recorder
}

// NewShortURLService creates a new ShortURLService.
func NewShortURLService(repo *repository.Repository, cache *cache.Cache, defaultDomain string, logger *slog.Logger, recorder metrics.Recorder) *ShortURLService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ShortURLService{
		repo:          repo,
		cache:         cache,
		defaultDomain: strings.ToLower(defaultDomain),
		logger:        logger.With("component", "service.shorturl"),
		metrics:       recorder,
	}
}

// CreateShortURLInput defines input for creating a short URL.
type CreateShortURLInput struct {
	OriginalURL string
	CustomCode  string
	Domain      string
	Title       string
	ExpiresAt   *time.Time
}

// Create creates a new short URL. When no custom code is supplied a random
// code is allocated, retrying on collision and widening the code length once
// before giving up.
func (s *ShortURLService) Create(ctx context.Context, input CreateShortURLInput) (*model.ShortURL, error) {
	if err := validateOriginalURL(input.OriginalURL); err != nil {
		return nil, err
	}

	domain := s.resolveDomain(input.Domain)

	title := input.Title
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}

	now := time.Now().UTC()
	shortURL := &model.ShortURL{
		ID:          ulid.Make().String(),
		OriginalURL: input.OriginalURL,
		Domain:      domain,
		Title:       title,
		ExpiresAt:   input.ExpiresAt,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.CustomCode != "" {
		if !codeRegex.MatchString(input.CustomCode) {
			return nil, ErrInvalidCode
		}
		shortURL.ShortCode = input.CustomCode
		if err := s.repo.CreateShortURL(ctx, shortURL); err != nil {
			if errors.Is(err, repository.ErrCodeTaken) {
				return nil, ErrCodeExists
			}
			return nil, fmt.Errorf("failed to create short URL: %w", err)
		}
		s.metrics.IncShortURLCreated()
		return shortURL, nil
	}

	if err := s.createWithGeneratedCode(ctx, shortURL); err != nil {
		return nil, err
	}

	s.metrics.IncShortURLCreated()
	return shortURL, nil
}

// createWithGeneratedCode allocates a random code and inserts the row. The
// unique constraint on (domain, short_code) is the source of truth; the
// existence pre-check only cuts down on wasted inserts under contention.
func (s *ShortURLService) createWithGeneratedCode(ctx context.Context, shortURL *model.ShortURL) error {
	for i := 0; i < maxCodeRetries; i++ {
		code, err := GenerateCode(defaultCodeLength)
		if err != nil {
			return fmt.Errorf("failed to generate short code: %w", err)
		}

		exists, err := s.repo.CodeExists(ctx, shortURL.Domain, code)
		if err != nil {
			return fmt.Errorf("failed to check short code: %w", err)
		}
		if exists {
			continue
		}

		shortURL.ShortCode = code
		err = s.repo.CreateShortURL(ctx, shortURL)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrCodeTaken) {
			return fmt.Errorf("failed to create short URL: %w", err)
		}
	}

	// Widen once before giving up.
	code, err := GenerateCode(widenedCodeLength)
	if err != nil {
		return fmt.Errorf("failed to generate short code: %w", err)
	}
	shortURL.ShortCode = code
	err = s.repo.CreateShortURL(ctx, shortURL)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrCodeTaken) {
		return ErrAllocationExhausted
	}
	return fmt.Errorf("failed to create short URL: %w", err)
}

// Resolve resolves a short code to its target for redirect.
// This is the hot path, optimized with a cache-first lookup.
func (s *ShortURLService) Resolve(ctx context.Context, domain, shortCode string) (*model.ShortURL, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRedirectDuration(time.Since(start))
	}()

	domain = s.resolveDomain(domain)

	cached, err := s.cache.GetShortURL(ctx, domain, shortCode)
	if err == nil {
		s.metrics.IncRedirectCacheHit()
		return s.validateResolved(ctx, cached.ToShortURL(domain, shortCode))
	}

	if errors.Is(err, cache.ErrCacheMiss) {
		s.metrics.IncRedirectCacheMiss()
		isNegative, _ := s.cache.IsNegativelyCached(ctx, domain, shortCode)
		if isNegative {
			return nil, ErrNotFound
		}
	}
	// On a Redis error fall through to the database.

	shortURL, err := s.repo.GetShortURL(ctx, domain, shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrShortURLNotFound) {
			if nerr := s.cache.SetNegativeCache(ctx, domain, shortCode); nerr != nil {
				s.logger.Debug("negative cache write failed",
					"domain", domain,
					"short_code", shortCode,
					"error", nerr,
				)
			}
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.cache.SetShortURL(ctx, shortURL); err != nil {
		// Backfill is best-effort; the next miss retries it.
		s.logger.Warn("cache backfill failed",
			"domain", domain,
			"short_code", shortCode,
			"error", err,
		)
	}

	return s.validateResolved(ctx, shortURL)
}

// Get retrieves a short URL by domain and code without redirect semantics.
func (s *ShortURLService) Get(ctx context.Context, domain, shortCode string) (*model.ShortURL, error) {
	shortURL, err := s.repo.GetShortURL(ctx, s.resolveDomain(domain), shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrShortURLNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return shortURL, nil
}

// List retrieves short URLs for a domain, newest first.
func (s *ShortURLService) List(ctx context.Context, domain string, limit int) ([]*model.ShortURL, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListShortURLs(ctx, s.resolveDomain(domain), limit)
}

// Stats aggregates click analytics for a short URL.
func (s *ShortURLService) Stats(ctx context.Context, domain, shortCode string) (*model.Stats, error) {
	shortURL, err := s.Get(ctx, domain, shortCode)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountClicks(ctx, shortURL.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count clicks: %w", err)
	}

	recent, err := s.repo.RecentClicks(ctx, shortURL.ID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent clicks: %w", err)
	}

	byDay, err := s.repo.ClicksByDay(ctx, shortURL.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate clicks by day: %w", err)
	}

	byCountry, err := s.repo.ClicksByCountry(ctx, shortURL.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate clicks by country: %w", err)
	}

	return &model.Stats{
		ShortURL:        shortURL,
		TotalClicks:     total,
		RecentClicks:    recent,
		ClicksByDay:     byDay,
		ClicksByCountry: byCountry,
	}, nil
}

// UpdateShortURLInput defines input for updating a short URL.
type UpdateShortURLInput struct {
	Domain      string
	ShortCode   string
	OriginalURL *string
	Title       *string
	ExpiresAt   *time.Time
	ClearExpiry bool
	IsActive    *bool
}

// Update updates a short URL's mutable fields and invalidates its cache entry.
func (s *ShortURLService) Update(ctx context.Context, input UpdateShortURLInput) (*model.ShortURL, error) {
	shortURL, err := s.Get(ctx, input.Domain, input.ShortCode)
	if err != nil {
		return nil, err
	}

	if input.OriginalURL != nil {
		if err := validateOriginalURL(*input.OriginalURL); err != nil {
			return nil, err
		}
		shortURL.OriginalURL = *input.OriginalURL
	}

	if input.Title != nil {
		title := *input.Title
		if len(title) > maxTitleLength {
			title = title[:maxTitleLength]
		}
		shortURL.Title = title
	}

	if input.ClearExpiry {
		shortURL.ExpiresAt = nil
	} else if input.ExpiresAt != nil {
		shortURL.ExpiresAt = input.ExpiresAt
	}

	if input.IsActive != nil {
		shortURL.IsActive = *input.IsActive
	}

	if err := s.repo.UpdateShortURL(ctx, shortURL); err != nil {
		return nil, err
	}

	s.metrics.IncShortURLUpdated()
	s.invalidate(ctx, shortURL)

	return shortURL, nil
}

// Deactivate soft-deletes a short URL so it stops resolving.
func (s *ShortURLService) Deactivate(ctx context.Context, domain, shortCode string) error {
	shortURL, err := s.Get(ctx, domain, shortCode)
	if err != nil {
		return err
	}

	if err := s.repo.DeactivateShortURL(ctx, shortURL.ID); err != nil {
		return err
	}

	s.metrics.IncShortURLDeleted()
	s.invalidate(ctx, shortURL)

	return nil
}

// Delete permanently removes a short URL and its click history.
func (s *ShortURLService) Delete(ctx context.Context, domain, shortCode string) error {
	shortURL, err := s.Get(ctx, domain, shortCode)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteShortURL(ctx, shortURL.ID); err != nil {
		return err
	}

	s.metrics.IncShortURLDeleted()
	s.invalidate(ctx, shortURL)

	return nil
}

// resolveDomain applies the domain fallback chain.
func (s *ShortURLService) resolveDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return s.defaultDomain
	}
	return domain
}

// validateResolved checks whether a resolved short URL may redirect.
func (s *ShortURLService) validateResolved(ctx context.Context, shortURL *model.ShortURL) (*model.ShortURL, error) {
	if !shortURL.IsActive {
		s.invalidate(ctx, shortURL)
		return nil, ErrInactive
	}
	if shortURL.IsExpired() {
		s.invalidate(ctx, shortURL)
		return nil, ErrExpired
	}
	return shortURL, nil
}

// invalidate drops the cache entry for a short URL. Failures are tolerated;
// the entry expires on its own TTL.
func (s *ShortURLService) invalidate(ctx context.Context, shortURL *model.ShortURL) {
	if err := s.cache.DeleteShortURL(ctx, shortURL.Domain, shortURL.ShortCode); err != nil {
		s.logger.Warn("cache invalidation failed",
			"domain", shortURL.Domain,
			"short_code", shortURL.ShortCode,
			"error", err,
		)
	}
}

// validateOriginalURL validates a target URL.
func validateOriginalURL(raw string) error {
	if raw == "" {
		return ErrInvalidURL
	}
	if len(raw) > maxOriginalURLLength {
		return ErrURLTooLong
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return ErrInvalidURL
	}
	// Must have something after the scheme.
	rest := strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if rest == "" || strings.HasPrefix(rest, "/") {
		return ErrInvalidURL
	}
	return nil
}
