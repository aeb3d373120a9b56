// Package model defines domain entities for the application.
package model

import (
	"strconv"
	"time"
)

// ShortURLStatus represents the computed status of a short URL.
type ShortURLStatus string

const (
	ShortURLStatusActive   ShortURLStatus = "active"
	ShortURLStatusExpired  ShortURLStatus = "expired"
	ShortURLStatusInactive ShortURLStatus = "inactive"
)

// ShortURL represents a shortened URL scoped to a domain.
// The pair (Domain, ShortCode) is unique across all rows.
type ShortURL struct {
	ID          string     `json:"id"`
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	Domain      string     `json:"domain"`
	Title       string     `json:"title"`
	Clicks      int64      `json:"clicks"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Status computes the current status of the short URL.
func (s *ShortURL) Status() ShortURLStatus {
	if !s.IsActive {
		return ShortURLStatusInactive
	}
	if s.IsExpired() {
		return ShortURLStatusExpired
	}
	return ShortURLStatusActive
}

// IsExpired returns true if the URL has time-based expiry in the past.
func (s *ShortURL) IsExpired() bool {
	return s.ExpiresAt != nil && time.Now().After(*s.ExpiresAt)
}

// FullShortURL returns the complete short URL for this entry.
func (s *ShortURL) FullShortURL() string {
	return "https://" + s.Domain + "/" + s.ShortCode
}

// CachedShortURL represents short URL data stored in Redis.
// Uses string types for Redis hash compatibility.
type CachedShortURL struct {
	ID          string `redis:"id"`
	OriginalURL string `redis:"original_url"`
	Title       string `redis:"title"`
	ExpiresAt   string `redis:"expires_at"` // Unix timestamp or empty
	IsActive    string `redis:"is_active"`  // "1" or "0"
	UpdatedAt   string `redis:"updated_at"` // Unix timestamp
}

// ToShortURL converts CachedShortURL to the ShortURL domain model.
// A malformed expires_at value deserializes to no expiry so that bad
// cache data never blocks a legitimate redirect.
func (c *CachedShortURL) ToShortURL(domain, shortCode string) *ShortURL {
	s := &ShortURL{
		ID:          c.ID,
		ShortCode:   shortCode,
		OriginalURL: c.OriginalURL,
		Domain:      domain,
		Title:       c.Title,
		IsActive:    c.IsActive == "1",
	}

	if c.ExpiresAt != "" {
		if ts, err := strconv.ParseInt(c.ExpiresAt, 10, 64); err == nil {
			t := time.Unix(ts, 0)
			s.ExpiresAt = &t
		}
	}

	if c.UpdatedAt != "" {
		if ts, err := strconv.ParseInt(c.UpdatedAt, 10, 64); err == nil {
			s.UpdatedAt = time.Unix(ts, 0)
		}
	}

	return s
}

// ToCachedShortURL converts the domain model to its Redis representation.
func (s *ShortURL) ToCachedShortURL() *CachedShortURL {
	cached := &CachedShortURL{
		ID:          s.ID,
		OriginalURL: s.OriginalURL,
		Title:       s.Title,
		IsActive:    boolToString(s.IsActive),
		UpdatedAt:   strconv.FormatInt(s.UpdatedAt.Unix(), 10),
	}

	if s.ExpiresAt != nil {
		cached.ExpiresAt = strconv.FormatInt(s.ExpiresAt.Unix(), 10)
	}

	return cached
}

// boolToString converts boolean to "1" or "0".
func boolToString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
