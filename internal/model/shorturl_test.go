package model

import (
	"testing"
	"time"
)

func TestShortURL_Status(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-time.Second)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name string
		url  ShortURL
		want ShortURLStatus
	}{
		{"active", ShortURL{IsActive: true}, ShortURLStatusActive},
		{"inactive", ShortURL{IsActive: false}, ShortURLStatusInactive},
		{"expired", ShortURL{IsActive: true, ExpiresAt: &past}, ShortURLStatusExpired},
		{"not_yet_expired", ShortURL{IsActive: true, ExpiresAt: &future}, ShortURLStatusActive},
		{"inactive_wins_over_expired", ShortURL{IsActive: false, ExpiresAt: &past}, ShortURLStatusInactive},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.url.Status(); got != tt.want {
				t.Errorf("Status() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestShortURL_FullShortURL(t *testing.T) {
	t.Parallel()

	s := &ShortURL{Domain: "go.example", ShortCode: "promo1"}
	if got := s.FullShortURL(); got != "https://go.example/promo1" {
		t.Errorf("FullShortURL() = %s", got)
	}
}

func TestShortURL_ToCachedShortURL(t *testing.T) {
	t.Parallel()

	expiresAt := time.Unix(1700000000, 0)
	s := &ShortURL{
		OriginalURL: "https://example.com/page",
		Title:       "Example",
		IsActive:    true,
		ExpiresAt:   &expiresAt,
		UpdatedAt:   time.Unix(1690000000, 0),
	}

	cached := s.ToCachedShortURL()

	if cached.OriginalURL != "https://example.com/page" {
		t.Errorf("OriginalURL = %s", cached.OriginalURL)
	}
	if cached.IsActive != "1" {
		t.Errorf("IsActive = %s, want 1", cached.IsActive)
	}
	if cached.ExpiresAt != "1700000000" {
		t.Errorf("ExpiresAt = %s, want 1700000000", cached.ExpiresAt)
	}
	if cached.UpdatedAt != "1690000000" {
		t.Errorf("UpdatedAt = %s, want 1690000000", cached.UpdatedAt)
	}
}

func TestShortURL_ToCachedShortURL_NoExpiry(t *testing.T) {
	t.Parallel()

	s := &ShortURL{OriginalURL: "https://example.com", IsActive: false, UpdatedAt: time.Now()}

	cached := s.ToCachedShortURL()

	if cached.ExpiresAt != "" {
		t.Errorf("ExpiresAt should be empty, got %s", cached.ExpiresAt)
	}
	if cached.IsActive != "0" {
		t.Errorf("IsActive = %s, want 0", cached.IsActive)
	}
}

func TestCachedShortURL_ToShortURL(t *testing.T) {
	t.Parallel()

	cached := &CachedShortURL{
		OriginalURL: "https://example.com/page",
		Title:       "Example",
		ExpiresAt:   "1700000000",
		IsActive:    "1",
		UpdatedAt:   "1690000000",
	}

	s := cached.ToShortURL("go.example", "promo1")

	if s.Domain != "go.example" || s.ShortCode != "promo1" {
		t.Errorf("identity = %s/%s", s.Domain, s.ShortCode)
	}
	if !s.IsActive {
		t.Error("IsActive should be true")
	}
	if s.ExpiresAt == nil || s.ExpiresAt.Unix() != 1700000000 {
		t.Errorf("ExpiresAt = %v", s.ExpiresAt)
	}
}

func TestCachedShortURL_RoundTripKeepsID(t *testing.T) {
	t.Parallel()

	// The ID must survive the cache round trip. Cache-hit redirects record
	// clicks against it, so losing it would silently drop all analytics
	// for warm-cache traffic.
	s := &ShortURL{
		ID:          "01HV4QZJ8NVMW7T5Y2K3R9XDEF",
		OriginalURL: "https://example.com/page",
		Domain:      "go.example",
		ShortCode:   "promo1",
		IsActive:    true,
		UpdatedAt:   time.Unix(1690000000, 0),
	}

	got := s.ToCachedShortURL().ToShortURL(s.Domain, s.ShortCode)

	if got.ID != s.ID {
		t.Errorf("ID = %q after cache round trip, want %q", got.ID, s.ID)
	}
}

func TestCachedShortURL_ToShortURL_MalformedExpiry(t *testing.T) {
	t.Parallel()

	// Malformed expiry data must never block a redirect: it deserializes
	// to no expiry instead of an error.
	cached := &CachedShortURL{
		OriginalURL: "https://example.com",
		ExpiresAt:   "not-a-timestamp",
		IsActive:    "1",
	}

	s := cached.ToShortURL("go.example", "abc123")

	if s.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil for malformed value", s.ExpiresAt)
	}
	if s.IsExpired() {
		t.Error("malformed expiry must not report expired")
	}
	if s.Status() != ShortURLStatusActive {
		t.Errorf("Status() = %s, want active", s.Status())
	}
}
