// Package model defines domain entities for the application.
package model

import "time"

// Click represents a single recorded redirect for a short URL.
// Rows are insert-only and cascade-deleted with their short URL.
type Click struct {
	ID         string `json:"id"`
	ShortURLID string `json:"short_url_id"`

	// Request metadata, all optional.
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Referer   string `json:"referer,omitempty"`

	// Geo enrichment (from CF-IPCountry or a GeoIP lookup).
	Country string `json:"country,omitempty"` // ISO 3166-1 alpha-2
	City    string `json:"city,omitempty"`

	ClickedAt time.Time `json:"clicked_at"`
}

// Stats represents aggregated click statistics for a short URL.
// TotalClicks counts Click rows and is tracked independently from the
// denormalized ShortURL.Clicks counter.
type Stats struct {
	ShortURL        *ShortURL        `json:"short_url"`
	TotalClicks     int64            `json:"total_clicks"`
	RecentClicks    []*Click         `json:"recent_clicks"`
	ClicksByDay     map[string]int64 `json:"clicks_by_day"`     // "2006-01-02" -> count
	ClicksByCountry map[string]int64 `json:"clicks_by_country"` // ISO code -> count
}
