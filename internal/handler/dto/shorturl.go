// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/hostlink/hostlink/internal/model"
)

// CreateShortURLRequest represents the request body for shortening a URL.
type CreateShortURLRequest struct {
	OriginalURL string     `json:"original_url"`
	CustomCode  string     `json:"custom_code,omitempty"`
	Domain      string     `json:"domain,omitempty"`
	Title       string     `json:"title,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// UpdateShortURLRequest represents the request body for updating a short URL.
type UpdateShortURLRequest struct {
	OriginalURL *string    `json:"original_url,omitempty"`
	Title       *string    `json:"title,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	ClearExpiry bool       `json:"clear_expiry,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

// ShortURLResponse represents a short URL in API responses.
type ShortURLResponse struct {
	ID           string     `json:"id"`
	ShortCode    string     `json:"short_code"`
	Domain       string     `json:"domain"`
	OriginalURL  string     `json:"original_url"`
	FullShortURL string     `json:"full_short_url"`
	Title        string     `json:"title,omitempty"`
	Clicks       int64      `json:"clicks"`
	Status       string     `json:"status"`
	IsExpired    bool       `json:"is_expired"`
	IsActive     bool       `json:"is_active"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ShortURLListResponse represents a list of short URLs.
type ShortURLListResponse struct {
	Data  []ShortURLResponse `json:"data"`
	Total int                `json:"total"`
}

// ClickResponse represents a single click in stats responses.
type ClickResponse struct {
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Referer   string    `json:"referer,omitempty"`
	Country   string    `json:"country,omitempty"`
	City      string    `json:"city,omitempty"`
	ClickedAt time.Time `json:"clicked_at"`
}

// StatsResponse represents aggregated analytics for a short URL.
type StatsResponse struct {
	ShortURL        ShortURLResponse `json:"short_url"`
	TotalClicks     int64            `json:"total_clicks"`
	RecentClicks    []ClickResponse  `json:"recent_clicks"`
	ClicksByDay     map[string]int64 `json:"clicks_by_day"`
	ClicksByCountry map[string]int64 `json:"clicks_by_country"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ToShortURLResponse converts a model to its API representation.
func ToShortURLResponse(s *model.ShortURL) ShortURLResponse {
	return ShortURLResponse{
		ID:           s.ID,
		ShortCode:    s.ShortCode,
		Domain:       s.Domain,
		OriginalURL:  s.OriginalURL,
		FullShortURL: s.FullShortURL(),
		Title:        s.Title,
		Clicks:       s.Clicks,
		Status:       string(s.Status()),
		IsExpired:    s.IsExpired(),
		IsActive:     s.IsActive,
		ExpiresAt:    s.ExpiresAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ToShortURLListResponse converts a slice of models to a list response.
func ToShortURLListResponse(urls []*model.ShortURL) ShortURLListResponse {
	data := make([]ShortURLResponse, 0, len(urls))
	for _, s := range urls {
		data = append(data, ToShortURLResponse(s))
	}
	return ShortURLListResponse{Data: data, Total: len(data)}
}

// ToStatsResponse converts aggregated stats to an API response.
func ToStatsResponse(stats *model.Stats) StatsResponse {
	recent := make([]ClickResponse, 0, len(stats.RecentClicks))
	for _, c := range stats.RecentClicks {
		recent = append(recent, ClickResponse{
			IPAddress: c.IPAddress,
			UserAgent: c.UserAgent,
			Referer:   c.Referer,
			Country:   c.Country,
			City:      c.City,
			ClickedAt: c.ClickedAt,
		})
	}
	return StatsResponse{
		ShortURL:        ToShortURLResponse(stats.ShortURL),
		TotalClicks:     stats.TotalClicks,
		RecentClicks:    recent,
		ClicksByDay:     stats.ClicksByDay,
		ClicksByCountry: stats.ClicksByCountry,
	}
}
