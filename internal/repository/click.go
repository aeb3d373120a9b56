package repository

import (
	"context"
	"fmt"

	"github.com/hostlink/hostlink/internal/model"
)

// InsertClick records a single click for a short URL.
func (r *Repository) InsertClick(ctx context.Context, c *model.Click) error {
	query := `
		INSERT INTO click_analytics (id, short_url_id, ip_address, user_agent, referer, country, city, clicked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.ShortURLID,
		nullableString(c.IPAddress),
		nullableString(c.UserAgent),
		nullableString(c.Referer),
		nullableString(c.Country),
		nullableString(c.City),
		c.ClickedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert click: %w", err)
	}

	return nil
}

// CountClicks counts the click rows for a short URL.
// Tracked independently from the denormalized clicks counter.
func (r *Repository) CountClicks(ctx context.Context, shortURLID string) (int64, error) {
	query := `SELECT COUNT(*) FROM click_analytics WHERE short_url_id = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, shortURLID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count clicks: %w", err)
	}

	return count, nil
}

// RecentClicks returns the most recent click rows for a short URL.
func (r *Repository) RecentClicks(ctx context.Context, shortURLID string, limit int) ([]*model.Click, error) {
	query := `
		SELECT id, short_url_id, COALESCE(ip_address::text, ''), COALESCE(user_agent, ''), COALESCE(referer, ''), COALESCE(country, ''), COALESCE(city, ''), clicked_at
		FROM click_analytics
		WHERE short_url_id = $1
		ORDER BY clicked_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, shortURLID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent clicks: %w", err)
	}
	defer rows.Close()

	var clicks []*model.Click
	for rows.Next() {
		var c model.Click
		if err := rows.Scan(
			&c.ID,
			&c.ShortURLID,
			&c.IPAddress,
			&c.UserAgent,
			&c.Referer,
			&c.Country,
			&c.City,
			&c.ClickedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan click: %w", err)
		}
		clicks = append(clicks, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clicks: %w", err)
	}

	return clicks, nil
}

// ClicksByDay maps UTC calendar days to click counts for a short URL.
func (r *Repository) ClicksByDay(ctx context.Context, shortURLID string) (map[string]int64, error) {
	query := `
		SELECT to_char(clicked_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
		FROM click_analytics
		WHERE short_url_id = $1
		GROUP BY day
		ORDER BY day
	`

	return r.countGrouped(ctx, query, shortURLID)
}

// ClicksByCountry maps country codes to click counts for a short URL.
// Clicks without a resolved country are omitted.
func (r *Repository) ClicksByCountry(ctx context.Context, shortURLID string) (map[string]int64, error) {
	query := `
		SELECT country, COUNT(*)
		FROM click_analytics
		WHERE short_url_id = $1 AND country IS NOT NULL AND country <> ''
		GROUP BY country
		ORDER BY COUNT(*) DESC
	`

	return r.countGrouped(ctx, query, shortURLID)
}

// countGrouped runs a (key, count) aggregation query into a map.
func (r *Repository) countGrouped(ctx context.Context, query string, args ...any) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query grouped counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan grouped count: %w", err)
		}
		counts[key] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grouped counts: %w", err)
	}

	return counts, nil
}

// nullableString converts an empty string to nil for nullable columns.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
