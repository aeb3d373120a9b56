package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hostlink/hostlink/internal/model"
)

// Cache key prefixes and TTLs.
const (
	urlKeyPrefix      = "url:"
	negCacheKeySuffix = ":neg"

	// DefaultShortURLTTL is the TTL for cached short URL data.
	DefaultShortURLTTL = 24 * time.Hour

	// NegativeCacheTTL is the TTL for negative cache entries.
	NegativeCacheTTL = 5 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// shortURLKey builds the Redis key for a (domain, code) pair.
// The namespace is segmented by domain exactly like the store.
func shortURLKey(domain, shortCode string) string {
	return urlKeyPrefix + domain + ":" + shortCode
}

// GetShortURL retrieves a short URL from cache by (domain, code).
// Returns ErrCacheMiss if not found.
func (c *Cache) GetShortURL(ctx context.Context, domain, shortCode string) (*model.CachedShortURL, error) {
	key := shortURLKey(domain, shortCode)

	result, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	cached := &model.CachedShortURL{
		ID:          result["id"],
		OriginalURL: result["original_url"],
		Title:       result["title"],
		ExpiresAt:   result["expires_at"],
		IsActive:    result["is_active"],
		UpdatedAt:   result["updated_at"],
	}

	return cached, nil
}

// SetShortURL stores a short URL in cache.
func (c *Cache) SetShortURL(ctx context.Context, s *model.ShortURL) error {
	key := shortURLKey(s.Domain, s.ShortCode)
	cached := s.ToCachedShortURL()

	ttl := DefaultShortURLTTL
	if s.ExpiresAt != nil {
		expiresIn := time.Until(*s.ExpiresAt)
		if expiresIn <= 0 {
			c.client.Del(ctx, key, key+negCacheKeySuffix)
			return nil
		}
		if expiresIn < ttl {
			ttl = expiresIn
		}
	}

	fields := map[string]any{
		"id":           cached.ID,
		"original_url": cached.OriginalURL,
		"title":        cached.Title,
		"is_active":    cached.IsActive,
		"updated_at":   cached.UpdatedAt,
	}

	// Only set the expiry field if it has a value
	if cached.ExpiresAt != "" {
		fields["expires_at"] = cached.ExpiresAt
	}

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, ttl)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to cache short url: %w", err)
	}

	// Remove negative cache if exists
	c.client.Del(ctx, key+negCacheKeySuffix)

	return nil
}

// DeleteShortURL removes a short URL from cache.
// Called on update, deactivation, expiry and delete.
func (c *Cache) DeleteShortURL(ctx context.Context, domain, shortCode string) error {
	key := shortURLKey(domain, shortCode)

	pipe := c.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.Del(ctx, key+negCacheKeySuffix)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete short url from cache: %w", err)
	}

	return nil
}

// IsNegativelyCached checks if a (domain, code) pair is in negative cache.
func (c *Cache) IsNegativelyCached(ctx context.Context, domain, shortCode string) (bool, error) {
	key := shortURLKey(domain, shortCode) + negCacheKeySuffix

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}

	return exists > 0, nil
}

// SetNegativeCache marks a (domain, code) pair as not found.
func (c *Cache) SetNegativeCache(ctx context.Context, domain, shortCode string) error {
	key := shortURLKey(domain, shortCode) + negCacheKeySuffix

	err := c.client.SetEx(ctx, key, "", NegativeCacheTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set negative cache: %w", err)
	}

	return nil
}
