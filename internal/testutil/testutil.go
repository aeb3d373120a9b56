// Package testutil provides helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hostlink/hostlink/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 730731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates all tables for tests.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	steps := []string{
		"000003_domain_configurations.down.sql",
		"000002_click_analytics.down.sql",
		"000001_short_urls.down.sql",
		"000001_short_urls.up.sql",
		"000002_click_analytics.up.sql",
		"000003_domain_configurations.up.sql",
	}

	for _, name := range steps {
		sql, err := os.ReadFile(filepath.Join(root, "migrations", name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

var seq atomic.Int64

// NewTestShortURL creates a test short URL with sensible defaults.
func NewTestShortURL(t testing.TB, domain, shortCode string) *model.ShortURL {
	t.Helper()
	now := time.Now().UTC()
	return &model.ShortURL{
		ID:          UniqueID("url"),
		ShortCode:   shortCode,
		OriginalURL: "https://example.com/" + shortCode,
		Domain:      domain,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestShortURLWithExpiry creates a test short URL with an expiry time.
func NewTestShortURLWithExpiry(t testing.TB, domain, shortCode string, expiresAt time.Time) *model.ShortURL {
	t.Helper()
	s := NewTestShortURL(t, domain, shortCode)
	s.ExpiresAt = &expiresAt
	return s
}

// NewTestClick creates a test click row for a short URL.
func NewTestClick(t testing.TB, shortURLID string) *model.Click {
	t.Helper()
	return &model.Click{
		ID:         UniqueID("click"),
		ShortURLID: shortURLID,
		IPAddress:  "203.0.113.9",
		UserAgent:  "test-agent",
		Referer:    "https://referrer.example/",
		Country:    "SE",
		ClickedAt:  time.Now().UTC(),
	}
}

// UniqueShortCode generates a unique short code for tests.
// Codes stay within the 10 character column limit.
func UniqueShortCode(prefix string) string {
	n := seq.Add(1)
	return fmt.Sprintf("%s%06d", prefix, n%1000000)
}

// UniqueDomain generates a unique test domain to isolate code namespaces.
func UniqueDomain(prefix string) string {
	return fmt.Sprintf("%s-%d.test", prefix, time.Now().UnixNano())
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), seq.Add(1))
}
