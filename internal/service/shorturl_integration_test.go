//go:build integration

package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/hostlink/hostlink/internal/analytics"
	"github.com/hostlink/hostlink/internal/cache"
	"github.com/hostlink/hostlink/internal/metrics"
	"github.com/hostlink/hostlink/internal/model"
	"github.com/hostlink/hostlink/internal/repository"
	"github.com/hostlink/hostlink/internal/testutil"
)

var (
	envOnce  sync.Once
	envRepo  *repository.Repository
	envCache *cache.Cache
	envErr   error
)

// newTestEnv connects to the test database and Redis once per run.
func newTestEnv(t *testing.T) (context.Context, *repository.Repository, *cache.Cache) {
	t.Helper()
	ctx := context.Background()

	dbURL := testutil.RequireEnv(t, "TEST_DATABASE_URL")
	redisURL := testutil.RequireEnv(t, "TEST_REDIS_URL")

	envOnce.Do(func() {
		repo, err := repository.New(ctx, dbURL)
		if err != nil {
			envErr = err
			return
		}

		unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
		if err != nil {
			envErr = err
			return
		}
		defer unlock()

		if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
			envErr = err
			return
		}

		c, err := cache.New(ctx, redisURL)
		if err != nil {
			envErr = err
			return
		}
		if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
			envErr = err
			return
		}

		envRepo = repo
		envCache = c
	})

	if envErr != nil {
		t.Fatalf("test env setup failed: %v", envErr)
	}

	return ctx, envRepo, envCache
}

func testLoggerDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (context.Context, *ShortURLService) {
	ctx, repo, c := newTestEnv(t)
	return ctx, NewShortURLService(repo, c, "localhost", testLoggerDiscard(), metrics.NewNoop())
}

func TestCreateGeneratesUniqueCode(t *testing.T) {
	ctx, svc := newTestService(t)

	domain := testutil.UniqueDomain("gen")
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		shortURL, err := svc.Create(ctx, CreateShortURLInput{
			OriginalURL: "https://example.com/page",
			Domain:      domain,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if len(shortURL.ShortCode) != defaultCodeLength {
			t.Errorf("generated code %q length = %d, want %d", shortURL.ShortCode, len(shortURL.ShortCode), defaultCodeLength)
		}
		if seen[shortURL.ShortCode] {
			t.Fatalf("duplicate code %q", shortURL.ShortCode)
		}
		seen[shortURL.ShortCode] = true
	}
}

func TestCreateConcurrentGeneratedCodes(t *testing.T) {
	ctx, svc := newTestService(t)

	domain := testutil.UniqueDomain("agen")

	// Generated codes race on the same domain; the unique constraint is
	// the arbiter, so every writer must come back with a distinct code.
	const writers = 16
	var wg sync.WaitGroup
	results := make([]*model.ShortURL, writers)
	errs := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Create(ctx, CreateShortURLInput{
				OriginalURL: "https://example.com/page",
				Domain:      domain,
			})
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, writers)
	for i := 0; i < writers; i++ {
		if errs[i] != nil {
			t.Fatalf("Create %d: %v", i, errs[i])
		}
		code := results[i].ShortCode
		if seen[code] {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = true
	}
}

func TestCreateCustomCodeConflict(t *testing.T) {
	ctx, svc := newTestService(t)

	domain := testutil.UniqueDomain("conflict")
	code := testutil.UniqueShortCode("c")

	if _, err := svc.Create(ctx, CreateShortURLInput{
		OriginalURL: "https://example.com/a",
		CustomCode:  code,
		Domain:      domain,
	}); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err := svc.Create(ctx, CreateShortURLInput{
		OriginalURL: "https://example.com/b",
		CustomCode:  code,
		Domain:      domain,
	})
	if !errors.Is(err, ErrCodeExists) {
		t.Fatalf("second Create error = %v, want ErrCodeExists", err)
	}

	// Same code on another domain is fine
	if _, err := svc.Create(ctx, CreateShortURLInput{
		OriginalURL: "https://example.com/c",
		CustomCode:  code,
		Domain:      testutil.UniqueDomain("other"),
	}); err != nil {
		t.Fatalf("Create on second domain: %v", err)
	}
}

func TestResolveReadThrough(t *testing.T) {
	ctx, svc := newTestService(t)

	domain := testutil.UniqueDomain("resolve")
	created, err := svc.Create(ctx, CreateShortURLInput{
		OriginalURL: "https://example.com/target",
		Domain:      domain,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// First resolve misses the cache, second should be served from it.
	for i := 0; i < 2; i++ {
		got, err := svc.Resolve(ctx, domain, created.ShortCode)
		if err != nil {
			t.Fatalf("Resolve #%d: %v", i+1, err)
		}
		if got.OriginalURL != "https://example.com/target" {
			t.Errorf("Resolve #%d OriginalURL = %q", i+1, got.OriginalURL)
		}
	}
}

func TestResolveNotFoundIsNegativelyCached(t *testing.T) {
	ctx, svc := newTestService(t)

	domain := testutil.UniqueDomain("neg")
	for i := 0; i < 2; i++ {
		if _, err := svc.Resolve(ctx, domain, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Resolve #%d error = %v, want ErrNotFound", i+1, err)
		}
	}
}

func TestResolveExpired(t *testing.T) {
	ctx, svc := newTestService(t)

	domain := testutil.UniqueDomain("exp")
	past := time.Now().Add(-time.Hour).UTC()
	created, err := svc.Create(ctx, CreateShortURLInput{
		OriginalURL: "https://example.com/old",
		Domain:      domain,
		ExpiresAt:   &past,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Resolve(ctx, domain, created.ShortCode); !errors.Is(err, ErrExpired) {
		t.Fatalf("Resolve error = %v, want ErrExpired", err)
	}
}

func TestDeactivateHidesFromResolve(t *testing.T) {
	ctx, svc := newTestService(t)

	domain := testutil.UniqueDomain("deact")
	created, err := svc.Create(ctx, CreateShortURLInput{
		OriginalURL: "https://example.com/page",
		Domain:      domain,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Warm the cache, then deactivate; the entry must be invalidated.
	if _, err := svc.Resolve(ctx, domain, created.ShortCode); err != nil {
		t.Fatalf("warm Resolve: %v", err)
	}
	if err := svc.Deactivate(ctx, domain, created.ShortCode); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	if _, err := svc.Resolve(ctx, domain, created.ShortCode); !errors.Is(err, ErrInactive) {
		t.Fatalf("Resolve after deactivate = %v, want ErrInactive", err)
	}
}

func TestUpdateInvalidatesCache(t *testing.T) {
	ctx, svc := newTestService(t)

	domain := testutil.UniqueDomain("upd")
	created, err := svc.Create(ctx, CreateShortURLInput{
		OriginalURL: "https://example.com/before",
		Domain:      domain,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Resolve(ctx, domain, created.ShortCode); err != nil {
		t.Fatalf("warm Resolve: %v", err)
	}

	after := "https://example.com/after"
	if _, err := svc.Update(ctx, UpdateShortURLInput{
		Domain:      domain,
		ShortCode:   created.ShortCode,
		OriginalURL: &after,
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := svc.Resolve(ctx, domain, created.ShortCode)
	if err != nil {
		t.Fatalf("Resolve after update: %v", err)
	}
	if got.OriginalURL != after {
		t.Errorf("Resolve served stale target %q, want %q", got.OriginalURL, after)
	}
}

func TestStatsAggregatesClicks(t *testing.T) {
	ctx, repo, c := newTestEnv(t)
	svc := NewShortURLService(repo, c, "localhost", testLoggerDiscard(), metrics.NewNoop())
	recorder := analytics.NewRecorder(repo, testLoggerDiscard(), metrics.NewNoop())

	domain := testutil.UniqueDomain("stats")
	created, err := svc.Create(ctx, CreateShortURLInput{
		OriginalURL: "https://example.com/tracked",
		Domain:      domain,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 5; i++ {
		recorder.Record(analytics.ClickEvent{
			ShortURLID: created.ID,
			IPAddress:  "192.0.2.10",
			Country:    "SE",
		})
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := recorder.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("recorder Shutdown: %v", err)
	}

	stats, err := svc.Stats(ctx, domain, created.ShortCode)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if stats.TotalClicks != 5 {
		t.Errorf("TotalClicks = %d, want 5", stats.TotalClicks)
	}
	if stats.ShortURL.Clicks != 5 {
		t.Errorf("denormalized counter = %d, want 5", stats.ShortURL.Clicks)
	}
	if stats.ClicksByCountry["SE"] != 5 {
		t.Errorf("ClicksByCountry[SE] = %d, want 5", stats.ClicksByCountry["SE"])
	}
	if len(stats.RecentClicks) != 5 {
		t.Errorf("RecentClicks = %d, want 5", len(stats.RecentClicks))
	}
}

func TestCachedResolveRecordsClicks(t *testing.T) {
	ctx, repo, c := newTestEnv(t)
	svc := NewShortURLService(repo, c, "localhost", testLoggerDiscard(), metrics.NewNoop())
	recorder := analytics.NewRecorder(repo, testLoggerDiscard(), metrics.NewNoop())

	domain := testutil.UniqueDomain("warm")
	created, err := svc.Create(ctx, CreateShortURLInput{
		OriginalURL: "https://example.com/warm",
		Domain:      domain,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The first resolve misses the cache and backfills it; the second is
	// served from Redis. Both must yield an ID the recorder can attribute
	// clicks to, or warm-cache traffic loses all analytics.
	for i := 0; i < 2; i++ {
		resolved, err := svc.Resolve(ctx, domain, created.ShortCode)
		if err != nil {
			t.Fatalf("Resolve %d: %v", i, err)
		}
		if resolved.ID != created.ID {
			t.Fatalf("Resolve %d returned ID %q, want %q", i, resolved.ID, created.ID)
		}
		recorder.Record(analytics.ClickEvent{
			ShortURLID: resolved.ID,
			IPAddress:  "192.0.2.20",
			Country:    "SE",
		})
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := recorder.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("recorder Shutdown: %v", err)
	}

	stats, err := svc.Stats(ctx, domain, created.ShortCode)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalClicks != 2 {
		t.Errorf("TotalClicks = %d, want 2", stats.TotalClicks)
	}
	if stats.ShortURL.Clicks != 2 {
		t.Errorf("denormalized counter = %d, want 2", stats.ShortURL.Clicks)
	}
}
