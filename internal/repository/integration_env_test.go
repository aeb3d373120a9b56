//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/hostlink/hostlink/internal/testutil"
)

var (
	envOnce sync.Once
	envRepo *Repository
	envErr  error
)

// newTestEnv connects to the test database and resets the schema once per run.
func newTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	ctx := context.Background()

	dbURL := testutil.RequireEnv(t, "TEST_DATABASE_URL")

	envOnce.Do(func() {
		repo, err := New(ctx, dbURL)
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
		envRepo = repo
	})

	if envErr != nil {
		t.Fatalf("test env setup failed: %v", envErr)
	}

	return ctx, envRepo
}
