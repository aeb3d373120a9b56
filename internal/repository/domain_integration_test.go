//go:build integration

package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/hostlink/hostlink/internal/model"
	"github.com/hostlink/hostlink/internal/testutil"
)

func newTestDomainConfig(t *testing.T, domain string, accountID int64) *model.DomainConfiguration {
	t.Helper()
	now := time.Now().UTC()
	return &model.DomainConfiguration{
		ID:           testutil.UniqueID("dom"),
		Domain:       domain,
		AccountID:    accountID,
		DomainType:   model.DomainTypeForms,
		IsActive:     true,
		SSLStatus:    model.SSLStatusPending,
		UseCaddy:     true,
		ConfiguredAt: now,
		UpdatedAt:    now,
	}
}

func TestIntegrationDomain_CreateAndGet(t *testing.T) {
	ctx, repo := newTestEnv(t)

	name := testutil.UniqueDomain("cfg")
	d := newTestDomainConfig(t, name, 42)

	if err := repo.CreateDomain(ctx, d); err != nil {
		t.Fatalf("CreateDomain failed: %v", err)
	}

	retrieved, err := repo.GetDomain(ctx, name)
	if err != nil {
		t.Fatalf("GetDomain failed: %v", err)
	}

	if retrieved.AccountID != 42 {
		t.Errorf("AccountID = %d, want 42", retrieved.AccountID)
	}
	if retrieved.SSLStatus != model.SSLStatusPending {
		t.Errorf("SSLStatus = %s, want pending", retrieved.SSLStatus)
	}
	if retrieved.IsVerified {
		t.Error("IsVerified should default false")
	}
}

func TestIntegrationDomain_DuplicateName(t *testing.T) {
	ctx, repo := newTestEnv(t)

	name := testutil.UniqueDomain("dup")
	if err := repo.CreateDomain(ctx, newTestDomainConfig(t, name, 1)); err != nil {
		t.Fatalf("CreateDomain (first) failed: %v", err)
	}

	err := repo.CreateDomain(ctx, newTestDomainConfig(t, name, 2))
	if !errors.Is(err, ErrDomainTaken) {
		t.Errorf("expected ErrDomainTaken, got: %v", err)
	}
}

func TestIntegrationDomain_UpdateSSLActiveMarksVerified(t *testing.T) {
	ctx, repo := newTestEnv(t)

	name := testutil.UniqueDomain("ssl")
	if err := repo.CreateDomain(ctx, newTestDomainConfig(t, name, 7)); err != nil {
		t.Fatalf("CreateDomain failed: %v", err)
	}

	issued := time.Now().UTC()
	expires := issued.Add(90 * 24 * time.Hour)

	updated, err := repo.UpdateDomainSSL(ctx, name, model.SSLStatusActive, &issued, &expires)
	if err != nil {
		t.Fatalf("UpdateDomainSSL failed: %v", err)
	}

	if updated.SSLStatus != model.SSLStatusActive {
		t.Errorf("SSLStatus = %s, want active", updated.SSLStatus)
	}
	if !updated.IsVerified {
		t.Error("setting ssl_status active must mark the domain verified")
	}
	if updated.SSLIssuedAt == nil || updated.SSLExpiresAt == nil {
		t.Error("certificate timestamps should be recorded")
	}
}

func TestIntegrationDomain_UpdateSSLFailedKeepsVerification(t *testing.T) {
	ctx, repo := newTestEnv(t)

	name := testutil.UniqueDomain("sslfail")
	if err := repo.CreateDomain(ctx, newTestDomainConfig(t, name, 7)); err != nil {
		t.Fatalf("CreateDomain failed: %v", err)
	}

	updated, err := repo.UpdateDomainSSL(ctx, name, model.SSLStatusFailed, nil, nil)
	if err != nil {
		t.Fatalf("UpdateDomainSSL failed: %v", err)
	}

	if updated.SSLStatus != model.SSLStatusFailed {
		t.Errorf("SSLStatus = %s, want failed", updated.SSLStatus)
	}
	if updated.IsVerified {
		t.Error("failed status must not mark the domain verified")
	}
}

func TestIntegrationDomain_ListByAccountNewestFirst(t *testing.T) {
	ctx, repo := newTestEnv(t)

	const accountID = 9901
	older := newTestDomainConfig(t, testutil.UniqueDomain("old"), accountID)
	newer := newTestDomainConfig(t, testutil.UniqueDomain("new"), accountID)
	newer.ConfiguredAt = older.ConfiguredAt.Add(time.Second)
	inactive := newTestDomainConfig(t, testutil.UniqueDomain("off"), accountID)
	inactive.IsActive = false
	inactive.ConfiguredAt = older.ConfiguredAt.Add(2 * time.Second)

	for _, d := range []*model.DomainConfiguration{older, newer, inactive} {
		if err := repo.CreateDomain(ctx, d); err != nil {
			t.Fatalf("CreateDomain failed: %v", err)
		}
	}

	all, err := repo.ListDomainsByAccount(ctx, accountID, false)
	if err != nil {
		t.Fatalf("ListDomainsByAccount failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].Domain != inactive.Domain {
		t.Errorf("first listed = %q, want newest %q", all[0].Domain, inactive.Domain)
	}

	active, err := repo.ListDomainsByAccount(ctx, accountID, true)
	if err != nil {
		t.Fatalf("ListDomainsByAccount (active) failed: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("active len = %d, want 2", len(active))
	}
}

func TestIntegrationDomain_AllowedChecks(t *testing.T) {
	ctx, repo := newTestEnv(t)

	name := testutil.UniqueDomain("allow")
	if err := repo.CreateDomain(ctx, newTestDomainConfig(t, name, 5)); err != nil {
		t.Fatalf("CreateDomain failed: %v", err)
	}

	allowed, err := repo.DomainAllowed(ctx, name)
	if err != nil {
		t.Fatalf("DomainAllowed failed: %v", err)
	}
	if !allowed {
		t.Error("active domain should be allowed")
	}

	if err := repo.DeactivateDomain(ctx, name); err != nil {
		t.Fatalf("DeactivateDomain failed: %v", err)
	}

	allowed, err = repo.DomainAllowed(ctx, name)
	if err != nil {
		t.Fatalf("DomainAllowed failed: %v", err)
	}
	if allowed {
		t.Error("deactivated domain must not be allowed")
	}

	allowed, err = repo.DomainAllowed(ctx, testutil.UniqueDomain("ghost"))
	if err != nil {
		t.Fatalf("DomainAllowed failed: %v", err)
	}
	if allowed {
		t.Error("unknown domain must not be allowed")
	}
}

func TestIntegrationDomain_HardDelete(t *testing.T) {
	ctx, repo := newTestEnv(t)

	name := testutil.UniqueDomain("wipe")
	if err := repo.CreateDomain(ctx, newTestDomainConfig(t, name, 3)); err != nil {
		t.Fatalf("CreateDomain failed: %v", err)
	}

	if err := repo.DeleteDomain(ctx, name); err != nil {
		t.Fatalf("DeleteDomain failed: %v", err)
	}

	if _, err := repo.GetDomain(ctx, name); !errors.Is(err, ErrDomainNotFound) {
		t.Errorf("expected ErrDomainNotFound, got: %v", err)
	}

	if err := repo.DeleteDomain(ctx, name); !errors.Is(err, ErrDomainNotFound) {
		t.Errorf("expected ErrDomainNotFound on second delete, got: %v", err)
	}
}
