//go:build integration

package repository

import (
	"testing"
	"time"

	"github.com/hostlink/hostlink/internal/testutil"
)

func TestIntegrationClick_Aggregations(t *testing.T) {
	ctx, repo := newTestEnv(t)

	s := testutil.NewTestShortURL(t, testutil.UniqueDomain("agg"), testutil.UniqueShortCode("a"))
	if err := repo.CreateShortURL(ctx, s); err != nil {
		t.Fatalf("CreateShortURL failed: %v", err)
	}

	day1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)

	inserts := []struct {
		at      time.Time
		country string
	}{
		{day1, "SE"},
		{day1, "SE"},
		{day1, "US"},
		{day2, "US"},
		{day2, ""}, // no geo data
	}

	for _, in := range inserts {
		c := testutil.NewTestClick(t, s.ID)
		c.ClickedAt = in.at
		c.Country = in.country
		if err := repo.InsertClick(ctx, c); err != nil {
			t.Fatalf("InsertClick failed: %v", err)
		}
	}

	count, err := repo.CountClicks(ctx, s.ID)
	if err != nil {
		t.Fatalf("CountClicks failed: %v", err)
	}
	if count != 5 {
		t.Errorf("CountClicks = %d, want 5", count)
	}

	byDay, err := repo.ClicksByDay(ctx, s.ID)
	if err != nil {
		t.Fatalf("ClicksByDay failed: %v", err)
	}
	if byDay["2026-08-01"] != 3 || byDay["2026-08-02"] != 2 {
		t.Errorf("ClicksByDay = %v", byDay)
	}

	byCountry, err := repo.ClicksByCountry(ctx, s.ID)
	if err != nil {
		t.Fatalf("ClicksByCountry failed: %v", err)
	}
	if byCountry["SE"] != 2 || byCountry["US"] != 2 {
		t.Errorf("ClicksByCountry = %v", byCountry)
	}
	if _, ok := byCountry[""]; ok {
		t.Error("clicks without country must be omitted from the breakdown")
	}

	recent, err := repo.RecentClicks(ctx, s.ID, 3)
	if err != nil {
		t.Fatalf("RecentClicks failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("RecentClicks len = %d, want 3", len(recent))
	}
	if !recent[0].ClickedAt.After(recent[2].ClickedAt) && !recent[0].ClickedAt.Equal(recent[2].ClickedAt) {
		t.Error("RecentClicks must be ordered newest first")
	}
}

func TestIntegrationClick_OptionalMetadataNullable(t *testing.T) {
	ctx, repo := newTestEnv(t)

	s := testutil.NewTestShortURL(t, testutil.UniqueDomain("meta"), testutil.UniqueShortCode("m"))
	if err := repo.CreateShortURL(ctx, s); err != nil {
		t.Fatalf("CreateShortURL failed: %v", err)
	}

	c := testutil.NewTestClick(t, s.ID)
	c.IPAddress = ""
	c.UserAgent = ""
	c.Referer = ""
	c.Country = ""
	c.City = ""

	if err := repo.InsertClick(ctx, c); err != nil {
		t.Fatalf("InsertClick with empty metadata failed: %v", err)
	}

	recent, err := repo.RecentClicks(ctx, s.ID, 1)
	if err != nil {
		t.Fatalf("RecentClicks failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("RecentClicks len = %d, want 1", len(recent))
	}
	if recent[0].IPAddress != "" || recent[0].Country != "" {
		t.Errorf("expected empty metadata, got %+v", recent[0])
	}
}
