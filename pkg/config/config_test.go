package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEARSHARE_APP_ENV", "dev")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.App.Port)
	}
	if cfg.Refresh.Interval != 5*time.Minute {
		t.Fatalf("expected 5m refresh interval, got %s", cfg.Refresh.Interval)
	}
	if cfg.Airtable.RepairsTable != "Repair Tickets" {
		t.Fatalf("unexpected repairs table %q", cfg.Airtable.RepairsTable)
	}
	if cfg.Firestore.ActivityCollection != "activity_logs" {
		t.Fatalf("unexpected activity collection %q", cfg.Firestore.ActivityCollection)
	}
	if !cfg.App.IsDev() || cfg.App.IsProd() {
		t.Fatalf("env helpers disagree with GEARSHARE_APP_ENV=dev")
	}
}

func TestLoadRequiresAppEnv(t *testing.T) {
	t.Setenv("GEARSHARE_APP_ENV", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when GEARSHARE_APP_ENV is unset")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEARSHARE_REFRESH_INTERVAL", "30s")
	t.Setenv("GEARSHARE_BOOQABLE_PAGE_SIZE", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Refresh.Interval != 30*time.Second {
		t.Fatalf("expected 30s interval, got %s", cfg.Refresh.Interval)
	}
	if cfg.Booqable.PageSize != 25 {
		t.Fatalf("expected page size 25, got %d", cfg.Booqable.PageSize)
	}
}
