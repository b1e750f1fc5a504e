package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RATE_LIMIT_MAX", "")
	t.Setenv("RATE_LIMIT_WINDOW", "")
	t.Setenv("DB_DRIVER", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("Expected postgres driver, got %s", cfg.DBDriver)
	}
	if cfg.RateLimitMax != 3 || cfg.RateLimitWindow != time.Minute {
		t.Errorf("Expected 3 per minute, got %d per %s", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")
	t.Setenv("SEED_DEMO", "1")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Expected port 9000, got %s", cfg.Port)
	}
	if cfg.RateLimitMax != 5 || cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("Expected 5 per 30s, got %d per %s", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("Expected fallback timeout, got %s", cfg.RequestTimeout)
	}
	if !cfg.SeedDemo {
		t.Error("Expected SeedDemo to be enabled")
	}
}
