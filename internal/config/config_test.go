package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("expected default env %q, got %q", EnvDev, cfg.AppEnv)
	}
	if cfg.ServiceName != "matchpulse-api" {
		t.Fatalf("expected default service name, got %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.StorageDriver != StorageDriverPostgres {
		t.Fatalf("expected default storage driver, got %q", cfg.StorageDriver)
	}
	if cfg.RefreshTokenTTL != 168*time.Hour {
		t.Fatalf("expected 168h refresh ttl, got %v", cfg.RefreshTokenTTL)
	}
	if cfg.CacheTTL != time.Minute {
		t.Fatalf("expected 60s cache ttl, got %v", cfg.CacheTTL)
	}
	if cfg.SyncWorkers != 4 {
		t.Fatalf("expected 4 sync workers, got %d", cfg.SyncWorkers)
	}
	if !cfg.CacheEnabled {
		t.Fatal("expected cache enabled by default")
	}
	if cfg.FeedEnabled {
		t.Fatal("expected feed disabled by default")
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard cors, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_HTTP_ADDR", ":9090")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("SYNC_WORKERS", "8")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.AppEnv != EnvProd {
		t.Fatalf("expected prod, got %q", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.HTTPAddr)
	}
	if cfg.StorageDriver != StorageDriverMemory {
		t.Fatalf("expected memory driver, got %q", cfg.StorageDriver)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("expected 5m cache ttl, got %v", cfg.CacheTTL)
	}
	if cfg.SyncWorkers != 8 {
		t.Fatalf("expected 8 sync workers, got %d", cfg.SyncWorkers)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("expected split origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadInvalidAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "qa")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "APP_ENV") {
		t.Fatalf("expected an APP_ENV error, got %v", err)
	}
}

func TestLoadInvalidStorageDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mysql")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "STORAGE_DRIVER") {
		t.Fatalf("expected a STORAGE_DRIVER error, got %v", err)
	}
}

func TestLoadFeedRequiresBaseURL(t *testing.T) {
	t.Setenv("FEED_ENABLED", "true")
	t.Setenv("INTERNAL_SYNC_TOKEN", "sync-token")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "FEED_BASE_URL") {
		t.Fatalf("expected a FEED_BASE_URL error, got %v", err)
	}
}

func TestLoadFeedRequiresSyncToken(t *testing.T) {
	t.Setenv("FEED_ENABLED", "true")
	t.Setenv("FEED_BASE_URL", "https://feed.example")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "INTERNAL_SYNC_TOKEN") {
		t.Fatalf("expected an INTERNAL_SYNC_TOKEN error, got %v", err)
	}
}

func TestLoadFeedEnabled(t *testing.T) {
	t.Setenv("FEED_ENABLED", "true")
	t.Setenv("FEED_BASE_URL", "https://feed.example")
	t.Setenv("FEED_API_KEY", "key-123")
	t.Setenv("INTERNAL_SYNC_TOKEN", "sync-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.FeedEnabled || cfg.FeedBaseURL != "https://feed.example" {
		t.Fatalf("unexpected feed config: %+v", cfg)
	}
	if cfg.FeedAPIKey != "key-123" || cfg.InternalSyncToken != "sync-token" {
		t.Fatal("expected feed credentials to be loaded")
	}
}

func TestLoadRejectsNonPositiveDurations(t *testing.T) {
	t.Run("cache ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "0s")

		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "CACHE_TTL") {
			t.Fatalf("expected a CACHE_TTL error, got %v", err)
		}
	})

	t.Run("refresh token ttl", func(t *testing.T) {
		t.Setenv("REFRESH_TOKEN_TTL", "-1h")

		if _, err := Load(); err == nil || !strings.Contains(err.Error(), "REFRESH_TOKEN_TTL") {
			t.Fatalf("expected a REFRESH_TOKEN_TTL error, got %v", err)
		}
	})
}

func TestLoadRejectsInvalidWorkerCount(t *testing.T) {
	t.Setenv("SYNC_WORKERS", "0")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SYNC_WORKERS") {
		t.Fatalf("expected a SYNC_WORKERS error, got %v", err)
	}
}
