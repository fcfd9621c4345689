package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/iho/gosettle/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.JWTSecret != "" {
		t.Fatalf("expected JWT secret default to be empty, got %q", cfg.JWTSecret)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.ChainMode != "sim" {
		t.Fatalf("expected default chain mode sim, got %s", cfg.ChainMode)
	}

	if cfg.AmountScale != 2 {
		t.Fatalf("expected default amount scale 2, got %d", cfg.AmountScale)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("CHAIN_MODE", "http")
	t.Setenv("CHAIN_BASE_URL", "http://indexer:9000")
	t.Setenv("RECONCILE_INTERVAL", "30s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.JWTSecret != "top-secret" || !cfg.AuthEnabled {
		t.Fatalf("expected auth settings to be set, got secret=%s enabled=%v", cfg.JWTSecret, cfg.AuthEnabled)
	}

	if cfg.ChainMode != "http" || cfg.ChainBaseURL != "http://indexer:9000" {
		t.Fatalf("expected chain settings to be set, got mode=%s url=%s", cfg.ChainMode, cfg.ChainBaseURL)
	}

	if cfg.ReconcileInterval != 30*time.Second {
		t.Fatalf("expected reconcile interval override, got %s", cfg.ReconcileInterval)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestParseUsers(t *testing.T) {
	t.Setenv("AUTH_USERS", "admin:$2a$10$abcdefghijklmnopqrstuv:admin, ops:$2a$10$vutsrqponmlkjihgfedcba:operator")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	users, err := cfg.ParseUsers()
	if err != nil {
		t.Fatalf("unexpected error parsing users: %v", err)
	}

	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	if users[0].Username != "admin" || users[0].Role != "admin" {
		t.Fatalf("unexpected first user %+v", users[0])
	}

	if users[1].Username != "ops" || users[1].PasswordHash != "$2a$10$vutsrqponmlkjihgfedcba" {
		t.Fatalf("unexpected second user %+v", users[1])
	}
}

func TestParseUsersMalformed(t *testing.T) {
	t.Setenv("AUTH_USERS", "justausername")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if _, err := cfg.ParseUsers(); err == nil {
		t.Fatalf("expected error for malformed entry")
	}
}
