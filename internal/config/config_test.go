package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Server.Port)
	}
	if cfg.Store.Backend != "sqlite3" {
		t.Fatalf("expected default backend, got %q", cfg.Store.Backend)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Fatalf("expected default TTL, got %v", cfg.Cache.TTL)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: "9000"
store:
  backend: postgres
  dsn: postgres://localhost/gamelog?sslmode=disable
cache:
  redis_url: redis://localhost:6379
  ttl: 5m
ingest:
  season: 2025-26
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Fatalf("expected port 9000, got %q", cfg.Server.Port)
	}
	if cfg.Store.Backend != "postgres" {
		t.Fatalf("expected postgres backend, got %q", cfg.Store.Backend)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("expected 5m TTL, got %v", cfg.Cache.TTL)
	}
	if cfg.Ingest.Season != "2025-26" {
		t.Fatalf("expected 2025-26 season, got %q", cfg.Ingest.Season)
	}
	// Defaults fill fields the file leaves out.
	if cfg.Ingest.StatsAPIBase != "https://stats.nba.com" {
		t.Fatalf("expected default stats base, got %q", cfg.Ingest.StatsAPIBase)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9000\"\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("PORT", "7070")
	t.Setenv("CACHE_TTL", "30s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("expected env port to win, got %q", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Fatalf("expected 30s TTL, got %v", cfg.Cache.TTL)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
