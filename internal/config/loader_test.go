package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenNoConfigFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("expected defaults, got error: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Errorf("unexpected listen addr: %s", cfg.ListenAddr)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Errorf("unexpected database defaults: %+v", cfg.Database)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
server:
  addr: ":9090"
  allowed_origins:
    - "http://example.com"
database:
  host: db.internal
  port: 5433
whitelists:
  post:
    - title
    - published
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Errorf("unexpected listen addr: %s", cfg.ListenAddr)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://example.com" {
		t.Errorf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 5433 {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}

	fields, ok := cfg.Whitelists["post"]
	if !ok || len(fields) != 2 || fields[0] != "title" || fields[1] != "published" {
		t.Errorf("unexpected whitelists: %v", cfg.Whitelists)
	}
}
