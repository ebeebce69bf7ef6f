package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEnvOnlyDefaults(t *testing.T) {
	cfg, err := Load("does-not-exist.yaml", true)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.Server.HTTPAddr != ":8080" {
		t.Fatalf("http_addr=%q want :8080", cfg.Server.HTTPAddr)
	}
	if cfg.Storage.Driver != "postgres" {
		t.Fatalf("driver=%q want postgres", cfg.Storage.Driver)
	}
	if cfg.Query.DefaultLimit != 20 || cfg.Query.MaxLimit != 500 {
		t.Fatalf("query=%+v", cfg.Query)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Fatalf("cache ttl=%s want 30s", cfg.Cache.TTL)
	}
	if cfg.Retention.MaxAge != 0 {
		t.Fatalf("retention max_age=%s want 0", cfg.Retention.MaxAge)
	}
	if cfg.Auth.APIKey != "" {
		t.Fatalf("api key should have no default")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GL_AUTH_API_KEY", "s3cret")
	t.Setenv("GL_STORAGE_DRIVER", " Badger ")
	t.Setenv("GL_QUERY_DEFAULT_LIMIT", "50")
	cfg, err := Load("does-not-exist.yaml", true)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.Auth.APIKey != "s3cret" {
		t.Fatalf("api_key=%q", cfg.Auth.APIKey)
	}
	if cfg.Storage.Driver != "badger" {
		t.Fatalf("driver=%q want badger", cfg.Storage.Driver)
	}
	if cfg.Query.DefaultLimit != 50 {
		t.Fatalf("default_limit=%d want 50", cfg.Query.DefaultLimit)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("storage:\n  driver: memory\nretention:\n  max_age: 720h\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("driver=%q want memory", cfg.Storage.Driver)
	}
	if cfg.Retention.MaxAge != 720*time.Hour {
		t.Fatalf("max_age=%s want 720h", cfg.Retention.MaxAge)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestQueryLocation(t *testing.T) {
	if loc := (QueryConfig{Timezone: "Local"}).Location(); loc != time.Local {
		t.Fatalf("loc=%v want Local", loc)
	}
	if loc := (QueryConfig{Timezone: "UTC"}).Location(); loc.String() != "UTC" {
		t.Fatalf("loc=%v want UTC", loc)
	}
	if loc := (QueryConfig{Timezone: "Not/AZone"}).Location(); loc != time.Local {
		t.Fatalf("bad zone should fall back to Local, got %v", loc)
	}
}
