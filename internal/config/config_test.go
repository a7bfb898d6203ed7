package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.RateLimit != 0 {
		t.Errorf("Expected rate limiting disabled by default, got %v", cfg.HTTP.RateLimit)
	}
	if cfg.Database.Path != "./data/permitdesk.db" {
		t.Errorf("Unexpected default database path %q", cfg.Database.Path)
	}
	if cfg.Search.IndexName != "permissions" {
		t.Errorf("Unexpected default index name %q", cfg.Search.IndexName)
	}
	if cfg.Queue.Type != "embedded" {
		t.Errorf("Expected embedded queue by default, got %q", cfg.Queue.Type)
	}
	if cfg.Queue.NATS.StreamName != "PERMISSIONS" {
		t.Errorf("Unexpected default stream name %q", cfg.Queue.NATS.StreamName)
	}
	if cfg.Queue.NATS.MaxAge != 7*24*time.Hour {
		t.Errorf("Unexpected default max age %v", cfg.Queue.NATS.MaxAge)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HTTP_RATE_LIMIT", "50.5")
	t.Setenv("DATABASE_PATH", "/tmp/other.db")
	t.Setenv("QUEUE_TYPE", "nats")
	t.Setenv("NATS_MAX_AGE", "24h")
	t.Setenv("CORS_ORIGINS", "http://a.example,http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.RateLimit != 50.5 {
		t.Errorf("Expected rate limit 50.5, got %v", cfg.HTTP.RateLimit)
	}
	if cfg.Database.Path != "/tmp/other.db" {
		t.Errorf("Expected overridden path, got %q", cfg.Database.Path)
	}
	if cfg.Queue.Type != "nats" {
		t.Errorf("Expected queue type nats, got %q", cfg.Queue.Type)
	}
	if cfg.Queue.NATS.MaxAge != 24*time.Hour {
		t.Errorf("Expected max age 24h, got %v", cfg.Queue.NATS.MaxAge)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 || cfg.HTTP.CORSOrigins[1] != "http://b.example" {
		t.Errorf("Unexpected CORS origins %v", cfg.HTTP.CORSOrigins)
	}
}

func TestLoadMalformedEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("Expected default port for malformed value, got %d", cfg.HTTP.Port)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[http]
port = 7070
rate_limit = 10.0
rate_burst = 5

[database]
path = "/tmp/file.db"

[search]
url = "redis://search:6379/1"
index_name = "perms"

[queue]
type = "nats"

[queue.nats]
url = "nats://broker:4222"
stream_name = "EVENTS"
subject = "events.ops"
consumer_group = "workers"
max_age = "48h"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.HTTP.Port != 7070 {
		t.Errorf("Expected port 7070, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.Path != "/tmp/file.db" {
		t.Errorf("Unexpected database path %q", cfg.Database.Path)
	}
	if cfg.Search.URL != "redis://search:6379/1" || cfg.Search.IndexName != "perms" {
		t.Errorf("Unexpected search config %+v", cfg.Search)
	}
	if cfg.Queue.NATS.StreamName != "EVENTS" || cfg.Queue.NATS.MaxAge != 48*time.Hour {
		t.Errorf("Unexpected queue config %+v", cfg.Queue.NATS)
	}
}

func TestLoadWithFileEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[http]
port = 7070

[database]
path = "/tmp/file.db"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("PERMITDESK_CONFIG", path)
	t.Setenv("HTTP_PORT", "9191")

	cfg, err := LoadWithFile()
	if err != nil {
		t.Fatalf("LoadWithFile failed: %v", err)
	}

	// Set env vars override the file; unset ones leave file values intact.
	if cfg.HTTP.Port != 9191 {
		t.Errorf("Expected env override 9191, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.Path != "/tmp/file.db" {
		t.Errorf("Expected file value preserved, got %q", cfg.Database.Path)
	}
}

func TestGenerateExampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated", "config.toml")
	if err := GenerateExampleConfig(path); err != nil {
		t.Fatalf("GenerateExampleConfig failed: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("Generated config does not parse: %v", err)
	}
	if cfg.HTTP.Port != 8080 || cfg.Queue.Type != "embedded" {
		t.Errorf("Unexpected generated defaults: %+v", cfg)
	}
}
