package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConfigYAML = `
service: identityd
server:
  port: 9090
logging:
  level: debug
database:
  driver: sqlite
  dsn: "file::memory:"
token:
  secret: yaml-token-secret
  access_ttl: 5m
reset:
  secret: yaml-reset-secret
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeTestConfig(t, testConfigYAML)

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Token.Secret != "yaml-token-secret" {
		t.Errorf("Token.Secret = %q", cfg.Token.Secret)
	}
	if cfg.Token.AccessTTL != 5*time.Minute {
		t.Errorf("Token.AccessTTL = %s, want 5m", cfg.Token.AccessTTL)
	}
	// Defaults fill what the file leaves out.
	if cfg.Token.RefreshTTL != 7*24*time.Hour {
		t.Errorf("Token.RefreshTTL = %s, want 168h", cfg.Token.RefreshTTL)
	}
	if cfg.Redis.Addr == "" {
		t.Error("Redis.Addr default was not applied")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeTestConfig(t, testConfigYAML)

	t.Setenv("IDENTITY_SERVER_PORT", "7070")
	t.Setenv("IDENTITY_TOKEN_ACCESS_TTL", "30m")
	t.Setenv("IDENTITY_DATABASE_DSN", "file:other.db")

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Token.AccessTTL != 30*time.Minute {
		t.Errorf("Token.AccessTTL = %s, want env override 30m", cfg.Token.AccessTTL)
	}
	if cfg.Database.DSN != "file:other.db" {
		t.Errorf("Database.DSN = %q, want env override", cfg.Database.DSN)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	// Missing the required token secret.
	path := writeTestConfig(t, "reset:\n  secret: x\n")

	if _, err := Load(WithConfigFile(path)); err == nil {
		t.Error("Load() without token secret should fail")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(cfgPath, []byte(testConfigYAML), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("IDENTITY_SERVER_PORT=6060\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("IDENTITY_SERVER_PORT") })

	cfg, err := Load(WithConfigFile(cfgPath), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("Server.Port = %d, want 6060 from .env", cfg.Server.Port)
	}
}
