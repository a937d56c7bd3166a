package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BRAINS_BASE_SERVER_PATH", "BRAINS_SETTINGS_BACKEND", "BRAINS_SETTINGS_PATH",
		"BRAINS_KEYRING_SERVICE", "BRAINS_LOG_LEVEL", "BRAINS_POLL_INTERVAL", "BRAINS_USER_AGENT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseServerPath != "" {
		t.Errorf("expected empty base path, got %q", cfg.BaseServerPath)
	}
	if cfg.SettingsBackend != "sqlite" {
		t.Errorf("SettingsBackend = %q, want sqlite", cfg.SettingsBackend)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.PollInterval)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if !strings.HasSuffix(cfg.SettingsPath, filepath.Join("brains-and-bets", "settings.db")) {
		t.Errorf("unexpected default settings path: %s", cfg.SettingsPath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BRAINS_BASE_SERVER_PATH", "http://env.test/api/v1/game/")
	t.Setenv("BRAINS_SETTINGS_BACKEND", "keyring")
	t.Setenv("BRAINS_POLL_INTERVAL", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseServerPath != "http://env.test/api/v1/game/" {
		t.Errorf("BaseServerPath = %q", cfg.BaseServerPath)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if !strings.HasSuffix(cfg.SettingsPath, "fallback_settings.json") {
		t.Errorf("keyring backend should default to the fallback file, got %s", cfg.SettingsPath)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dotenv := filepath.Join(t.TempDir(), ".env")
	content := "BRAINS_BASE_SERVER_PATH=http://dotenv.test/\nBRAINS_LOG_LEVEL=debug\n"
	if err := os.WriteFile(dotenv, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("BRAINS_BASE_SERVER_PATH")
		os.Unsetenv("BRAINS_LOG_LEVEL")
	})

	cfg, err := Load(dotenv, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseServerPath != "http://dotenv.test/" {
		t.Errorf("BaseServerPath = %q", cfg.BaseServerPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("BRAINS_SETTINGS_BACKEND", "redis")

	if _, err := Load(); err == nil {
		t.Errorf("expected error for unknown backend")
	}
}
