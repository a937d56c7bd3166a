// Package config loads the CLI configuration from the environment and
// optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/davidMcneil/brains-and-bets/internal/settings"
)

const appDirName = "brains-and-bets"

// Config holds process configuration.
type Config struct {
	// BaseServerPath overrides the stored base_server_path slot when set.
	BaseServerPath  string        `env:"BRAINS_BASE_SERVER_PATH"`
	SettingsBackend string        `env:"BRAINS_SETTINGS_BACKEND" envDefault:"sqlite"`
	SettingsPath    string        `env:"BRAINS_SETTINGS_PATH"`
	KeyringService  string        `env:"BRAINS_KEYRING_SERVICE"  envDefault:"brains-and-bets"`
	LogLevel        string        `env:"BRAINS_LOG_LEVEL"        envDefault:"info"`
	PollInterval    time.Duration `env:"BRAINS_POLL_INTERVAL"    envDefault:"2s"`
	UserAgent       string        `env:"BRAINS_USER_AGENT"       envDefault:"brains-and-bets-cli"`
}

// Load reads the given .env files (missing files are skipped; values already
// in the environment win) and parses the environment.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if cfg.SettingsPath == "" {
		cfg.SettingsPath = DefaultSettingsPath(cfg.SettingsBackend)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the CLI cannot act on.
func (c Config) Validate() error {
	switch c.SettingsBackend {
	case settings.BackendSQLite, settings.BackendKeyring:
	default:
		return fmt.Errorf("config: unknown settings backend %q", c.SettingsBackend)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("config: poll interval must not be negative")
	}
	return nil
}

// DefaultSettingsPath returns the per-user settings file for backend. The
// keyring backend uses it as its fallback file.
func DefaultSettingsPath(backend string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	name := "settings.db"
	if backend == settings.BackendKeyring {
		name = "fallback_settings.json"
	}
	return filepath.Join(dir, appDirName, name)
}
