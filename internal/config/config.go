// Package config loads crmkit configuration from the environment, with an
// optional .env overlay for development setups.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Backend names for the embedded engine's persistence layer.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	// DataDir holds the persisted snapshots (JSON files or the SQLite
	// database, depending on Backend).
	DataDir string
	// HTTPPort is the record service's listen port.
	HTTPPort string
	// Backend selects the embedded persistence medium: file or sqlite.
	Backend string
	// RemoteAddr, when set, points clients at a remote record service
	// instead of the embedded engine.
	RemoteAddr string
	// LogLevel is a zap level string (debug, info, warn, error).
	LogLevel string
	// MigrateTo, when set on the daemon, copies all snapshots to the named
	// backend and exits instead of serving.
	MigrateTo string
}

func defaults() Config {
	return Config{
		DataDir:  "./data",
		HTTPPort: "7102",
		Backend:  BackendFile,
		LogLevel: "info",
	}
}

// Load reads configuration from CRMKIT_* environment variables. A .env file
// in the working directory is loaded first when present; real environment
// variables win over .env entries.
func Load() (Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := defaults()
	if v := os.Getenv("CRMKIT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("CRMKIT_HTTP_PORT"); v != "" {
		cfg.HTTPPort = v
	}
	if v := os.Getenv("CRMKIT_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("CRMKIT_ADDR"); v != "" {
		cfg.RemoteAddr = v
	}
	if v := os.Getenv("CRMKIT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CRMKIT_MIGRATE_TO"); v != "" {
		cfg.MigrateTo = v
	}

	if err := validBackend(cfg.Backend); err != nil {
		return Config{}, err
	}
	if cfg.MigrateTo != "" {
		if err := validBackend(cfg.MigrateTo); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func validBackend(name string) error {
	switch name {
	case BackendFile, BackendSQLite:
		return nil
	}
	return fmt.Errorf("unknown backend %q (want %s or %s)", name, BackendFile, BackendSQLite)
}
