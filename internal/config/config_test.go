package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"CRMKIT_DATA_DIR", "CRMKIT_HTTP_PORT", "CRMKIT_BACKEND",
		"CRMKIT_ADDR", "CRMKIT_LOG_LEVEL", "CRMKIT_MIGRATE_TO",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("Expected default data dir ./data, got %q", cfg.DataDir)
	}
	if cfg.HTTPPort != "7102" {
		t.Errorf("Expected default port 7102, got %q", cfg.HTTPPort)
	}
	if cfg.Backend != BackendFile {
		t.Errorf("Expected default backend file, got %q", cfg.Backend)
	}
	if cfg.RemoteAddr != "" {
		t.Errorf("Expected no remote address, got %q", cfg.RemoteAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %q", cfg.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CRMKIT_DATA_DIR", "/var/lib/crmkit")
	t.Setenv("CRMKIT_HTTP_PORT", "9000")
	t.Setenv("CRMKIT_BACKEND", BackendSQLite)
	t.Setenv("CRMKIT_ADDR", "crm.internal:7102")
	t.Setenv("CRMKIT_LOG_LEVEL", "debug")
	t.Setenv("CRMKIT_MIGRATE_TO", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataDir != "/var/lib/crmkit" {
		t.Errorf("Expected overridden data dir, got %q", cfg.DataDir)
	}
	if cfg.HTTPPort != "9000" {
		t.Errorf("Expected overridden port, got %q", cfg.HTTPPort)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Expected sqlite backend, got %q", cfg.Backend)
	}
	if cfg.RemoteAddr != "crm.internal:7102" {
		t.Errorf("Expected remote address, got %q", cfg.RemoteAddr)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("CRMKIT_BACKEND", "dynamo")
	if _, err := Load(); err == nil {
		t.Error("Expected unknown backend to fail")
	}

	t.Setenv("CRMKIT_BACKEND", BackendFile)
	t.Setenv("CRMKIT_MIGRATE_TO", "dynamo")
	if _, err := Load(); err == nil {
		t.Error("Expected unknown migration target to fail")
	}
}
