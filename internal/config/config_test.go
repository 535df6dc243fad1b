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
		t.Fatalf("load: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("SweepInterval = %s, want 1m", cfg.SweepInterval)
	}
	if cfg.RateLimit != "100-M" {
		t.Errorf("RateLimit = %q, want 100-M", cfg.RateLimit)
	}
	if cfg.AllowShareeWrites {
		t.Error("AllowShareeWrites should default to false")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("ALLOW_SHAREE_WRITES", "true")
	t.Setenv("OTEL_ENABLED", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.SweepInterval != 30*time.Second {
		t.Errorf("SweepInterval = %s, want 30s", cfg.SweepInterval)
	}
	if !cfg.AllowShareeWrites {
		t.Error("ALLOW_SHAREE_WRITES=true not applied")
	}
	if !cfg.OTELEnabled {
		t.Error("OTEL_ENABLED=1 not applied")
	}
}

func TestLoadRejectsTooShortSweepInterval(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "100ms")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for sub-second sweep interval")
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "server_port: \"7000\"\nsweep_interval: 5m\nrate_limit: 10-S\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	// Environment still wins over the file.
	t.Setenv("RATE_LIMIT", "20-S")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.ServerPort != "7000" {
		t.Errorf("ServerPort = %q, want 7000 from file", cfg.ServerPort)
	}
	if cfg.SweepInterval != 5*time.Minute {
		t.Errorf("SweepInterval = %s, want 5m from file", cfg.SweepInterval)
	}
	if cfg.RateLimit != "20-S" {
		t.Errorf("RateLimit = %q, want env override 20-S", cfg.RateLimit)
	}
}
