package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	ServerPort        string
	FrontendURL       string
	SweepInterval     time.Duration
	RateLimit         string
	RedisURL          string
	EnableHSTS        bool
	AllowShareeWrites bool
	ServerDebugMode   bool
	OTELEnabled       bool
	OTELEndpoint      string
}

// fileConfig mirrors Config for YAML decoding. Durations are strings in the
// file ("30s", "5m") and parsed with time.ParseDuration.
type fileConfig struct {
	ServerPort        *string `yaml:"server_port"`
	FrontendURL       *string `yaml:"frontend_url"`
	SweepInterval     *string `yaml:"sweep_interval"`
	RateLimit         *string `yaml:"rate_limit"`
	RedisURL          *string `yaml:"redis_url"`
	EnableHSTS        *bool   `yaml:"enable_hsts"`
	AllowShareeWrites *bool   `yaml:"allow_sharee_writes"`
	ServerDebugMode   *bool   `yaml:"server_debug_mode"`
	OTELEnabled       *bool   `yaml:"otel_enabled"`
	OTELEndpoint      *string `yaml:"otel_endpoint"`
}

// Load loads configuration from environment variables. When CONFIG_FILE
// points at a YAML file, its values are loaded first and the environment
// overrides them.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:    "8080",
		FrontendURL:   "http://localhost:3000",
		SweepInterval: time.Minute,
		RateLimit:     "100-M",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.SweepInterval = getEnvDuration("SWEEP_INTERVAL", cfg.SweepInterval)
	cfg.RateLimit = getEnv("RATE_LIMIT", cfg.RateLimit)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.AllowShareeWrites = getEnvBool("ALLOW_SHAREE_WRITES", cfg.AllowShareeWrites)
	cfg.ServerDebugMode = getEnvBool("SERVER_DEBUG_MODE", cfg.ServerDebugMode)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)

	if cfg.SweepInterval < time.Second {
		return nil, fmt.Errorf("SWEEP_INTERVAL must be at least 1s, got %s", cfg.SweepInterval)
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.ServerPort != nil {
		cfg.ServerPort = *fc.ServerPort
	}
	if fc.FrontendURL != nil {
		cfg.FrontendURL = *fc.FrontendURL
	}
	if fc.SweepInterval != nil {
		d, err := time.ParseDuration(*fc.SweepInterval)
		if err != nil {
			return fmt.Errorf("invalid sweep_interval %q in %s: %w", *fc.SweepInterval, path, err)
		}
		cfg.SweepInterval = d
	}
	if fc.RateLimit != nil {
		cfg.RateLimit = *fc.RateLimit
	}
	if fc.RedisURL != nil {
		cfg.RedisURL = *fc.RedisURL
	}
	if fc.EnableHSTS != nil {
		cfg.EnableHSTS = *fc.EnableHSTS
	}
	if fc.AllowShareeWrites != nil {
		cfg.AllowShareeWrites = *fc.AllowShareeWrites
	}
	if fc.ServerDebugMode != nil {
		cfg.ServerDebugMode = *fc.ServerDebugMode
	}
	if fc.OTELEnabled != nil {
		cfg.OTELEnabled = *fc.OTELEnabled
	}
	if fc.OTELEndpoint != nil {
		cfg.OTELEndpoint = *fc.OTELEndpoint
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
