package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DefaultBaseURL is the endpoint of a locally running CookNet platform.
const DefaultBaseURL = "http://localhost:9090"

// Session backends selectable via COOKNET_SESSION_BACKEND.
const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

// Config holds all configuration for the client.
type Config struct {
	// API configuration
	BaseURL        string
	RequestTimeout time.Duration

	// Session persistence
	SessionBackend string
	SessionPath    string

	// Redis configuration (only used when SessionBackend is "redis")
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Local offline cache
	CacheDBPath string
}

// Load builds a Config from environment variables, falling back to
// per-user defaults under the home directory.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:        getenv("COOKNET_API_URL", DefaultBaseURL),
		SessionBackend: getenv("COOKNET_SESSION_BACKEND", SessionBackendFile),
		RedisAddr:      getenv("COOKNET_REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("COOKNET_REDIS_PASSWORD"),
		RedisURL:       os.Getenv("COOKNET_REDIS_URL"),
	}

	timeout := getenv("COOKNET_REQUEST_TIMEOUT", "15s")
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid COOKNET_REQUEST_TIMEOUT %q: %w", timeout, err)
	}
	cfg.RequestTimeout = d

	if v := os.Getenv("COOKNET_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid COOKNET_REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = n
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SessionPath = getenv("COOKNET_SESSION_FILE", filepath.Join(home, ".config", "cooknet", "session.json"))
	cfg.CacheDBPath = getenv("COOKNET_CACHE_DB", filepath.Join(home, ".cache", "cooknet", "cache.db"))

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	switch cfg.SessionBackend {
	case SessionBackendFile, SessionBackendRedis:
	default:
		return fmt.Errorf("unknown session backend: %s", cfg.SessionBackend)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
