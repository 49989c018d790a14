// Package config provides environment-driven configuration for engramview.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	BackendURL          string
	BackendAPIKey       Secret
	Port                string
	ListenHost          string
	CORSOrigins         []string
	LogLevel            string
	ResolverConcurrency int
	DefaultDepth        int
	MaxDepth            int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		BackendURL:    envOrDefault("BACKEND_URL", "http://localhost:3030"),
		BackendAPIKey: Secret(envOrDefault("BACKEND_API_KEY", "")),
		Port:          envOrDefault("PORT", "3040"),
		ListenHost:    envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
	}

	// Resolver fan-out cap: 0 means unbounded (every node attempted at once).
	concurrency, err := strconv.Atoi(envOrDefault("RESOLVER_CONCURRENCY", "16"))
	if err != nil || concurrency < 0 || concurrency > 256 {
		return nil, fmt.Errorf("RESOLVER_CONCURRENCY must be an integer between 0 and 256")
	}
	cfg.ResolverConcurrency = concurrency

	depth, err := strconv.Atoi(envOrDefault("DEFAULT_DEPTH", "2"))
	if err != nil || depth < 1 {
		return nil, fmt.Errorf("DEFAULT_DEPTH must be a positive integer")
	}
	cfg.DefaultDepth = depth

	maxDepth, err := strconv.Atoi(envOrDefault("MAX_DEPTH", "5"))
	if err != nil || maxDepth < cfg.DefaultDepth {
		return nil, fmt.Errorf("MAX_DEPTH must be an integer >= DEFAULT_DEPTH")
	}
	cfg.MaxDepth = maxDepth

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3002")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
