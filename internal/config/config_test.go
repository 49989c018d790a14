package config

import (
	"strings"
	"testing"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BACKEND_URL", "http://localhost:3030")
	t.Setenv("PORT", "3040")
	t.Setenv("LISTEN_HOST", "127.0.0.1")
	t.Setenv("CORS_ORIGINS", "http://localhost:3002")
	t.Setenv("LOG_LEVEL", "info")
}

func TestLoad_Defaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ResolverConcurrency != 16 {
		t.Errorf("resolver concurrency = %d, want default 16", cfg.ResolverConcurrency)
	}
	if cfg.DefaultDepth != 2 || cfg.MaxDepth != 5 {
		t.Errorf("depths = %d/%d, want 2/5", cfg.DefaultDepth, cfg.MaxDepth)
	}
	if cfg.Addr() != "127.0.0.1:3040" {
		t.Errorf("addr = %q", cfg.Addr())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantMsg string
	}{
		{name: "bad backend scheme", key: "BACKEND_URL", value: "ftp://localhost:21", wantMsg: "BACKEND_URL scheme"},
		{name: "remote http backend", key: "BACKEND_URL", value: "http://memory.example.com", wantMsg: "must use https"},
		{name: "bad port", key: "PORT", value: "99999", wantMsg: "PORT"},
		{name: "non-loopback listen host", key: "LISTEN_HOST", value: "0.0.0.0", wantMsg: "loopback"},
		{name: "wildcard cors", key: "CORS_ORIGINS", value: "*", wantMsg: "wildcard"},
		{name: "negative concurrency", key: "RESOLVER_CONCURRENCY", value: "-1", wantMsg: "RESOLVER_CONCURRENCY"},
		{name: "zero depth", key: "DEFAULT_DEPTH", value: "0", wantMsg: "DEFAULT_DEPTH"},
		{name: "max depth below default", key: "MAX_DEPTH", value: "1", wantMsg: "MAX_DEPTH"},
		{name: "bad log level", key: "LOG_LEVEL", value: "loud", wantMsg: "LOG_LEVEL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setValidEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestLoad_UnboundedResolver(t *testing.T) {
	setValidEnv(t)
	t.Setenv("RESOLVER_CONCURRENCY", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ResolverConcurrency != 0 {
		t.Errorf("resolver concurrency = %d, want 0 (unbounded)", cfg.ResolverConcurrency)
	}
}

func TestSecretRedaction(t *testing.T) {
	s := Secret("super-secret-key")
	if s.String() != "[REDACTED]" {
		t.Errorf("String() = %q", s.String())
	}
	text, err := s.MarshalText()
	if err != nil || string(text) != "[REDACTED]" {
		t.Errorf("MarshalText() = %q, %v", text, err)
	}
	if s.Value() != "super-secret-key" {
		t.Errorf("Value() = %q", s.Value())
	}
}
