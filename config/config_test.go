package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
storage: memory
log_level: WARN
server:
  port: 8088
auth:
  jwt_secret: test-secret
policy:
  commission_rate: 0.2
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, k := range []string{"STORAGE", "LOG_LEVEL", "SERVER_PORT", "AUTH_JWT_SECRET", "POLICY_COMMISSION_RATE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := NewConfig(path)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Storage != "memory" || cfg.LogLevel != "WARN" {
		t.Fatalf("storage=%q level=%q", cfg.Storage, cfg.LogLevel)
	}
	if cfg.Server.Addr() != "0.0.0.0:8088" {
		t.Fatalf("addr = %q", cfg.Server.Addr())
	}
	if cfg.Policy.CommissionRate != 0.2 || cfg.Policy.RiderCancellationCutoffHours != 2 {
		t.Fatalf("policy = %+v", cfg.Policy)
	}
	if cfg.Booking.UpstreamBackoff != 100*time.Millisecond {
		t.Fatalf("backoff = %v", cfg.Booking.UpstreamBackoff)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{Storage: "memory", LogLevel: "INFO", Auth: AuthConfig{JWTSecret: "s"}}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "storage", mutate: func(c *Config) { c.Storage = "redis" }, want: ErrInvalidStorage},
		{name: "log level", mutate: func(c *Config) { c.LogLevel = "TRACE" }, want: ErrInvalidLogLevel},
		{name: "secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, want: ErrNoJWTSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDSNAndMask(t *testing.T) {
	c := DatabaseConfig{User: "u", Password: "p", Host: "h", Port: "1", Database: "d", SSLMode: "disable", MaxConns: 4, MinConns: 1}
	if c.GetDSN() != "postgres://u:p@h:1/d?sslmode=disable" {
		t.Fatalf("dsn = %q", c.GetDSN())
	}
	if got := mask("supersecret"); got == "supersecret" || !strings.HasPrefix(got, "su") {
		t.Fatalf("mask = %q", got)
	}
}
