package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sample = `
database:
  host: db.local
  port: 5433
server:
  read_timeout: 7s
booking:
  max_write_attempts: ${RS_TEST_ATTEMPTS:-4}
policy:
  commission_rate: 0.2
`

type testConfig struct {
	Database struct {
		Host string `env:"DATABASE_HOST" default:"localhost"`
		Port int    `env:"DATABASE_PORT" default:"5432"`
		User string `env:"DATABASE_USER" default:"rideshare"`
	}
	Server struct {
		ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"5s"`
	}
	Booking struct {
		MaxWriteAttempts int `env:"BOOKING_MAX_WRITE_ATTEMPTS" default:"3"`
	}
	Policy struct {
		CommissionRate float64 `env:"POLICY_COMMISSION_RATE" default:"0.15"`
		Enabled        bool    `env:"POLICY_ENABLED" default:"true"`
	}
}

func TestFlatten(t *testing.T) {
	vars, err := Flatten([]byte(sample))
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	want := map[string]string{
		"DATABASE_HOST":              "db.local",
		"DATABASE_PORT":              "5433",
		"SERVER_READ_TIMEOUT":        "7s",
		"BOOKING_MAX_WRITE_ATTEMPTS": "4",
		"POLICY_COMMISSION_RATE":     "0.2",
	}
	for k, v := range want {
		if vars[k] != v {
			t.Fatalf("%s: got %q want %q", k, vars[k], v)
		}
	}
}

func TestLoadAndParseYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, k := range []string{"DATABASE_HOST", "DATABASE_PORT", "DATABASE_USER", "SERVER_READ_TIMEOUT", "BOOKING_MAX_WRITE_ATTEMPTS", "POLICY_COMMISSION_RATE", "POLICY_ENABLED"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("DATABASE_HOST", "from-env")

	var cfg testConfig
	if err := LoadAndParseYaml(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Database.Host != "from-env" {
		t.Fatalf("existing env must win, got %q", cfg.Database.Host)
	}
	if cfg.Database.Port != 5433 {
		t.Fatalf("port: got %d", cfg.Database.Port)
	}
	if cfg.Database.User != "rideshare" {
		t.Fatalf("default not applied: %q", cfg.Database.User)
	}
	if cfg.Server.ReadTimeout != 7*time.Second {
		t.Fatalf("duration: got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Booking.MaxWriteAttempts != 4 {
		t.Fatalf("substitution default: got %d", cfg.Booking.MaxWriteAttempts)
	}
	if cfg.Policy.CommissionRate != 0.2 || !cfg.Policy.Enabled {
		t.Fatalf("policy: %+v", cfg.Policy)
	}
}

func TestLoadAndParseYamlMissingFile(t *testing.T) {
	var cfg testConfig
	if err := LoadAndParseYaml(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err != nil {
		t.Fatalf("missing file must fall back to defaults: %v", err)
	}
}

func TestParseEnvRejectsNonPointer(t *testing.T) {
	if err := ParseEnv(testConfig{}); err != ErrNotStructPointer {
		t.Fatalf("expected ErrNotStructPointer, got %v", err)
	}
}
