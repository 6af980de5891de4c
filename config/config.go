package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/pkg/configparser"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
)

// Flags
var (
	logLevelFlag = flag.String("log-level", "", "overrides LOG_LEVEL (DEBUG, INFO, WARN, ERROR)")
)

// Errors
var (
	ErrInvalidStorage  = errors.New("storage must be either postgres or memory")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrNoJWTSecret     = errors.New("auth jwt secret is required")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		ServiceName string            `env:"SERVICE_NAME" default:"ride-share"`
		LogLevel    string            `env:"LOG_LEVEL" default:"INFO"`
		Storage     types.StorageMode `env:"STORAGE" default:"postgres"`

		Database    DatabaseConfig
		RabbitMQ    RabbitMQConfig
		Server      ServerConfig
		ExternalAPI ExternalAPIConfig
		Auth        AuthConfig
		Booking     BookingConfig
		Policy      PolicyConfig
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"rideshare_user"`
		Password string `env:"DATABASE_PASSWORD" default:"rideshare_pass"`
		Database string `env:"DATABASE_DATABASE" default:"rideshare_db"`
		SSLMode  string `env:"DATABASE_SSLMODE" default:"disable"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`

		Migrate bool `env:"DATABASE_MIGRATE" default:"true"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"false"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	ServerConfig struct {
		Host            string        `env:"SERVER_HOST" default:"0.0.0.0"`
		Port            string        `env:"SERVER_PORT" default:"3000"`
		ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"10s"`
		WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"15s"`
		IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
		ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"5s"`
	}

	ExternalAPIConfig struct {
		LocationIQapiKey  string        `env:"LOCATIONIQ_API_KEY"`
		LocationIQBaseURL string        `env:"LOCATIONIQ_BASE_URL" default:"https://us1.locationiq.com"`
		LocationIQTimeout time.Duration `env:"LOCATIONIQ_TIMEOUT" default:"5s"`
		// directions or estimate
		RouteMode string `env:"LOCATIONIQ_ROUTE_MODE" default:"directions"`
	}

	AuthConfig struct {
		JWTSecret string `env:"AUTH_JWT_SECRET"`
		Issuer    string `env:"AUTH_ISSUER"`
	}

	BookingConfig struct {
		MaxWriteAttempts int           `env:"BOOKING_MAX_WRITE_ATTEMPTS" default:"3"`
		UpstreamAttempts int           `env:"BOOKING_UPSTREAM_ATTEMPTS" default:"2"`
		UpstreamTimeout  time.Duration `env:"BOOKING_UPSTREAM_TIMEOUT" default:"5s"`
		UpstreamBackoff  time.Duration `env:"BOOKING_UPSTREAM_BACKOFF" default:"100ms"`
	}

	// PolicyConfig holds the fallbacks used when the settings store has no value.
	PolicyConfig struct {
		CommissionRate                float64 `env:"POLICY_COMMISSION_RATE" default:"0.15"`
		BookingLeadTimeMinutes        float64 `env:"POLICY_BOOKING_LEAD_TIME_MINUTES" default:"10"`
		RiderCancellationCutoffHours  float64 `env:"POLICY_RIDER_CANCELLATION_CUTOFF_HOURS" default:"2"`
		DriverCancellationCutoffHours float64 `env:"POLICY_DRIVER_CANCELLATION_CUTOFF_HOURS" default:"4"`
		IsBookingAvailable            bool    `env:"POLICY_IS_BOOKING_AVAILABLE" default:"true"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

func (c DatabaseConfig) PoolLimits() (maxConns, minConns int32, maxLifetime, maxIdle time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseFlags(cfg *Config) error {
	if logLevelFlag != nil && *logLevelFlag != "" {
		cfg.LogLevel = *logLevelFlag
	}
	return nil
}

func (c *Config) Validate() error {
	if !c.Storage.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStorage, c.Storage)
	}
	if !logger.ValidateLogLevel(c.LogLevel) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	if c.Auth.JWTSecret == "" {
		return ErrNoJWTSecret
	}
	return nil
}
