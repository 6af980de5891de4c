package config

import (
	"fmt"
	"strings"
)

// PrintConfig writes the effective configuration with secrets masked.
func PrintConfig(cfg *Config) {
	var b strings.Builder
	row := func(k string, v any) { fmt.Fprintf(&b, "  %-34s %v\n", k, v) }

	b.WriteString("Configuration:\n")
	row("service", cfg.ServiceName)
	row("log level", cfg.LogLevel)
	row("storage", cfg.Storage)
	row("server address", cfg.Server.Addr())
	if cfg.Storage == "postgres" {
		row("database", fmt.Sprintf("%s@%s:%s/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
		row("database migrate", cfg.Database.Migrate)
	}
	row("rabbitmq enabled", cfg.RabbitMQ.Enabled)
	if cfg.RabbitMQ.Enabled {
		row("rabbitmq", fmt.Sprintf("%s@%s:%s", cfg.RabbitMQ.User, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port))
	}
	row("locationiq key", mask(cfg.ExternalAPI.LocationIQapiKey))
	row("locationiq route mode", cfg.ExternalAPI.RouteMode)
	row("jwt secret", mask(cfg.Auth.JWTSecret))
	row("jwt issuer", cfg.Auth.Issuer)
	row("max write attempts", cfg.Booking.MaxWriteAttempts)
	row("default commission rate", cfg.Policy.CommissionRate)
	row("default booking lead (min)", cfg.Policy.BookingLeadTimeMinutes)
	row("default rider cutoff (h)", cfg.Policy.RiderCancellationCutoffHours)
	row("default driver cutoff (h)", cfg.Policy.DriverCancellationCutoffHours)
	row("default booking available", cfg.Policy.IsBookingAvailable)

	fmt.Print(b.String())
}

func mask(s string) string {
	if s == "" {
		return "<unset>"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
