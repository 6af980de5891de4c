package microservices

import (
	"testing"
	"time"

	"github.com/Temutjin2k/ride-share-system/config"
)

func TestEngineConfigFromYamlValues(t *testing.T) {
	cfg := config.Config{
		Booking: config.BookingConfig{MaxWriteAttempts: 5, UpstreamBackoff: 50 * time.Millisecond},
		Policy: config.PolicyConfig{
			CommissionRate:                0.1,
			BookingLeadTimeMinutes:        15,
			RiderCancellationCutoffHours:  1.5,
			DriverCancellationCutoffHours: 4,
			IsBookingAvailable:            true,
		},
	}

	got := engineConfig(cfg)
	if got.MaxWriteAttempts != 5 || got.UpstreamBackoff != 50*time.Millisecond {
		t.Fatalf("engine config = %+v", got)
	}
	if got.Defaults.BookingLeadTime != 15*time.Minute {
		t.Fatalf("lead = %v", got.Defaults.BookingLeadTime)
	}
	if got.Defaults.RiderCancellationCutoff != 90*time.Minute {
		t.Fatalf("rider cutoff = %v", got.Defaults.RiderCancellationCutoff)
	}
	if !got.Defaults.BookingAvailable || got.Defaults.CommissionRate != 0.1 {
		t.Fatalf("defaults = %+v", got.Defaults)
	}
}
