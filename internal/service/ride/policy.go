package ride

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/pkg/metrics"
)

// policyValue reads one key. A missing key is reported as found=false;
// an unreachable store becomes types.ErrPolicyUnavailable.
func (s *RideService) policyValue(ctx context.Context, key string) (string, bool, error) {
	if s.policy == nil {
		return "", false, nil
	}

	var (
		value string
		found bool
	)
	err := s.callUpstream(ctx, "policy", func(ctx context.Context) error {
		var err error
		value, found, err = s.policy.GetPolicy(ctx, key)
		return err
	})
	metrics.RecordUpstreamCall("policy", err)
	if err != nil {
		return "", false, types.ErrPolicyUnavailable.Wrap(err)
	}
	return strings.TrimSpace(value), found, nil
}

func (s *RideService) floatPolicy(ctx context.Context, key string, def float64, valid func(float64) bool) (float64, error) {
	raw, found, err := s.policyValue(ctx, key)
	if err != nil || !found {
		return def, err
	}
	v, perr := strconv.ParseFloat(raw, 64)
	if perr != nil || !valid(v) {
		s.logger.Warn(ctx, "unusable policy value, using default", "key", key, "value", raw)
		return def, nil
	}
	return v, nil
}

func (s *RideService) durationPolicy(ctx context.Context, key string, unit, def time.Duration) (time.Duration, error) {
	v, err := s.floatPolicy(ctx, key, float64(def)/float64(unit), func(v float64) bool { return v >= 0 })
	if err != nil {
		return def, err
	}
	return time.Duration(v * float64(unit)), nil
}

func (s *RideService) commissionRate(ctx context.Context) (float64, error) {
	return s.floatPolicy(ctx, types.PolicyCommissionRate, s.cfg.Defaults.CommissionRate,
		func(v float64) bool { return v >= 0 && v <= 1 })
}

func (s *RideService) bookingLeadTime(ctx context.Context) (time.Duration, error) {
	return s.durationPolicy(ctx, types.PolicyBookingLeadTimeMinutes, time.Minute, s.cfg.Defaults.BookingLeadTime)
}

func (s *RideService) riderCancellationCutoff(ctx context.Context) (time.Duration, error) {
	return s.durationPolicy(ctx, types.PolicyRiderCancelCutoffHours, time.Hour, s.cfg.Defaults.RiderCancellationCutoff)
}

func (s *RideService) driverCancellationCutoff(ctx context.Context) (time.Duration, error) {
	return s.durationPolicy(ctx, types.PolicyDriverCancelCutoffHours, time.Hour, s.cfg.Defaults.DriverCancellationCutoff)
}

func (s *RideService) bookingAvailable(ctx context.Context) (bool, error) {
	raw, found, err := s.policyValue(ctx, types.PolicyBookingAvailable)
	if err != nil || !found {
		return s.cfg.Defaults.BookingAvailable, err
	}
	v, perr := strconv.ParseBool(raw)
	if perr != nil {
		s.logger.Warn(ctx, "unusable policy value, using default", "key", types.PolicyBookingAvailable, "value", raw)
		return s.cfg.Defaults.BookingAvailable, nil
	}
	return v, nil
}

// Policy returns every policy parameter with defaults applied.
func (s *RideService) Policy(ctx context.Context) (models.Policy, error) {
	var (
		p   models.Policy
		err error
	)
	if p.CommissionRate, err = s.commissionRate(ctx); err != nil {
		return p, err
	}
	if p.BookingLeadTime, err = s.bookingLeadTime(ctx); err != nil {
		return p, err
	}
	if p.RiderCancellationCutoff, err = s.riderCancellationCutoff(ctx); err != nil {
		return p, err
	}
	if p.DriverCancellationCutoff, err = s.driverCancellationCutoff(ctx); err != nil {
		return p, err
	}
	if p.BookingAvailable, err = s.bookingAvailable(ctx); err != nil {
		return p, err
	}
	return p, nil
}
