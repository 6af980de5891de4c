package ride

import (
	"context"
	"testing"
	"time"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

func TestGetActiveRides(t *testing.T) {
	e := newEnv(t)
	driver := newDriver()
	ctx := context.Background()

	listed := e.postRide(t, driver, 3, 100)
	cancelled := e.postRide(t, driver, 3, 100)
	if _, err := e.svc.CancelRide(ctx, driver, models.CancelRideRequest{RideID: cancelled.ID, Reason: "x"}); err != nil {
		t.Fatalf("cancel ride: %v", err)
	}

	list, err := e.svc.GetActiveRides(ctx, models.RideFilter{Origin: "alma", Destination: "STAN"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Rides) != 1 || list.Rides[0].ID != listed.ID {
		t.Fatalf("expected only the active ride, got %d rides", len(list.Rides))
	}
	if list.Metadata.TotalRecords != 1 {
		t.Fatalf("unexpected metadata %+v", list.Metadata)
	}

	list, err = e.svc.GetActiveRides(ctx, models.RideFilter{Origin: "Shymkent"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Rides) != 0 {
		t.Fatalf("expected no match, got %d", len(list.Rides))
	}

	// departed rides drop out of the listing
	e.clock.Set(listed.DepartureTime.Add(time.Minute))
	list, err = e.svc.GetActiveRides(ctx, models.RideFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Rides) != 0 {
		t.Fatalf("departed ride still listed")
	}
}

func TestGetActiveRidesCarriesDriverRating(t *testing.T) {
	e := newEnv(t)
	driver, rider := newDriver(), newRider()
	ctx := context.Background()

	done := e.postRide(t, driver, 2, 100)
	e.book(t, rider, done.ID, group(1, "+1"))
	if _, err := e.svc.CompleteRide(ctx, driver, done.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := e.svc.RateDriver(ctx, rider, models.RateDriverRequest{RideID: done.ID, Rating: 5}); err != nil {
		t.Fatalf("rate: %v", err)
	}
	next := e.postRide(t, driver, 2, 100)

	list, err := e.svc.GetActiveRides(ctx, models.RideFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Rides) != 1 || list.Rides[0].ID != next.ID {
		t.Fatalf("unexpected listing")
	}
	if list.Rides[0].DriverRating != 5 || list.Rides[0].DriverNumRatings != 1 {
		t.Fatalf("unexpected driver rating %v (%d)", list.Rides[0].DriverRating, list.Rides[0].DriverNumRatings)
	}
}

func TestPostedAndBookedRides(t *testing.T) {
	e := newEnv(t)
	driver, rider := newDriver(), newRider()
	ctx := context.Background()

	a := e.postRide(t, driver, 2, 100)
	e.postRide(t, driver, 2, 100)
	e.book(t, rider, a.ID, group(1, "+1"))

	posted, err := e.svc.GetPostedRides(ctx, driver)
	if err != nil {
		t.Fatalf("posted: %v", err)
	}
	if len(posted) != 2 {
		t.Fatalf("expected 2 posted rides, got %d", len(posted))
	}

	booked, err := e.svc.GetBookedRides(ctx, rider)
	if err != nil {
		t.Fatalf("booked: %v", err)
	}
	if len(booked) != 1 || booked[0].ID != a.ID {
		t.Fatalf("unexpected booked rides")
	}

	_, err = e.svc.GetPostedRides(ctx, rider)
	expectErr(t, err, types.ErrNotDriver)
	_, err = e.svc.GetBookedRides(ctx, driver)
	expectErr(t, err, types.ErrNotRider)
}

func TestGetRide(t *testing.T) {
	e := newEnv(t)
	ride := e.postRide(t, newDriver(), 2, 100)

	got, err := e.svc.GetRide(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != ride.ID || got.Version == 0 {
		t.Fatalf("unexpected ride %+v", got)
	}
}

func TestPolicyDefaults(t *testing.T) {
	e := newEnv(t)

	p, err := e.svc.PublicPolicy(context.Background())
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	want := models.PublicPolicy{
		CommissionRate:                0.15,
		BookingLeadTimeMinutes:        10,
		RiderCancellationCutoffHours:  2,
		DriverCancellationCutoffHours: 4,
		IsBookingAvailable:            true,
	}
	if p != want {
		t.Fatalf("expected %+v, got %+v", want, p)
	}

	// unparsable values fall back to defaults
	e.policy.Set(types.PolicyCommissionRate, "lots")
	e.policy.Set(types.PolicyBookingLeadTimeMinutes, "30")
	p, err = e.svc.PublicPolicy(context.Background())
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if p.CommissionRate != 0.15 || p.BookingLeadTimeMinutes != 30 {
		t.Fatalf("unexpected policy %+v", p)
	}

	e.svc.policy = downPolicy{}
	_, err = e.svc.PublicPolicy(context.Background())
	expectErr(t, err, types.ErrPolicyUnavailable)
}

func TestEventsFollowTransitions(t *testing.T) {
	e := newEnv(t)
	driver, rider := newDriver(), newRider()
	ctx := context.Background()

	ride := e.postRide(t, driver, 2, 100)
	e.book(t, rider, ride.ID, group(1, "+1"))
	if _, err := e.svc.CompleteRide(ctx, driver, ride.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	want := []types.RideEvent{types.EventRidePosted, types.EventSeatsBooked, types.EventRideCompleted}
	got := e.publisher.eventTypes()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if n := len(e.events.Events(ride.ID)); n != 3 {
		t.Fatalf("expected 3 recorded events, got %d", n)
	}

	e.notifier.mu.Lock()
	defer e.notifier.mu.Unlock()
	last := e.notifier.snapshots[len(e.notifier.snapshots)-1]
	if last.Status != types.RideCompleted || last.SeatsAvailable != 2 {
		t.Fatalf("unexpected snapshot %+v", last)
	}

	// rejected operations emit nothing
	_, _ = e.svc.CompleteRide(ctx, driver, ride.ID)
	if len(e.publisher.eventTypes()) != 3 {
		t.Fatalf("failed transition was published")
	}
}
