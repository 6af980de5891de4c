package ride

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/adapter/memory"
	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
)

var baseTime = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// fakeGeo resolves any label except "Nowhere" and returns a 10 km route.
type fakeGeo struct {
	routeErr error
	calls    int
	mu       sync.Mutex
}

func (g *fakeGeo) ResolveLocation(_ context.Context, label string) (models.Coordinate, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if label == "Nowhere" {
		return models.Coordinate{}, types.ErrLocationNotFound
	}
	return models.Coordinate{Lat: 43.2 + float64(len(label))/100, Lng: 76.9}, nil
}

func (g *fakeGeo) EstimateRoute(_ context.Context, _, _ models.Coordinate) (models.Route, error) {
	if g.routeErr != nil {
		return models.Route{}, g.routeErr
	}
	return models.Route{DistanceMeters: 10000, DurationSeconds: 900, DistanceLabel: "10.0 km", DurationLabel: "15 mins"}, nil
}

func (g *fakeGeo) ReverseGeocode(_ context.Context, c models.Coordinate) (string, error) {
	return "Abay Ave 1, Almaty", nil
}

type downPolicy struct{}

func (downPolicy) GetPolicy(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.RideEventMessage
}

func (p *recordingPublisher) PublishRideEvent(_ context.Context, msg models.RideEventMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, msg)
	return nil
}

func (p *recordingPublisher) eventTypes() []types.RideEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.RideEvent, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingNotifier struct {
	mu        sync.Mutex
	snapshots []models.InventorySnapshot
}

func (n *recordingNotifier) BroadcastInventory(_ context.Context, s models.InventorySnapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.snapshots = append(n.snapshots, s)
}

type env struct {
	svc       *RideService
	rides     *memory.RideRepo
	drivers   *memory.DriverRepo
	policy    *memory.PolicyStore
	events    *memory.EventRepo
	publisher *recordingPublisher
	notifier  *recordingNotifier
	geo       *fakeGeo
	clock     *clock
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		rides:     memory.NewRideRepo(),
		drivers:   memory.NewDriverRepo(),
		policy:    memory.NewPolicyStore(nil),
		events:    memory.NewEventRepo(),
		publisher: &recordingPublisher{},
		notifier:  &recordingNotifier{},
		geo:       &fakeGeo{},
		clock:     &clock{now: baseTime},
	}
	cfg := DefaultConfig()
	cfg.UpstreamBackoff = 0
	e.svc = NewRideService(e.rides, e.drivers, e.policy, e.geo, memory.NewTxManager(), logger.Nop(), cfg,
		WithClock(e.clock.Now),
		WithEventRepo(e.events),
		WithPublisher(e.publisher),
		WithInventoryNotifier(e.notifier),
	)
	return e
}

func newDriver() *models.Actor {
	return &models.Actor{ID: uuid.New(), Role: types.RoleDriver, ApprovedToDrive: true, Name: "Aidos", Phone: "+77010000001"}
}

func newRider() *models.Actor {
	return &models.Actor{ID: uuid.New(), Role: types.RoleRider, Name: "Dana", Phone: "+77010000002"}
}

func group(seats int, phone string) models.PassengerGroup {
	return models.PassengerGroup{BookedSeats: seats, PickupAddress: "Abay 1", DropoffAddress: "Mangilik El 5", ContactPhone: phone}
}

// postRide posts a ride departing a day after baseTime.
func (e *env) postRide(t *testing.T, driver *models.Actor, seats int, price float64) *models.Ride {
	t.Helper()
	res, err := e.svc.PostRide(context.Background(), driver, models.PostRideRequest{
		Origin:        "Almaty",
		Destination:   "Astana",
		PricePerSeat:  price,
		Seats:         seats,
		DepartureTime: baseTime.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("post ride: %v", err)
	}
	return res.Ride
}

func (e *env) book(t *testing.T, rider *models.Actor, rideID uuid.UUID, groups ...models.PassengerGroup) *models.BookingResult {
	t.Helper()
	res, err := e.svc.BookSeats(context.Background(), rider, models.BookSeatsRequest{RideID: rideID, Passengers: groups})
	if err != nil {
		t.Fatalf("book seats: %v", err)
	}
	return res
}

func (e *env) load(t *testing.T, id uuid.UUID) *models.Ride {
	t.Helper()
	r, err := e.rides.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get ride: %v", err)
	}
	if !r.Consistent() {
		t.Fatalf("seat invariant broken: available=%d accepted=%d total=%d", r.SeatsAvailable, r.AcceptedSeats(), r.TotalSeats)
	}
	return r
}

func expectErr(t *testing.T, err error, want *types.Error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %s, got %v", want.Code, err)
	}
	if got := types.KindOf(err); got != want.Kind {
		t.Fatalf("expected kind %s, got %s", want.Kind, got)
	}
}
