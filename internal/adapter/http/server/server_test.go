package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/config"
	"github.com/Temutjin2k/ride-share-system/internal/adapter/memory"
	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/internal/service/identity"
	"github.com/Temutjin2k/ride-share-system/internal/service/ride"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
	ws "github.com/Temutjin2k/ride-share-system/pkg/wsHub"
)

const testSecret = "test-secret"

type staticGeo struct{}

func (staticGeo) ResolveLocation(_ context.Context, label string) (models.Coordinate, error) {
	return models.Coordinate{Lat: 43.2, Lng: 76.9 + float64(len(label))/100}, nil
}

func (staticGeo) EstimateRoute(_ context.Context, _, _ models.Coordinate) (models.Route, error) {
	return models.Route{DistanceMeters: 12000, DurationSeconds: 1200, DistanceLabel: "12.0 km", DurationLabel: "20 mins"}, nil
}

func (staticGeo) ReverseGeocode(_ context.Context, _ models.Coordinate) (string, error) {
	return "Abay Ave 1, Almaty", nil
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
	issuer  *identity.Service
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	l := logger.Nop()

	svc := ride.NewRideService(
		memory.NewRideRepo(),
		memory.NewDriverRepo(),
		memory.NewPolicyStore(nil),
		staticGeo{},
		memory.NewTxManager(),
		l,
		ride.DefaultConfig(),
	)
	ids := identity.New(testSecret, "")
	hub := ws.NewConnHub(l)
	t.Cleanup(hub.Close)

	cfg := config.Config{ServiceName: "test", Storage: types.StorageMemory}
	api, err := New(cfg, svc, ids, hub, l)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testAPI{t: t, handler: api.Handler(), issuer: ids}
}

func (a *testAPI) token(role types.UserRole) string {
	a.t.Helper()
	tok, err := a.issuer.Issue(&models.Actor{
		ID:              uuid.New(),
		Role:            role,
		ApprovedToDrive: role == types.RoleDriver,
		Name:            "Test " + role.String(),
		Phone:           "+7 701 000 0000",
	}, time.Hour)
	if err != nil {
		a.t.Fatalf("issue: %v", err)
	}
	return tok
}

func (a *testAPI) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			a.t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec.Code, out
}

func errCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func (a *testAPI) postRide(token string, seats int) string {
	a.t.Helper()
	status, body := a.do(http.MethodPost, "/rides", token, map[string]any{
		"origin":         "Almaty",
		"destination":    "Talgar",
		"price_per_seat": 100,
		"seats":          seats,
		"departure_time": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	})
	if status != http.StatusCreated {
		a.t.Fatalf("post ride: status %d body %v", status, body)
	}
	return body["ride"].(map[string]any)["id"].(string)
}

func passengers(seats int) map[string]any {
	return map[string]any{"passengers": []map[string]any{{
		"booked_seats":    seats,
		"pickup_address":  "Abay 1",
		"dropoff_address": "Talgar center",
		"contact_phone":   "+7 701 123 4567",
	}}}
}

func TestBookingFlow(t *testing.T) {
	api := newTestAPI(t)
	driver := api.token(types.RoleDriver)
	rider := api.token(types.RoleRider)
	other := api.token(types.RoleRider)

	rideID := api.postRide(driver, 3)

	status, body := api.do(http.MethodPost, "/rides/"+rideID+"/bookings", rider, passengers(2))
	if status != http.StatusCreated {
		t.Fatalf("book: status %d body %v", status, body)
	}
	if seats := body["ride"].(map[string]any)["seats_available"].(float64); seats != 1 {
		t.Fatalf("seats_available = %v", seats)
	}

	status, body = api.do(http.MethodPost, "/rides/"+rideID+"/bookings", other, passengers(2))
	if status != http.StatusConflict || errCode(body) != types.ErrInsufficientSeats.Code {
		t.Fatalf("overbook: status %d body %v", status, body)
	}
	if remaining := body["error"].(map[string]any)["remaining_seats"].(float64); remaining != 1 {
		t.Fatalf("remaining_seats = %v", remaining)
	}

	// Another rider sees the ride but none of the first rider's bookings.
	status, body = api.do(http.MethodGet, "/rides/"+rideID, other, nil)
	if status != http.StatusOK {
		t.Fatalf("get ride: %d", status)
	}
	if bookings := body["ride"].(map[string]any)["bookings"].([]any); len(bookings) != 0 {
		t.Fatalf("other rider sees %d bookings", len(bookings))
	}

	status, body = api.do(http.MethodGet, "/rides/"+rideID, driver, nil)
	if bookings := body["ride"].(map[string]any)["bookings"].([]any); status != http.StatusOK || len(bookings) != 1 {
		t.Fatalf("driver view: status %d bookings %v", status, bookings)
	}

	status, body = api.do(http.MethodPost, "/rides/"+rideID+"/bookings/cancel", rider, nil)
	if status != http.StatusOK {
		t.Fatalf("cancel booking: status %d body %v", status, body)
	}
	if seats := body["ride"].(map[string]any)["seats_available"].(float64); seats != 3 {
		t.Fatalf("seats after cancel = %v", seats)
	}

	status, body = api.do(http.MethodGet, "/rides/booked", rider, nil)
	if status != http.StatusOK || len(body["rides"].([]any)) != 1 {
		t.Fatalf("booked rides: status %d body %v", status, body)
	}
}

func TestAccessControl(t *testing.T) {
	api := newTestAPI(t)
	driver := api.token(types.RoleDriver)
	rider := api.token(types.RoleRider)
	rideID := api.postRide(driver, 2)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{name: "anonymous post", method: http.MethodPost, path: "/rides", status: http.StatusUnauthorized},
		{name: "rider posts", method: http.MethodPost, path: "/rides", token: rider, body: map[string]any{}, status: http.StatusForbidden},
		{name: "driver books", method: http.MethodPost, path: "/rides/" + rideID + "/bookings", token: driver, body: passengers(1), status: http.StatusForbidden},
		{name: "anonymous listing", method: http.MethodGet, path: "/rides", status: http.StatusUnauthorized},
		{name: "rider earnings", method: http.MethodGet, path: "/drivers/me/earnings", token: rider, status: http.StatusForbidden},
		{name: "garbage token", method: http.MethodGet, path: "/rides", token: "garbage", status: http.StatusUnauthorized},
		{name: "public settings", method: http.MethodGet, path: "/settings", status: http.StatusOK},
		{name: "health", method: http.MethodGet, path: "/health", status: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := api.do(tt.method, tt.path, tt.token, tt.body)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (%v)", status, tt.status, body)
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	api := newTestAPI(t)
	driver := api.token(types.RoleDriver)
	rider := api.token(types.RoleRider)
	rideID := api.postRide(driver, 2)

	status, body := api.do(http.MethodPost, "/rides/"+rideID+"/bookings", rider, passengers(0))
	if status != http.StatusUnprocessableEntity || errCode(body) != types.ErrInvalidInput.Code {
		t.Fatalf("zero seats: status %d body %v", status, body)
	}
	fields := body["error"].(map[string]any)["fields"].(map[string]any)
	if _, ok := fields["passengers[0].booked_seats"]; !ok {
		t.Fatalf("fields = %v", fields)
	}

	status, _ = api.do(http.MethodPost, "/rides/not-a-uuid/bookings", rider, passengers(1))
	if status != http.StatusBadRequest {
		t.Fatalf("bad uuid: status %d", status)
	}

	status, body = api.do(http.MethodPost, "/rides/"+uuid.NewString()+"/bookings", rider, passengers(1))
	if status != http.StatusNotFound || errCode(body) != types.ErrRideNotFound.Code {
		t.Fatalf("unknown ride: status %d body %v", status, body)
	}

	status, body = api.do(http.MethodGet, "/rides?page=0", rider, nil)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("page=0: status %d body %v", status, body)
	}
}

func TestDriverLifecycle(t *testing.T) {
	api := newTestAPI(t)
	driver := api.token(types.RoleDriver)
	rider := api.token(types.RoleRider)
	rideID := api.postRide(driver, 3)

	if status, body := api.do(http.MethodPost, "/rides/"+rideID+"/bookings", rider, passengers(2)); status != http.StatusCreated {
		t.Fatalf("book: %d %v", status, body)
	}

	status, body := api.do(http.MethodPatch, "/rides/"+rideID+"/fare", driver, map[string]any{"price_per_seat": 150})
	if status != http.StatusOK || body["ride"].(map[string]any)["price_per_seat"].(float64) != 150 {
		t.Fatalf("adjust fare: %d %v", status, body)
	}

	if status, body := api.do(http.MethodPost, "/rides/"+rideID+"/complete", driver, nil); status != http.StatusOK {
		t.Fatalf("complete: %d %v", status, body)
	}

	status, body = api.do(http.MethodPost, "/rides/"+rideID+"/cancel", driver, map[string]any{"reason": "late"})
	if status != http.StatusConflict {
		t.Fatalf("cancel completed ride: %d %v", status, body)
	}

	status, body = api.do(http.MethodPost, "/rides/"+rideID+"/rating", rider, map[string]any{"rating": 5})
	if status != http.StatusOK || body["rating"].(map[string]any)["average_rating"].(float64) != 5 {
		t.Fatalf("rate: %d %v", status, body)
	}

	status, body = api.do(http.MethodGet, "/drivers/me/earnings", driver, nil)
	if status != http.StatusOK {
		t.Fatalf("earnings: %d %v", status, body)
	}
	// Bookings keep the price they were made at: 2 seats x 100, minus 15%.
	if total := body["earnings"].(map[string]any)["total_earnings"].(float64); total != 170 {
		t.Fatalf("total_earnings = %v", total)
	}
}
