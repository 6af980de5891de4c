package locationIQ

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/internal/service/ridecalc"
)

func newTestClient(t *testing.T, mode string, h http.HandlerFunc) *LocationIQClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{APIKey: "test-key", BaseURL: srv.URL, RouteMode: mode}, ridecalc.New())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestResolveLocation(t *testing.T) {
	c := newTestClient(t, RouteModeDirections, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("api key not sent")
		}
		switch r.URL.Query().Get("q") {
		case "Almaty":
			w.Write([]byte(`[{"lat":"43.2389","lon":"76.8897","display_name":"Almaty"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Unable to geocode"}`))
		}
	})

	coord, err := c.ResolveLocation(context.Background(), "Almaty")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if coord.Lat != 43.2389 || coord.Lng != 76.8897 {
		t.Fatalf("unexpected coord %+v", coord)
	}

	if _, err := c.ResolveLocation(context.Background(), "Atlantis"); !errors.Is(err, types.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestEstimateRouteDirections(t *testing.T) {
	c := newTestClient(t, RouteModeDirections, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v1/directions/driving/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":12340.4,"duration":1500}]}`))
	})

	route, err := c.EstimateRoute(context.Background(), models.Coordinate{Lat: 1, Lng: 2}, models.Coordinate{Lat: 3, Lng: 4})
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if route.DistanceMeters != 12340 || route.DistanceLabel != "12.3 km" || route.DurationLabel != "25 mins" {
		t.Fatalf("unexpected route %+v", route)
	}
}

func TestEstimateRouteNoRoute(t *testing.T) {
	c := newTestClient(t, RouteModeDirections, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	})

	_, err := c.EstimateRoute(context.Background(), models.Coordinate{}, models.Coordinate{Lat: 1})
	if !errors.Is(err, types.ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
}

func TestEstimateRouteEstimateMode(t *testing.T) {
	c := newTestClient(t, RouteModeEstimate, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("estimate mode must not call the API")
	})

	route, err := c.EstimateRoute(context.Background(),
		models.Coordinate{Lat: 43.2389, Lng: 76.8897},
		models.Coordinate{Lat: 43.3, Lng: 76.95})
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if route.DistanceMeters <= 0 {
		t.Fatalf("unexpected route %+v", route)
	}
}

func TestReverseGeocode(t *testing.T) {
	c := newTestClient(t, RouteModeDirections, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lat") != "43.2389" {
			t.Errorf("lat not forwarded: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"display_name":"Abay Ave 1, Almaty"}`))
	})

	addr, err := c.ReverseGeocode(context.Background(), models.Coordinate{Lat: 43.2389, Lng: 76.8897})
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if addr != "Abay Ave 1, Almaty" {
		t.Fatalf("unexpected address %q", addr)
	}
}

func TestUpstreamFailure(t *testing.T) {
	c := newTestClient(t, RouteModeDirections, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.ResolveLocation(context.Background(), "Almaty")
	if err == nil || errors.Is(err, types.ErrLocationNotFound) {
		t.Fatalf("rate limiting must be a plain upstream failure, got %v", err)
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(Config{}, nil); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}
