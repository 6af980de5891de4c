package ridecalc

import (
	"math"
	"testing"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
)

var (
	almaty = models.Coordinate{Lat: 43.2389, Lng: 76.8897}
	astana = models.Coordinate{Lat: 51.1605, Lng: 71.4704}
)

func TestDistance(t *testing.T) {
	c := New()

	if d := c.Distance(almaty, almaty); d != 0 {
		t.Fatalf("distance to self must be 0, got %f", d)
	}
	d := c.Distance(almaty, astana)
	if d < 930 || d > 1010 {
		t.Fatalf("unexpected Almaty-Astana distance %f km", d)
	}
	if math.Abs(d-c.Distance(astana, almaty)) > 1e-9 {
		t.Fatalf("distance must be symmetric")
	}
}

func TestSuggestedFare(t *testing.T) {
	c := New()
	tests := []struct {
		km   float64
		want float64
	}{
		{0, 0},
		{-3, 0},
		{10, 250},
		{12.3, 307.5},
	}
	for _, tt := range tests {
		if got := c.SuggestedFare(tt.km); got != tt.want {
			t.Fatalf("SuggestedFare(%v) = %v, want %v", tt.km, got, tt.want)
		}
	}
}

func TestDuration(t *testing.T) {
	c := New()
	if got := c.Duration(50); got != 60 {
		t.Fatalf("50 km must take 60 minutes, got %d", got)
	}
	if got := c.Duration(1); got != 2 {
		t.Fatalf("durations round up, got %d", got)
	}
}

func TestEstimateRoute(t *testing.T) {
	r := New().EstimateRoute(almaty, astana)
	if r.DistanceMeters <= 0 || r.DurationSeconds <= 0 {
		t.Fatalf("route must be positive: %+v", r)
	}
	if r.DistanceLabel == "" || r.DurationLabel == "" {
		t.Fatalf("labels must be set: %+v", r)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatDistance(850), "850 m"},
		{FormatDistance(12340), "12.3 km"},
		{FormatDuration(60), "1 min"},
		{FormatDuration(45 * 60), "45 mins"},
		{FormatDuration(3600), "1 hour"},
		{FormatDuration(2*3600 + 5*60), "2 hours 5 mins"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func BenchmarkDistance(b *testing.B) {
	c := New()
	for b.Loop() {
		c.Distance(almaty, astana)
	}
}
