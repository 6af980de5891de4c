package repo

import (
	"testing"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
)

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"Almaty":   "Almaty",
		"50%":      `50\%`,
		"a_b":      `a\_b`,
		`back\ref`: `back\\ref`,
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Fatalf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMarshalBookingsNil(t *testing.T) {
	b, err := marshalBookings(nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "[]" {
		t.Fatalf("expected empty array, got %s", b)
	}
}

func TestCoordRoundTrip(t *testing.T) {
	if coordFrom(nil, nil) != nil {
		t.Fatalf("expected nil coordinate")
	}
	lat, lng := coordArgs(&models.Coordinate{Lat: 43.25, Lng: 76.95})
	c := coordFrom(lat, lng)
	if c == nil || c.Lat != 43.25 || c.Lng != 76.95 {
		t.Fatalf("unexpected coordinate %+v", c)
	}
}
