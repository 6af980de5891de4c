package ridecalc

import (
	"fmt"
	"math"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
)

const (
	// RatePerKm is the advisory fare per kilometre. It does not depend on the driver's price.
	RatePerKm = 25.0

	averageSpeedKmh = 50     // average speed on intercity roads
	earthRadiusM    = 6371000.0
	// detourFactor stretches the great-circle distance to approximate road distance.
	detourFactor = 1.3
)

type Calculator interface {
	Distance(p1, p2 models.Coordinate) float64
	Duration(distanceKm float64) int
	SuggestedFare(distanceKm float64) float64
	EstimateRoute(origin, dest models.Coordinate) models.Route
}

type CalculatorImpl struct{}

func New() *CalculatorImpl {
	return &CalculatorImpl{}
}

// Distance is the haversine distance between two coordinates in kilometres.
func (c *CalculatorImpl) Distance(p1, p2 models.Coordinate) float64 {
	return distanceMeters(p1.Lat, p1.Lng, p2.Lat, p2.Lng) / 1000
}

func distanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Duration is the approximate travel time in minutes, rounded up.
func (c *CalculatorImpl) Duration(distanceKm float64) int {
	if distanceKm <= 0 {
		return 0
	}
	return int(math.Ceil(distanceKm / averageSpeedKmh * 60))
}

// SuggestedFare is distanceKm times RatePerKm rounded to cents.
func (c *CalculatorImpl) SuggestedFare(distanceKm float64) float64 {
	if distanceKm <= 0 {
		return 0
	}
	return Round2(distanceKm * RatePerKm)
}

// EstimateRoute approximates a road route without calling the directions API.
func (c *CalculatorImpl) EstimateRoute(origin, dest models.Coordinate) models.Route {
	meters := int(math.Round(distanceMeters(origin.Lat, origin.Lng, dest.Lat, dest.Lng) * detourFactor))
	seconds := c.Duration(float64(meters)/1000) * 60
	return models.Route{
		DistanceMeters:  meters,
		DurationSeconds: seconds,
		DistanceLabel:   FormatDistance(meters),
		DurationLabel:   FormatDuration(seconds),
	}
}

// FormatDistance renders meters as "850 m" or "12.3 km".
func FormatDistance(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", meters)
	}
	return fmt.Sprintf("%.1f km", float64(meters)/1000)
}

// FormatDuration renders seconds as "45 mins" or "2 hours 5 mins".
func FormatDuration(seconds int) string {
	minutes := int(math.Round(float64(seconds) / 60))
	if minutes < 1 {
		minutes = 1
	}
	hours, minutes := minutes/60, minutes%60

	switch {
	case hours == 0:
		return plural(minutes, "min")
	case minutes == 0:
		return plural(hours, "hour")
	default:
		return plural(hours, "hour") + " " + plural(minutes, "min")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
