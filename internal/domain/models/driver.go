package models

import (
	"time"

	"github.com/google/uuid"
)

// DriverReputation keeps the exact rating sum so the average never drifts.
type DriverReputation struct {
	DriverID   uuid.UUID `json:"driver_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	RatingSum  int64     `json:"-"`
	NumRatings int64     `json:"num_ratings"`
	Version    int64     `json:"-"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (d DriverReputation) AverageRating() float64 {
	if d.NumRatings == 0 {
		return 0
	}
	return float64(d.RatingSum) / float64(d.NumRatings)
}

// Fold returns the reputation after adding one rating.
func (d DriverReputation) Fold(rating int) DriverReputation {
	d.RatingSum += int64(rating)
	d.NumRatings++
	return d
}

type Earnings struct {
	DriverID           uuid.UUID `json:"driver_id"`
	GrossEarnings      float64   `json:"gross_earnings"`
	CommissionRate     float64   `json:"commission_rate"`
	TotalEarnings      float64   `json:"total_earnings"`
	CompletedRideCount int       `json:"completed_rides"`
}

type RatingResult struct {
	DriverID      uuid.UUID `json:"driver_id"`
	AverageRating float64   `json:"average_rating"`
	NumRatings    int64     `json:"num_ratings"`
}
