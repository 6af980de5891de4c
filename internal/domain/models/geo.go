package models

// Route is a distance/duration estimate between two coordinates.
type Route struct {
	DistanceMeters  int    `json:"distance_meters"`
	DurationSeconds int    `json:"duration_seconds"`
	DistanceLabel   string `json:"distance"`
	DurationLabel   string `json:"duration"`
}

func (r Route) DistanceKm() float64 {
	return float64(r.DistanceMeters) / 1000
}

type FareEstimate struct {
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	OriginCoord   Coordinate `json:"origin_coord"`
	DestCoord     Coordinate `json:"destination_coord"`
	Route         Route      `json:"route"`
	RatePerKm     float64    `json:"rate_per_km"`
	SuggestedFare float64    `json:"suggested_fare"`
}

type Address struct {
	Coordinate
	Address string `json:"address"`
}
