package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Temutjin2k/ride-share-system/docs"
	"github.com/Temutjin2k/ride-share-system/internal/adapter/http/middleware"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// System Health
	mux.HandleFunc("GET /health", routes.health.HealthCheck)

	setupSwaggerRoutes(mux)
	setupMetricsRoute(mux)

	setupRideRoutes(mux, routes, m)
	setupBookingRoutes(mux, routes, m)
	setupDriverRoutes(mux, routes, m)

	mux.HandleFunc("GET /settings", routes.ride.GetSettings)
	mux.Handle("POST /maps/reverse-geocode", m.RequireRoles(routes.ride.ReverseGeocode))
	mux.Handle("GET /ws/rides/{ride_id}/inventory", http.HandlerFunc(routes.inventory.Watch))
}

func setupRideRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /rides", m.RequireRoles(routes.ride.PostRide, types.RoleDriver))                        // Post a ride
	mux.Handle("GET /rides", m.RequireRoles(routes.ride.GetActiveRides))                                     // Search active rides
	mux.Handle("GET /rides/posted", m.RequireRoles(routes.ride.GetPostedRides, types.RoleDriver))            // Driver's own rides
	mux.Handle("GET /rides/booked", m.RequireRoles(routes.ride.GetBookedRides, types.RoleRider))             // Rider's booked rides
	mux.Handle("GET /rides/{ride_id}", m.RequireRoles(routes.ride.GetRide))                                  // Ride details
	mux.Handle("POST /rides/{ride_id}/cancel", m.RequireRoles(routes.ride.CancelRide, types.RoleDriver))     // Cancel a ride
	mux.Handle("POST /rides/{ride_id}/complete", m.RequireRoles(routes.ride.CompleteRide, types.RoleDriver)) // Complete a ride
	mux.Handle("PATCH /rides/{ride_id}/fare", m.RequireRoles(routes.ride.AdjustFare, types.RoleDriver))      // Change price per seat
	mux.Handle("POST /fares/suggest", m.RequireRoles(routes.ride.SuggestFare, types.RoleDriver))             // Suggested fare for a route
}

func setupBookingRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /rides/{ride_id}/bookings", m.RequireRoles(routes.ride.BookSeats, types.RoleRider))                                   // Book seats
	mux.Handle("POST /rides/{ride_id}/bookings/cancel", m.RequireRoles(routes.ride.CancelBooking, types.RoleRider))                        // Cancel own booking
	mux.Handle("POST /rides/{ride_id}/bookings/{booking_id}/cancel", m.RequireRoles(routes.ride.CancelPassengerBooking, types.RoleDriver)) // Drop a passenger
	mux.Handle("POST /rides/{ride_id}/rating", m.RequireRoles(routes.ride.RateDriver, types.RoleRider))                                    // Rate the driver
}

func setupDriverRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("GET /drivers/me/earnings", m.RequireRoles(routes.ride.GetDriverEarnings, types.RoleDriver))
}

// setupSwaggerRoutes serves the UI for the registered OpenAPI document.
func setupSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger/", httpSwagger.Handler(httpSwagger.InstanceName(docs.InstanceName)))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
