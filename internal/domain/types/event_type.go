package types

import "strings"

type RideEvent string

const (
	EventRidePosted         RideEvent = "RIDE_POSTED"
	EventSeatsBooked        RideEvent = "SEATS_BOOKED"
	EventBookingCancelled   RideEvent = "BOOKING_CANCELLED"
	EventPassengerCancelled RideEvent = "PASSENGER_CANCELLED"
	EventRideCancelled      RideEvent = "RIDE_CANCELLED"
	EventRideCompleted      RideEvent = "RIDE_COMPLETED"
	EventFareAdjusted       RideEvent = "FARE_ADJUSTED"
	EventDriverRated        RideEvent = "DRIVER_RATED"
)

func (e RideEvent) String() string {
	return string(e)
}

// RoutingKey is the topic routing key of the event, e.g. "ride.seats_booked".
func (e RideEvent) RoutingKey() string {
	return "ride." + strings.ToLower(string(e))
}
