package types

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller. Every error surfaced by the booking engine has one.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindPermission         Kind = "permission"
	KindNotFound           Kind = "not_found"
	KindStateConflict      Kind = "state_conflict"
	KindUpstreamDependency Kind = "upstream_dependency"
	KindWriteConflict      Kind = "write_conflict"
	KindInternal           Kind = "internal"
)

func (k Kind) String() string {
	return string(k)
}

// Error is a classified domain error. Two errors with the same Code are equal under errors.Is.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Remaining is set for insufficient_seats only.
	Remaining *int
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e with err attached as its cause.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

// WithMessage returns a copy of e with a more specific message.
func (e *Error) WithMessage(format string, args ...any) *Error {
	c := *e
	c.Message = fmt.Sprintf(format, args...)
	return &c
}

func newErr(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// NewValidationError builds an ad-hoc validation error.
func NewValidationError(code, msg string) *Error {
	return newErr(KindValidation, code, msg)
}

// Validation
var (
	ErrInvalidInput     = newErr(KindValidation, "invalid_input", "invalid input")
	ErrInvalidSeats     = newErr(KindValidation, "invalid_seats", "seats must be a positive number")
	ErrInvalidPrice     = newErr(KindValidation, "invalid_price", "price per seat must be greater than zero")
	ErrDepartureInPast  = newErr(KindValidation, "departure_in_past", "departure time must be in the future")
	ErrInvalidRating    = newErr(KindValidation, "invalid_rating", "rating must be an integer between 1 and 5")
	ErrEmptyPassengers  = newErr(KindValidation, "empty_passengers", "at least one passenger group is required")
	ErrInvalidLocation  = newErr(KindValidation, "invalid_location", "origin and destination are required")
	ErrInvalidCoords    = newErr(KindValidation, "invalid_coordinates", "latitude must be within [-90,90] and longitude within [-180,180]")
)

// Permission
var (
	ErrUnauthenticated   = newErr(KindPermission, "unauthenticated", "authentication required")
	ErrForbidden         = newErr(KindPermission, "forbidden", "insufficient role")
	ErrNotDriver         = newErr(KindPermission, "not_driver", "only drivers can perform this action")
	ErrNotRider          = newErr(KindPermission, "not_rider", "only riders can perform this action")
	ErrNotApprovedDriver = newErr(KindPermission, "not_approved_driver", "driver is not approved to post rides")
	ErrNotRideOwner      = newErr(KindPermission, "not_ride_owner", "only the driver who posted the ride can perform this action")
	ErrOwnRide           = newErr(KindPermission, "own_ride", "drivers cannot book their own ride")
)

// Not found
var (
	ErrRideNotFound    = newErr(KindNotFound, "ride_not_found", "ride not found")
	ErrBookingNotFound = newErr(KindNotFound, "booking_not_found", "booking not found")
	ErrDriverNotFound  = newErr(KindNotFound, "driver_not_found", "driver not found")
	ErrNoActiveBooking = newErr(KindNotFound, "no_active_booking", "no active booking found for this ride")
)

// State conflict
var (
	ErrRideNotActive            = newErr(KindStateConflict, "ride_not_active", "ride is not active")
	ErrRideTerminal             = newErr(KindStateConflict, "ride_terminal", "ride is already completed or cancelled")
	ErrBookingWindowClosed      = newErr(KindStateConflict, "booking_window_closed", "booking window for this ride has closed")
	ErrCancellationWindowClosed = newErr(KindStateConflict, "cancellation_window_closed", "cancellation window has closed")
	ErrBookingNotActive         = newErr(KindStateConflict, "booking_not_active", "booking is not active")
	ErrRideNotCompleted         = newErr(KindStateConflict, "ride_not_completed", "You can only rate completed rides")
	ErrNotCompletedPassenger    = newErr(KindStateConflict, "not_completed_passenger", "You can only rate rides you completed as a passenger")
	ErrAlreadyRated             = newErr(KindStateConflict, "already_rated", "You have already rated this ride")
	ErrBookingDisabled          = newErr(KindStateConflict, "booking_disabled", "booking is currently disabled")
	ErrInsufficientSeats        = newErr(KindStateConflict, "insufficient_seats", "Not enough seats available")
	ErrDuplicateBooking         = newErr(KindStateConflict, "duplicate_booking", "You have already booked this ride with the same passenger details")
)

// Upstream
var (
	ErrRouteUnresolved    = newErr(KindUpstreamDependency, "route_unresolved", "could not resolve route between origin and destination")
	ErrGeoUnavailable     = newErr(KindUpstreamDependency, "geo_unavailable", "geo service is unavailable")
	ErrPolicyUnavailable  = newErr(KindUpstreamDependency, "policy_unavailable", "policy store is unavailable")
	ErrAddressUnavailable = newErr(KindUpstreamDependency, "address_unavailable", "could not resolve address for coordinates")
)

// Write conflict
var (
	ErrRideChanged = newErr(KindWriteConflict, "ride_changed", "ride was modified concurrently, please retry")
)

// Internal
var (
	ErrInternal = newErr(KindInternal, "internal", "internal server error")
)

// Storage and adapter level errors. They never reach a client unclassified.
var (
	ErrVersionConflict  = errors.New("version conflict")
	ErrLocationNotFound = errors.New("location not found")
	ErrNoRoute          = errors.New("no route found")
)

// InsufficientSeats reports the seats still available on the ride.
func InsufficientSeats(remaining int) *Error {
	e := *ErrInsufficientSeats
	e.Message = fmt.Sprintf("Not enough seats available. Only %d left.", remaining)
	e.Remaining = &remaining
	return &e
}

// KindOf returns the kind of err, or KindInternal when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// AsError returns the classified error in err's chain, or ErrInternal wrapping err.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.Wrap(err)
}
