package types

// RideStatus is the lifecycle state of a ride.
type RideStatus string

const (
	RideActive    RideStatus = "active"
	RideCompleted RideStatus = "completed"
	RideCancelled RideStatus = "cancelled"
)

func (s RideStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is allowed.
func (s RideStatus) IsTerminal() bool {
	return s == RideCompleted || s == RideCancelled
}

// BookingStatus is the lifecycle state of a passenger booking.
type BookingStatus string

const (
	BookingAccepted          BookingStatus = "accepted"
	BookingCancelledByRider  BookingStatus = "cancelled_by_rider"
	BookingCancelledByDriver BookingStatus = "cancelled_by_driver"
	BookingCompletedByDriver BookingStatus = "completed_by_driver"
)

func (s BookingStatus) String() string {
	return string(s)
}

// UserRole is the role claimed by an authenticated user.
type UserRole string

const (
	RoleRider  UserRole = "rider"
	RoleDriver UserRole = "driver"
	RoleAdmin  UserRole = "admin"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleRider, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// StorageMode selects the ride record store implementation.
type StorageMode string

const (
	StoragePostgres StorageMode = "postgres"
	StorageMemory   StorageMode = "memory"
)

func (m StorageMode) String() string {
	return string(m)
}

func (m StorageMode) IsValid() bool {
	return m == StoragePostgres || m == StorageMemory
}

// Policy keys read from the settings store.
const (
	PolicyCommissionRate          = "commissionRate"
	PolicyBookingLeadTimeMinutes  = "bookingLeadTimeMinutes"
	PolicyRiderCancelCutoffHours  = "riderCancellationCutoffHours"
	PolicyDriverCancelCutoffHours = "driverCancellationCutoffHours"
	PolicyBookingAvailable        = "isBookingAvailable"
)
