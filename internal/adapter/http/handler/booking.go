package handler

import (
	"net/http"

	"github.com/Temutjin2k/ride-share-system/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-share-system/pkg/validator"
)

// BookSeats godoc
// @Summary      Book seats
// @Description  Books one or more passenger groups on a ride in a single all-or-nothing write.
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path      string            true  "Ride ID"
// @Param        request  body      dto.BookSeatsReq  true  "Passenger groups"
// @Success      201      {object}  models.BookingResult
// @Failure      409      {object}  map[string]any  "insufficient_seats carries remaining_seats"
// @Router       /rides/{ride_id}/bookings [post]
func (h *Ride) BookSeats(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "book_seats")
	actor := models.ActorFromContext(ctx)

	rideID, err := readUUIDParam(r, "ride_id")
	if err != nil {
		h.l.Warn(ctx, "invalid ride uuid format")
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.BookSeatsReq
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		h.l.Warn(ctx, "invalid request data", "fields", v.Errors)
		failedValidationResponse(w, v.Errors)
		return
	}

	result, err := h.service.BookSeats(ctx, actor, req.ToModel(rideID))
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to book seats", err)
		return
	}

	response := envelope{
		"ride":     dto.VisibleRide(result.Ride, actor),
		"bookings": result.Bookings,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// CancelBooking godoc
// @Summary      Cancel own booking
// @Description  Without booking_id the rider's first accepted booking on the ride is cancelled.
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path      string                true   "Ride ID"
// @Param        request  body      dto.CancelBookingReq  false  "Booking and reason"
// @Success      200      {object}  models.CancelBookingResult
// @Router       /rides/{ride_id}/bookings/cancel [post]
func (h *Ride) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "cancel_booking")
	actor := models.ActorFromContext(ctx)

	rideID, err := readUUIDParam(r, "ride_id")
	if err != nil {
		h.l.Warn(ctx, "invalid ride uuid format")
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.CancelBookingReq
	if err := readOptionalJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		h.l.Warn(ctx, "invalid request data", "fields", v.Errors)
		failedValidationResponse(w, v.Errors)
		return
	}

	result, err := h.service.CancelBooking(ctx, actor, models.CancelBookingRequest{
		RideID:    rideID,
		BookingID: req.BookingID,
		Reason:    req.Reason,
	})
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to cancel booking", err)
		return
	}

	response := envelope{
		"ride":    dto.VisibleRide(result.Ride, actor),
		"booking": result.Booking,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// CancelPassengerBooking godoc
// @Summary      Cancel a passenger's booking
// @Description  The posting driver drops one accepted booking. A reason is required.
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id     path      string             true  "Ride ID"
// @Param        booking_id  path      string             true  "Booking ID"
// @Param        request     body      dto.CancelRideReq  true  "Reason"
// @Success      200         {object}  models.CancelBookingResult
// @Router       /rides/{ride_id}/bookings/{booking_id}/cancel [post]
func (h *Ride) CancelPassengerBooking(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "cancel_passenger_booking")

	rideID, err := readUUIDParam(r, "ride_id")
	if err != nil {
		h.l.Warn(ctx, "invalid ride uuid format")
		badRequestResponse(w, err.Error())
		return
	}
	bookingID, err := readUUIDParam(r, "booking_id")
	if err != nil {
		h.l.Warn(ctx, "invalid booking uuid format")
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.CancelRideReq
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		h.l.Warn(ctx, "invalid request data", "fields", v.Errors)
		failedValidationResponse(w, v.Errors)
		return
	}

	result, err := h.service.CancelPassengerBooking(ctx, models.ActorFromContext(ctx), models.CancelPassengerRequest{
		RideID:    rideID,
		BookingID: bookingID,
		Reason:    req.Reason,
	})
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to cancel passenger booking", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": result.Ride, "booking": result.Booking}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// RateDriver godoc
// @Summary      Rate the driver of a completed ride
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path      string             true  "Ride ID"
// @Param        request  body      dto.RateDriverReq  true  "Rating 1..5"
// @Success      200      {object}  models.RatingResult
// @Failure      409      {object}  map[string]any
// @Router       /rides/{ride_id}/rating [post]
func (h *Ride) RateDriver(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "rate_driver")

	rideID, err := readUUIDParam(r, "ride_id")
	if err != nil {
		h.l.Warn(ctx, "invalid ride uuid format")
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.RateDriverReq
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		h.l.Warn(ctx, "invalid request data", "fields", v.Errors)
		failedValidationResponse(w, v.Errors)
		return
	}

	result, err := h.service.RateDriver(ctx, models.ActorFromContext(ctx), models.RateDriverRequest{RideID: rideID, Rating: *req.Rating})
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to rate driver", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"rating": result}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}
