package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-share-system/pkg/validator"
)

type RideService interface {
	PostRide(ctx context.Context, actor *models.Actor, req models.PostRideRequest) (*models.PostRideResult, error)
	GetActiveRides(ctx context.Context, filter models.RideFilter) (*models.RideList, error)
	GetRide(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
	GetPostedRides(ctx context.Context, actor *models.Actor) ([]*models.Ride, error)
	GetBookedRides(ctx context.Context, actor *models.Actor) ([]*models.Ride, error)

	BookSeats(ctx context.Context, actor *models.Actor, req models.BookSeatsRequest) (*models.BookingResult, error)
	CancelBooking(ctx context.Context, actor *models.Actor, req models.CancelBookingRequest) (*models.CancelBookingResult, error)
	CancelPassengerBooking(ctx context.Context, actor *models.Actor, req models.CancelPassengerRequest) (*models.CancelBookingResult, error)

	CancelRide(ctx context.Context, actor *models.Actor, req models.CancelRideRequest) (*models.Ride, error)
	CompleteRide(ctx context.Context, actor *models.Actor, rideID uuid.UUID) (*models.Ride, error)
	AdjustFare(ctx context.Context, actor *models.Actor, req models.AdjustFareRequest) (*models.Ride, error)

	GetDriverEarnings(ctx context.Context, actor *models.Actor) (*models.Earnings, error)
	RateDriver(ctx context.Context, actor *models.Actor, req models.RateDriverRequest) (*models.RatingResult, error)

	CalculateSuggestedFare(ctx context.Context, origin, destination string) (*models.FareEstimate, error)
	ReverseGeocode(ctx context.Context, coord models.Coordinate) (*models.Address, error)
	PublicPolicy(ctx context.Context) (models.PublicPolicy, error)
}

type Ride struct {
	service RideService
	l       logger.Logger
}

func NewRide(service RideService, l logger.Logger) *Ride {
	return &Ride{
		service: service,
		l:       l,
	}
}

// PostRide godoc
// @Summary      Post a ride
// @Description  Driver publishes a ride with a fixed number of seats. The route is resolved before anything is stored.
// @Tags         Rides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.PostRideReq  true  "Ride"
// @Success      201      {object}  models.PostRideResult
// @Failure      422      {object}  map[string]any
// @Failure      502      {object}  map[string]any
// @Router       /rides [post]
func (h *Ride) PostRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "post_ride")
	actor := models.ActorFromContext(ctx)

	var req dto.PostRideReq
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

	result, err := h.service.PostRide(ctx, actor, req.ToModel())
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to post ride", err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"ride": result.Ride, "suggested_fare": result.SuggestedFare}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// GetActiveRides godoc
// @Summary      List active rides
// @Description  Active rides that have not departed yet, soonest first, with the driver's rating.
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Param        from       query  string  false  "Origin substring"
// @Param        to         query  string  false  "Destination substring"
// @Param        date_from  query  string  false  "Earliest departure (RFC3339 or YYYY-MM-DD)"
// @Param        date_to    query  string  false  "Latest departure (RFC3339 or YYYY-MM-DD)"
// @Param        page       query  int     false  "Page"
// @Param        page_size  query  int     false  "Page size"
// @Success      200  {object}  models.RideList
// @Router       /rides [get]
func (h *Ride) GetActiveRides(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_active_rides")
	actor := models.ActorFromContext(ctx)

	qs := r.URL.Query()
	v := validator.New()

	filter := models.RideFilter{
		Origin:      readString(qs, "from", ""),
		Destination: readString(qs, "to", ""),
		DepartFrom:  readTime(qs, "date_from", false, v),
		DepartTo:    readTime(qs, "date_to", true, v),
		Filters: models.NewFilters(
			readInt(qs, "page", models.DefaultPage, v),
			readInt(qs, "page_size", models.DefaultPageSize, v),
		),
	}
	filter.Filters.Validate(v)
	if filter.DepartFrom != nil && filter.DepartTo != nil {
		v.Check(!filter.DepartTo.Before(*filter.DepartFrom), "date_to", "must not be before date_from")
	}
	if !v.Valid() {
		h.l.Warn(ctx, "invalid query parameters", "fields", v.Errors)
		failedValidationResponse(w, v.Errors)
		return
	}

	list, err := h.service.GetActiveRides(ctx, filter)
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to list active rides", err)
		return
	}
	for i := range list.Rides {
		list.Rides[i].Ride = dto.VisibleRide(list.Rides[i].Ride, actor)
	}

	if err := writeJSON(w, http.StatusOK, envelope{"rides": list.Rides, "metadata": list.Metadata}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// GetRide godoc
// @Summary      Get a ride
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path      string  true  "Ride ID"
// @Success      200      {object}  models.Ride
// @Failure      404      {object}  map[string]any
// @Router       /rides/{ride_id} [get]
func (h *Ride) GetRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_ride")
	actor := models.ActorFromContext(ctx)

	rideID, err := readUUIDParam(r, "ride_id")
	if err != nil {
		h.l.Warn(ctx, "invalid ride uuid format")
		badRequestResponse(w, err.Error())
		return
	}

	ride, err := h.service.GetRide(ctx, rideID)
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to get ride", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": dto.VisibleRide(ride, actor)}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// GetPostedRides godoc
// @Summary      Rides posted by the driver
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Ride
// @Router       /rides/posted [get]
func (h *Ride) GetPostedRides(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_posted_rides")

	rides, err := h.service.GetPostedRides(ctx, models.ActorFromContext(ctx))
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to get posted rides", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"rides": rides}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// GetBookedRides godoc
// @Summary      Rides booked by the rider
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Ride
// @Router       /rides/booked [get]
func (h *Ride) GetBookedRides(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_booked_rides")
	actor := models.ActorFromContext(ctx)

	rides, err := h.service.GetBookedRides(ctx, actor)
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to get booked rides", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"rides": dto.VisibleRides(rides, actor)}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// CancelRide godoc
// @Summary      Cancel a ride
// @Description  Driver cancels the whole ride before the cancellation cutoff. A reason is required.
// @Tags         Rides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path      string             true  "Ride ID"
// @Param        request  body      dto.CancelRideReq  true  "Reason"
// @Success      200      {object}  models.Ride
// @Failure      409      {object}  map[string]any
// @Router       /rides/{ride_id}/cancel [post]
func (h *Ride) CancelRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "cancel_ride")

	rideID, err := readUUIDParam(r, "ride_id")
	if err != nil {
		h.l.Warn(ctx, "invalid ride uuid format")
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

	ride, err := h.service.CancelRide(ctx, models.ActorFromContext(ctx), models.CancelRideRequest{RideID: rideID, Reason: req.Reason})
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to cancel ride", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": ride}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// CompleteRide godoc
// @Summary      Complete a ride
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path      string  true  "Ride ID"
// @Success      200      {object}  models.Ride
// @Failure      409      {object}  map[string]any
// @Router       /rides/{ride_id}/complete [post]
func (h *Ride) CompleteRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "complete_ride")

	rideID, err := readUUIDParam(r, "ride_id")
	if err != nil {
		h.l.Warn(ctx, "invalid ride uuid format")
		badRequestResponse(w, err.Error())
		return
	}

	ride, err := h.service.CompleteRide(ctx, models.ActorFromContext(ctx), rideID)
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to complete ride", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": ride}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// AdjustFare godoc
// @Summary      Adjust the price per seat
// @Description  Applies to bookings made after the change.
// @Tags         Rides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path      string             true  "Ride ID"
// @Param        request  body      dto.AdjustFareReq  true  "New price"
// @Success      200      {object}  models.Ride
// @Router       /rides/{ride_id}/fare [patch]
func (h *Ride) AdjustFare(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "adjust_fare")

	rideID, err := readUUIDParam(r, "ride_id")
	if err != nil {
		h.l.Warn(ctx, "invalid ride uuid format")
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.AdjustFareReq
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

	ride, err := h.service.AdjustFare(ctx, models.ActorFromContext(ctx), models.AdjustFareRequest{RideID: rideID, PricePerSeat: *req.PricePerSeat})
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to adjust fare", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": ride}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}
