package handler

import (
	"net/http"

	"github.com/Temutjin2k/ride-share-system/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-share-system/pkg/validator"
)

// GetDriverEarnings godoc
// @Summary      Driver earnings
// @Description  Completed bookings on completed rides, net of the platform commission.
// @Tags         Drivers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Earnings
// @Router       /drivers/me/earnings [get]
func (h *Ride) GetDriverEarnings(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_driver_earnings")

	earnings, err := h.service.GetDriverEarnings(ctx, models.ActorFromContext(ctx))
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to get driver earnings", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"earnings": earnings}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// SuggestFare godoc
// @Summary      Suggested fare
// @Description  Resolves both places and prices the route per kilometre.
// @Tags         Drivers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.FareSuggestReq  true  "Route"
// @Success      200      {object}  models.FareEstimate
// @Failure      502      {object}  map[string]any
// @Router       /fares/suggest [post]
func (h *Ride) SuggestFare(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "suggest_fare")

	var req dto.FareSuggestReq
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

	estimate, err := h.service.CalculateSuggestedFare(ctx, req.Origin, req.Destination)
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to calculate suggested fare", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"estimate": estimate}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// ReverseGeocode godoc
// @Summary      Address for coordinates
// @Tags         Maps
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.ReverseGeocodeReq  true  "Coordinates"
// @Success      200      {object}  models.Address
// @Router       /maps/reverse-geocode [post]
func (h *Ride) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "reverse_geocode")

	var req dto.ReverseGeocodeReq
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

	address, err := h.service.ReverseGeocode(ctx, req.ToModel())
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to reverse geocode", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"address": address}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

// GetSettings godoc
// @Summary      Booking policy
// @Description  Effective policy values with defaults applied.
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  models.PublicPolicy
// @Failure      502  {object}  map[string]any
// @Router       /settings [get]
func (h *Ride) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_settings")

	policy, err := h.service.PublicPolicy(ctx)
	if err != nil {
		serviceErrorResponse(ctx, w, h.l, "failed to read policy", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"settings": policy}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}
