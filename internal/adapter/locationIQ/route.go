package locationIQ

import (
	"context"
	"fmt"
	"math"
	"net/url"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/internal/service/ridecalc"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
)

type directionsPayload struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// EstimateRoute returns the driving distance and duration between two coordinates.
// In estimate mode no request is made and the haversine calculator is used instead.
func (c *LocationIQClient) EstimateRoute(ctx context.Context, origin, dest models.Coordinate) (models.Route, error) {
	const op = "LocationIQClient.EstimateRoute"

	if c.routeMode == RouteModeEstimate && c.calc != nil {
		return c.calc.EstimateRoute(origin, dest), nil
	}
	ctx = wrap.WithAction(ctx, "locationiq_directions")

	path := fmt.Sprintf("/v1/directions/driving/%f,%f;%f,%f", origin.Lng, origin.Lat, dest.Lng, dest.Lat)

	var payload directionsPayload
	err := c.getJSON(ctx, path, url.Values{"overview": {"false"}}, &payload)
	if isNotFound(err) {
		return models.Route{}, fmt.Errorf("%s: %w", op, types.ErrNoRoute)
	}
	if err != nil {
		return models.Route{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if payload.Code != "Ok" || len(payload.Routes) == 0 {
		return models.Route{}, fmt.Errorf("%s: code %q: %w", op, payload.Code, types.ErrNoRoute)
	}

	meters := int(math.Round(payload.Routes[0].Distance))
	seconds := int(math.Round(payload.Routes[0].Duration))
	return models.Route{
		DistanceMeters:  meters,
		DurationSeconds: seconds,
		DistanceLabel:   ridecalc.FormatDistance(meters),
		DurationLabel:   ridecalc.FormatDuration(seconds),
	}, nil
}
