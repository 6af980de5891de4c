package locationIQ

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
)

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type AddressPayload struct {
	Address string `json:"display_name"`
}

// ResolveLocation geocodes a free text label. Unknown labels give types.ErrLocationNotFound.
func (c *LocationIQClient) ResolveLocation(ctx context.Context, label string) (models.Coordinate, error) {
	const op = "LocationIQClient.ResolveLocation"
	ctx = wrap.WithAction(ctx, "locationiq_resolve_location")

	var results []searchResult
	err := c.getJSON(ctx, "/v1/search", url.Values{"q": {label}, "limit": {"1"}}, &results)
	if isNotFound(err) {
		return models.Coordinate{}, fmt.Errorf("%s: %q: %w", op, label, types.ErrLocationNotFound)
	}
	if err != nil {
		return models.Coordinate{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if len(results) == 0 {
		return models.Coordinate{}, fmt.Errorf("%s: %q: %w", op, label, types.ErrLocationNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Coordinate{}, wrap.Error(ctx, fmt.Errorf("%s: failed to parse latitude: %w", op, err))
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Coordinate{}, wrap.Error(ctx, fmt.Errorf("%s: failed to parse longitude: %w", op, err))
	}

	return models.Coordinate{Lat: lat, Lng: lng}, nil
}

// ReverseGeocode returns the display address of a coordinate.
func (c *LocationIQClient) ReverseGeocode(ctx context.Context, coord models.Coordinate) (string, error) {
	const op = "LocationIQClient.ReverseGeocode"
	ctx = wrap.WithAction(ctx, "locationiq_reverse_geocode")

	query := url.Values{
		"lat": {strconv.FormatFloat(coord.Lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(coord.Lng, 'f', -1, 64)},
	}

	var payload AddressPayload
	err := c.getJSON(ctx, "/v1/reverse", query, &payload)
	if isNotFound(err) {
		return "", fmt.Errorf("%s: %w", op, types.ErrLocationNotFound)
	}
	if err != nil {
		return "", wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if payload.Address == "" {
		return "", fmt.Errorf("%s: %w", op, types.ErrLocationNotFound)
	}
	return payload.Address, nil
}
