package locationIQ

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/internal/service/ridecalc"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-share-system/pkg/metrics"
)

const (
	DefaultBaseURL = "https://us1.locationiq.com"

	RouteModeDirections = "directions"
	RouteModeEstimate   = "estimate"

	dependency = "locationiq"
)

var ErrNoAPIKey = errors.New("locationiq api key is not set")

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// RouteMode selects the directions API or a haversine estimate for EstimateRoute.
	RouteMode string
}

type LocationIQClient struct {
	apiKey    string
	baseURL   string
	routeMode string
	http      *http.Client
	calc      ridecalc.Calculator
}

func New(cfg Config, calc ridecalc.Calculator) (*LocationIQClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RouteMode == "" {
		cfg.RouteMode = RouteModeDirections
	}

	return &LocationIQClient{
		apiKey:    cfg.APIKey,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		routeMode: cfg.RouteMode,
		http:      &http.Client{Timeout: cfg.Timeout},
		calc:      calc,
	}, nil
}

// statusError is a non-200 response from LocationIQ.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected response status %d: %s", e.code, e.body)
}

// getJSON performs a GET on path with query and decodes the body into dst.
func (c *LocationIQClient) getJSON(ctx context.Context, path string, query url.Values, dst any) (err error) {
	defer func() { metrics.RecordUpstreamCall(dependency, err) }()

	query.Set("key", c.apiKey)
	query.Set("format", "json")
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return wrap.Error(ctx, fmt.Errorf("failed to make request to LocationIQ: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to decode data from LocationIQ response: %w", err))
	}
	return nil
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusNotFound
}
