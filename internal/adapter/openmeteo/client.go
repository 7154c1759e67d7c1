package openmeteo

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/couchcryptid/weather-dashboard-service/internal/domain"
	"github.com/couchcryptid/weather-dashboard-service/internal/observability"
)

const (
	searchPath   = "/v1/search"
	forecastPath = "/v1/forecast"

	endpointGeocode  = "geocode"
	endpointForecast = "forecast"

	userAgent = "weather-dashboard-service/1.0"
)

var (
	currentFields = []string{
		"temperature_2m", "relative_humidity_2m", "apparent_temperature", "weather_code",
		"surface_pressure", "wind_speed_10m", "wind_direction_10m", "is_day",
		"dew_point_2m", "visibility", "cloud_cover", "precipitation",
	}
	hourlyFields = []string{
		"temperature_2m", "weather_code", "precipitation_probability", "precipitation", "wind_speed_10m",
	}
	dailyFields = []string{
		"weather_code", "temperature_2m_max", "temperature_2m_min", "uv_index_max", "precipitation_sum",
	}
)

// Client implements domain.Geocoder and domain.ForecastSource against the
// Open-Meteo geocoding and forecast APIs.
type Client struct {
	geocoding *resty.Client
	forecast  *resty.Client
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewClient creates an Open-Meteo client. Both APIs are keyless.
func NewClient(geocodingBaseURL, forecastBaseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	c := &Client{
		metrics: metrics,
		logger:  logger,
	}
	c.geocoding = c.newResty(geocodingBaseURL, timeout)
	c.forecast = c.newResty(forecastBaseURL, timeout)
	return c
}

func (c *Client) newResty(baseURL string, timeout time.Duration) *resty.Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	rc.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		c.logger.Debug("open-meteo response",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
			"bytes", len(resp.Body()),
		)
		return nil
	})
	return rc
}

// ForwardGeocode returns the top match for a place name. A zero result means
// the query matched nothing.
func (c *Client) ForwardGeocode(ctx context.Context, name string) (domain.GeocodingResult, error) {
	var body searchResponse
	start := time.Now()
	resp, err := c.geocoding.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"name":     name,
			"count":    "1",
			"language": "en",
			"format":   "json",
		}).
		SetResult(&body).
		SetError(&apiError{}).
		Get(searchPath)
	c.metrics.UpstreamDuration.WithLabelValues(endpointGeocode).Observe(time.Since(start).Seconds())
	if err = checkResponse("geocoding", resp, err); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpointGeocode, "error").Inc()
		return domain.GeocodingResult{}, err
	}

	if len(body.Results) == 0 {
		c.metrics.UpstreamRequests.WithLabelValues(endpointGeocode, "empty").Inc()
		return domain.GeocodingResult{}, nil
	}
	c.metrics.UpstreamRequests.WithLabelValues(endpointGeocode, "success").Inc()

	r := body.Results[0]
	return domain.GeocodingResult{
		Name:      r.Name,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Country:   r.Country,
		Admin1:    r.Admin1,
	}, nil
}

// Forecast fetches current, hourly, and daily data already converted to unit.
func (c *Client) Forecast(ctx context.Context, coords domain.Coordinates, unit domain.UnitSystem) (domain.ForecastPayload, error) {
	var payload domain.ForecastPayload
	start := time.Now()
	resp, err := c.forecast.R().
		SetContext(ctx).
		SetQueryParams(forecastParams(coords, unit)).
		SetResult(&payload).
		SetError(&apiError{}).
		Get(forecastPath)
	c.metrics.UpstreamDuration.WithLabelValues(endpointForecast).Observe(time.Since(start).Seconds())
	if err = checkResponse("forecast", resp, err); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpointForecast, "error").Inc()
		return domain.ForecastPayload{}, err
	}
	c.metrics.UpstreamRequests.WithLabelValues(endpointForecast, "success").Inc()
	return payload, nil
}

// checkResponse folds resty's outcome into one error. A non-2xx status is a
// *domain.TransportError even when its body failed to decode.
func checkResponse(service string, resp *resty.Response, err error) error {
	switch {
	case resp != nil && resp.IsError():
		return transportError(service, resp)
	case err != nil && resp != nil && resp.IsSuccess():
		return fmt.Errorf("decode %s response: %w", service, err)
	case err != nil:
		return fmt.Errorf("%s request: %w", service, err)
	case !resp.IsSuccess():
		return transportError(service, resp)
	}
	return nil
}

func forecastParams(coords domain.Coordinates, unit domain.UnitSystem) map[string]string {
	params := map[string]string{
		"latitude":   strconv.FormatFloat(coords.Latitude, 'f', -1, 64),
		"longitude":  strconv.FormatFloat(coords.Longitude, 'f', -1, 64),
		"current":    strings.Join(currentFields, ","),
		"hourly":     strings.Join(hourlyFields, ","),
		"daily":      strings.Join(dailyFields, ","),
		"timeformat": "unixtime",
		"timezone":   "auto",
	}
	for k, v := range unit.QueryParams() {
		params[k] = v
	}
	return params
}

func transportError(service string, resp *resty.Response) error {
	body := strings.TrimSpace(resp.String())
	if apiErr, ok := resp.Error().(*apiError); ok && apiErr.Reason != "" {
		body = apiErr.Reason
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return &domain.TransportError{
		Service:    service,
		StatusCode: resp.StatusCode(),
		Body:       body,
	}
}

// apiError is the body Open-Meteo sends with 4xx/5xx responses.
type apiError struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

// Open-Meteo geocoding response types.

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
}
