package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-dashboard-service/internal/domain"
	"github.com/couchcryptid/weather-dashboard-service/internal/observability"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(t *testing.T, baseURL string) (*Client, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(baseURL, baseURL, 5*time.Second, metrics, logger), metrics
}

func TestClient_ForwardGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchPath, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Paris", q.Get("name"))
		assert.Equal(t, "1", q.Get("count"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "json", q.Get("format"))

		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(searchResponse{
			Results: []searchResult{{
				Name:      "Paris",
				Latitude:  48.85,
				Longitude: 2.35,
				Country:   "France",
			}},
		}))
	}))
	defer srv.Close()

	c, metrics := testClient(t, srv.URL)
	result, err := c.ForwardGeocode(context.Background(), "Paris")
	require.NoError(t, err)

	assert.Equal(t, domain.GeocodingResult{
		Name:      "Paris",
		Latitude:  48.85,
		Longitude: 2.35,
		Country:   "France",
	}, result)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues(endpointGeocode, "success")), 1e-9)
}

func TestClient_ForwardGeocode_NoResults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing results", `{"generationtime_ms":0.5}`},
		{"empty results", `{"results":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set(headerContentType, contentTypeJSON)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, metrics := testClient(t, srv.URL)
			result, err := c.ForwardGeocode(context.Background(), "Atlantis")
			require.NoError(t, err)
			assert.Empty(t, result.Name)
			assert.InDelta(t, 1, testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues(endpointGeocode, "empty")), 1e-9)
		})
	}
}

func TestClient_ForwardGeocode_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":true,"reason":"boom"}`))
	}))
	defer srv.Close()

	c, metrics := testClient(t, srv.URL)
	_, err := c.ForwardGeocode(context.Background(), "Paris")
	require.Error(t, err)

	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "geocoding", te.Service)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Contains(t, te.Body, "boom")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues(endpointGeocode, "error")), 1e-9)
}

func TestClient_ForwardGeocode_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL)
	_, err := c.ForwardGeocode(context.Background(), "Paris")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode geocoding response")
}

func TestClient_ForwardGeocode_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.ForwardGeocode(ctx, "Paris")
	require.Error(t, err)
}

func TestClient_Forecast_QueryParameters(t *testing.T) {
	tests := []struct {
		unit          domain.UnitSystem
		windUnit      string
		tempUnit      string
		precipitation string
	}{
		{domain.Imperial, "mph", "fahrenheit", "inch"},
		{domain.Metric, "kmh", "celsius", "mm"},
	}

	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, forecastPath, r.URL.Path)
				q := r.URL.Query()
				assert.Equal(t, "48.85", q.Get("latitude"))
				assert.Equal(t, "2.35", q.Get("longitude"))
				assert.Equal(t, "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,surface_pressure,wind_speed_10m,wind_direction_10m,is_day,dew_point_2m,visibility,cloud_cover,precipitation", q.Get("current"))
				assert.Equal(t, "temperature_2m,weather_code,precipitation_probability,precipitation,wind_speed_10m", q.Get("hourly"))
				assert.Equal(t, "weather_code,temperature_2m_max,temperature_2m_min,uv_index_max,precipitation_sum", q.Get("daily"))
				assert.Equal(t, tt.windUnit, q.Get("wind_speed_unit"))
				assert.Equal(t, tt.tempUnit, q.Get("temperature_unit"))
				assert.Equal(t, tt.precipitation, q.Get("precipitation_unit"))
				assert.Equal(t, "unixtime", q.Get("timeformat"))
				assert.Equal(t, "auto", q.Get("timezone"))

				w.Header().Set(headerContentType, contentTypeJSON)
				_, _ = w.Write([]byte(`{"timezone":"Europe/Paris","utc_offset_seconds":7200}`))
			}))
			defer srv.Close()

			c, _ := testClient(t, srv.URL)
			payload, err := c.Forecast(context.Background(), domain.Coordinates{Latitude: 48.85, Longitude: 2.35}, tt.unit)
			require.NoError(t, err)
			assert.Equal(t, "Europe/Paris", payload.Timezone)
			assert.Equal(t, 7200, payload.UTCOffsetSeconds)
		})
	}
}

func TestClient_Forecast_DecodesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{
			"latitude": 48.86,
			"longitude": 2.34,
			"timezone": "Europe/Paris",
			"utc_offset_seconds": 7200,
			"current": {"time": 1714134600, "temperature_2m": 61.3, "weather_code": 2, "is_day": 1, "visibility": 24140},
			"hourly": {"time": [1714132800, 1714136400], "temperature_2m": [60.1, null], "weather_code": [2, 3]},
			"daily": {"time": [1714082400], "weather_code": [61], "temperature_2m_max": [64.2], "temperature_2m_min": [48.9]}
		}`))
	}))
	defer srv.Close()

	c, metrics := testClient(t, srv.URL)
	payload, err := c.Forecast(context.Background(), domain.Coordinates{Latitude: 48.85, Longitude: 2.35}, domain.Imperial)
	require.NoError(t, err)

	assert.Equal(t, int64(1714134600), payload.Current.Time)
	assert.InDelta(t, 61.3, payload.Current.Temperature, 1e-9)
	assert.Equal(t, 1, payload.Current.IsDay)
	assert.Equal(t, []int64{1714132800, 1714136400}, payload.Hourly.Time)
	assert.Equal(t, []float64{60.1, 0}, payload.Hourly.Temperature)
	assert.Equal(t, []int{61}, payload.Daily.WeatherCode)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues(endpointForecast, "success")), 1e-9)
}

func TestClient_Forecast_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":true,"reason":"Latitude must be in range of -90 to 90°."}`))
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL)
	_, err := c.Forecast(context.Background(), domain.Coordinates{Latitude: 123, Longitude: 0}, domain.Metric)

	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "forecast", te.Service)
	assert.Equal(t, http.StatusBadRequest, te.StatusCode)
	assert.Equal(t, "Latitude must be in range of -90 to 90°.", te.Body)
}

func TestClient_Forecast_ErrorWithUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	c, metrics := testClient(t, srv.URL)
	_, err := c.Forecast(context.Background(), domain.Coordinates{}, domain.Metric)

	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusServiceUnavailable, te.StatusCode)
	assert.Equal(t, "<html>maintenance</html>", te.Body)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.UpstreamRequests.WithLabelValues(endpointForecast, "error")), 1e-9)
}

func TestClient_Forecast_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"current":`))
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL)
	_, err := c.Forecast(context.Background(), domain.Coordinates{}, domain.Metric)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode forecast response")

	var te *domain.TransportError
	assert.False(t, errors.As(err, &te))
}

func TestTransportError_TruncatesBody(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write(long)
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL)
	_, err := c.Forecast(context.Background(), domain.Coordinates{}, domain.Imperial)

	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Len(t, te.Body, 512)
}
