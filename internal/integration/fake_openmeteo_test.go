package integration_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-dashboard-service/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeOpenMeteo serves /v1/search and /v1/forecast the way the real APIs do,
// answering temperatures in whichever unit the request asks for.
type fakeOpenMeteo struct {
	searches      atomic.Int32
	forecasts     atomic.Int32
	dailyEntries  int
	forecastError int // non-zero makes /v1/forecast fail with this status
}

func newFakeOpenMeteo() *fakeOpenMeteo {
	return &fakeOpenMeteo{dailyEntries: 7}
}

var fakePlaces = map[string]map[string]any{
	"paris":         {"name": "Paris", "latitude": 48.85, "longitude": 2.35, "country": "France", "admin1": ""},
	"london":        {"name": "London", "latitude": 51.51, "longitude": -0.13, "country": "United Kingdom", "admin1": "England"},
	"san francisco": {"name": "San Francisco", "latitude": 37.77, "longitude": -122.42, "country": "United States", "admin1": "California"},
}

func (f *fakeOpenMeteo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/v1/search":
		f.searches.Add(1)
		place, ok := fakePlaces[strings.ToLower(r.URL.Query().Get("name"))]
		if !ok {
			_, _ = w.Write([]byte(`{"generationtime_ms":0.4}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{place}})
	case "/v1/forecast":
		f.forecasts.Add(1)
		if f.forecastError != 0 {
			w.WriteHeader(f.forecastError)
			_, _ = w.Write([]byte(`{"error":true,"reason":"upstream unavailable"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(f.payload(r))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeOpenMeteo) payload(r *http.Request) domain.ForecastPayload {
	q := r.URL.Query()
	lat, _ := strconv.ParseFloat(q.Get("latitude"), 64)
	lon, _ := strconv.ParseFloat(q.Get("longitude"), 64)

	temp := 64.4 // fahrenheit
	if q.Get("temperature_unit") == "celsius" {
		temp = 18.0
	}

	dayStart := time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)
	hourly := domain.HourlySeries{}
	for i := range 48 {
		hourly.Time = append(hourly.Time, dayStart.Add(time.Duration(i)*time.Hour).Unix())
		hourly.Temperature = append(hourly.Temperature, temp)
		hourly.WeatherCode = append(hourly.WeatherCode, 0)
		hourly.PrecipitationProbability = append(hourly.PrecipitationProbability, 0)
		hourly.Precipitation = append(hourly.Precipitation, 0)
		hourly.WindSpeed = append(hourly.WindSpeed, 4)
	}

	daily := domain.DailySeries{}
	for i := range f.dailyEntries {
		daily.Time = append(daily.Time, dayStart.AddDate(0, 0, i).Unix())
		daily.WeatherCode = append(daily.WeatherCode, 0)
		daily.TemperatureMax = append(daily.TemperatureMax, temp+5)
		daily.TemperatureMin = append(daily.TemperatureMin, temp-5)
		daily.UVIndexMax = append(daily.UVIndexMax, 5)
		daily.PrecipitationSum = append(daily.PrecipitationSum, 0)
	}

	return domain.ForecastPayload{
		Latitude:  lat,
		Longitude: lon,
		Timezone:  "GMT",
		Current: domain.CurrentConditions{
			Time:          dayStart.Add(13 * time.Hour).Unix(),
			Temperature:   temp,
			WeatherCode:   0,
			IsDay:         1,
			WindDirection: 225,
			Visibility:    10000,
		},
		Hourly: hourly,
		Daily:  daily,
	}
}
