// Command forecast prints a normalized forecast snapshot as JSON.
//
// It either fetches live data from Open-Meteo or normalizes a saved
// /v1/forecast response, which is how test fixtures are produced.
//
// Usage:
//
//	go run ./cmd/forecast -city Paris -unit metric
//	go run ./cmd/forecast -lat 48.85 -lon 2.35
//	go run ./cmd/forecast -payload testdata/paris.json -label "Paris, France" -now 2024-04-26T12:30:00Z
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/couchcryptid/weather-dashboard-service/internal/adapter/device"
	"github.com/couchcryptid/weather-dashboard-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/weather-dashboard-service/internal/config"
	"github.com/couchcryptid/weather-dashboard-service/internal/dashboard"
	"github.com/couchcryptid/weather-dashboard-service/internal/domain"
	"github.com/couchcryptid/weather-dashboard-service/internal/observability"
)

type options struct {
	city    string
	lat     float64
	lon     float64
	hasLoc  bool
	unit    string
	payload string
	label   string
	now     string
}

func main() {
	var opts options
	flag.StringVar(&opts.city, "city", "", "city name to geocode")
	flag.Float64Var(&opts.lat, "lat", 0, "latitude (with -lon) instead of -city")
	flag.Float64Var(&opts.lon, "lon", 0, "longitude (with -lat) instead of -city")
	flag.StringVar(&opts.unit, "unit", "", "imperial or metric (default DEFAULT_UNIT)")
	flag.StringVar(&opts.payload, "payload", "", "normalize a saved forecast response instead of fetching (- for stdin)")
	flag.StringVar(&opts.label, "label", domain.DeviceLabel, "location label used with -payload")
	flag.StringVar(&opts.now, "now", "", "RFC3339 instant used for the display date (for reproducible fixtures)")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "lat" || f.Name == "lon" {
			opts.hasLoc = true
		}
	})

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "forecast:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.unit == "" {
		opts.unit = cfg.DefaultUnit
	}
	unit, err := domain.ParseUnitSystem(opts.unit)
	if err != nil {
		return err
	}

	if opts.now != "" {
		at, err := time.Parse(time.RFC3339, opts.now)
		if err != nil {
			return fmt.Errorf("invalid -now: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(at))
		defer domain.SetClock(nil)
	}

	var snap domain.ForecastSnapshot
	if opts.payload != "" {
		snap, err = normalizeFile(opts.payload, opts.label, unit)
	} else {
		snap, err = fetch(ctx, cfg, opts, unit)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func fetch(ctx context.Context, cfg *config.Config, opts options, unit domain.UnitSystem) (domain.ForecastSnapshot, error) {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: observability.ParseLevel(cfg.LogLevel)}))
	metrics := observability.NewUnregisteredMetrics()

	client := openmeteo.NewClient(cfg.GeocodingBaseURL, cfg.ForecastBaseURL, cfg.UpstreamTimeout, metrics, logger)
	svc := dashboard.New(domain.NewResolver(client), client, nil, cfg.FallbackCity, unit, logger, metrics)

	switch {
	case opts.city != "":
		return svc.LoadCity(ctx, opts.city, unit)
	case opts.hasLoc:
		locator, err := device.NewFixed(opts.lat, opts.lon)
		if err != nil {
			return domain.ForecastSnapshot{}, err
		}
		return svc.LoadCurrentLocation(ctx, locator, unit)
	default:
		return domain.ForecastSnapshot{}, errors.New("one of -city, -lat/-lon, or -payload is required")
	}
}

func normalizeFile(path, label string, unit domain.UnitSystem) (domain.ForecastSnapshot, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.ForecastSnapshot{}, fmt.Errorf("read payload: %w", err)
	}

	var payload domain.ForecastPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.ForecastSnapshot{}, fmt.Errorf("decode payload: %w", err)
	}
	return domain.BuildSnapshot(payload, label, unit)
}
