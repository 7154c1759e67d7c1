package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/weather-dashboard-service/internal/adapter/device"
	"github.com/couchcryptid/weather-dashboard-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/weather-dashboard-service/internal/adapter/kafka"
	"github.com/couchcryptid/weather-dashboard-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/weather-dashboard-service/internal/config"
	"github.com/couchcryptid/weather-dashboard-service/internal/dashboard"
	"github.com/couchcryptid/weather-dashboard-service/internal/domain"
	"github.com/couchcryptid/weather-dashboard-service/internal/observability"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := openmeteo.NewClient(cfg.GeocodingBaseURL, cfg.ForecastBaseURL, cfg.UpstreamTimeout, metrics, logger)
	upstream := openmeteo.NewUpstream(client, cfg.UpstreamRPS, cfg.UpstreamBurst, cfg.GeocodeCacheSize, metrics)
	logger.Info("open-meteo client configured",
		"geocoding_url", cfg.GeocodingBaseURL,
		"forecast_url", cfg.ForecastBaseURL,
		"timeout", cfg.UpstreamTimeout,
		"rps", cfg.UpstreamRPS,
		"cache_size", cfg.GeocodeCacheSize,
	)

	// Snapshot publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var (
		publisher dashboard.SnapshotPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("snapshot publishing enabled", "topic", cfg.KafkaSnapshotTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	var locator domain.DeviceLocator
	if cfg.DeviceLocationSet {
		fixed, err := device.NewFixed(cfg.DeviceLatitude, cfg.DeviceLongitude)
		if err != nil {
			logger.Error("invalid device location", "error", err)
			os.Exit(1)
		}
		locator = fixed
	}

	unit, _ := domain.ParseUnitSystem(cfg.DefaultUnit) // validated by config.Load
	svc := dashboard.New(domain.NewResolver(upstream.Geocoder), upstream.Source, publisher, cfg.FallbackCity, unit, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, locator, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Initial load: device location, falling back to the default city.
	go func() {
		if _, err := svc.LoadCurrentLocation(ctx, locator, unit); err != nil {
			logger.Error("initial forecast load failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
