package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Open-Meteo upstream configuration.
	GeocodingBaseURL string
	ForecastBaseURL  string
	UpstreamTimeout  time.Duration
	UpstreamRPS      float64
	UpstreamBurst    int
	GeocodeCacheSize int

	// Dashboard behavior.
	DefaultUnit  string
	FallbackCity string

	// Device location used when a request carries no coordinates.
	DeviceLocationSet bool
	DeviceLatitude    float64
	DeviceLongitude   float64

	// Snapshot publishing (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSnapshotTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	upstreamTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("UPSTREAM_TIMEOUT", "10s"))
	if err != nil || upstreamTimeout <= 0 {
		return nil, errors.New("invalid UPSTREAM_TIMEOUT")
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("UPSTREAM_RPS", "5"), 64)
	if err != nil || rps <= 0 {
		return nil, errors.New("invalid UPSTREAM_RPS")
	}

	burst, err := strconv.Atoi(sharedcfg.EnvOrDefault("UPSTREAM_BURST", "2"))
	if err != nil || burst <= 0 {
		return nil, errors.New("invalid UPSTREAM_BURST")
	}

	unit := strings.ToLower(sharedcfg.EnvOrDefault("DEFAULT_UNIT", "imperial"))
	if unit != "imperial" && unit != "metric" {
		return nil, fmt.Errorf("invalid DEFAULT_UNIT %q: must be imperial or metric", unit)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GeocodingBaseURL: strings.TrimRight(sharedcfg.EnvOrDefault("GEOCODING_BASE_URL", "https://geocoding-api.open-meteo.com"), "/"),
		ForecastBaseURL:  strings.TrimRight(sharedcfg.EnvOrDefault("FORECAST_BASE_URL", "https://api.open-meteo.com"), "/"),
		UpstreamTimeout:  upstreamTimeout,
		UpstreamRPS:      rps,
		UpstreamBurst:    burst,
		GeocodeCacheSize: parseGeocodeCacheSize(),

		DefaultUnit:  unit,
		FallbackCity: sharedcfg.EnvOrDefault("FALLBACK_CITY", "San Francisco"),

		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "forecast-snapshots"),
	}

	if err := loadDeviceLocation(cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(v)
	}
	cfg.KafkaEnabled = len(cfg.KafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		cfg.KafkaEnabled = v == "true"
	}

	if cfg.FallbackCity == "" {
		return nil, errors.New("FALLBACK_CITY is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSnapshotTopic == "" {
		return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required")
	}

	return cfg, nil
}

// loadDeviceLocation reads DEVICE_LATITUDE / DEVICE_LONGITUDE. Both or neither must be set.
func loadDeviceLocation(cfg *Config) error {
	latStr, lonStr := os.Getenv("DEVICE_LATITUDE"), os.Getenv("DEVICE_LONGITUDE")
	if latStr == "" && lonStr == "" {
		return nil
	}
	if latStr == "" || lonStr == "" {
		return errors.New("DEVICE_LATITUDE and DEVICE_LONGITUDE must be set together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || !(lat >= -90 && lat <= 90) {
		return errors.New("invalid DEVICE_LATITUDE")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || !(lon >= -180 && lon <= 180) {
		return errors.New("invalid DEVICE_LONGITUDE")
	}

	cfg.DeviceLocationSet = true
	cfg.DeviceLatitude = lat
	cfg.DeviceLongitude = lon
	return nil
}

func parseGeocodeCacheSize() int {
	if s := os.Getenv("GEOCODE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
