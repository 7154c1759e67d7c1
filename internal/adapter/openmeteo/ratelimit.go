package openmeteo

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/weather-dashboard-service/internal/domain"
	"github.com/couchcryptid/weather-dashboard-service/internal/observability"
)

// geoForecaster is what the dashboard needs from an upstream provider.
type geoForecaster interface {
	domain.Geocoder
	domain.ForecastSource
}

// RateLimited throttles outbound calls through a shared token bucket.
type RateLimited struct {
	upstream geoForecaster
	limiter  *rate.Limiter
}

// NewRateLimited wraps a provider's geocoding and forecast calls behind one limiter.
func NewRateLimited(p geoForecaster, rps float64, burst int) *RateLimited {
	return &RateLimited{
		upstream: p,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimited) ForwardGeocode(ctx context.Context, name string) (domain.GeocodingResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("geocoding rate limit: %w", err)
	}
	return r.upstream.ForwardGeocode(ctx, name)
}

func (r *RateLimited) Forecast(ctx context.Context, coords domain.Coordinates, unit domain.UnitSystem) (domain.ForecastPayload, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.ForecastPayload{}, fmt.Errorf("forecast rate limit: %w", err)
	}
	return r.upstream.Forecast(ctx, coords, unit)
}

// Upstream is the provider chain the dashboard talks to. Geocoding goes
// through the cache first, so only misses take a limiter token.
type Upstream struct {
	Geocoder domain.Geocoder
	Source   domain.ForecastSource
}

// NewUpstream rate limits p and puts a geocode cache of cacheSize entries in front.
func NewUpstream(p geoForecaster, rps float64, burst, cacheSize int, metrics *observability.Metrics) Upstream {
	limited := NewRateLimited(p, rps, burst)
	return Upstream{
		Geocoder: NewCachedGeocoder(limited, cacheSize, metrics),
		Source:   limited,
	}
}
