// Package device provides domain.DeviceLocator implementations. The browser
// owns geolocation, so the service only ever sees coordinates it was handed,
// an explicit denial, or nothing.
package device

import (
	"context"
	"fmt"
	"math"

	"github.com/couchcryptid/weather-dashboard-service/internal/domain"
)

// Fixed reports a known position, such as coordinates sent by the browser or
// configured via DEVICE_LATITUDE / DEVICE_LONGITUDE.
type Fixed struct {
	Coordinates domain.Coordinates
}

// NewFixed validates the coordinate ranges and returns a Fixed locator.
// NaN and infinities are rejected.
func NewFixed(lat, lon float64) (Fixed, error) {
	if !finite(lat) || !finite(lon) {
		return Fixed{}, fmt.Errorf("coordinates (%v, %v) must be finite", lat, lon)
	}
	if lat < -90 || lat > 90 {
		return Fixed{}, fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return Fixed{}, fmt.Errorf("longitude %v out of range [-180, 180]", lon)
	}
	return Fixed{Coordinates: domain.Coordinates{Latitude: lat, Longitude: lon}}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (f Fixed) Locate(ctx context.Context) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: %w", domain.ErrLocationUnavailable, err)
	}
	return f.Coordinates, nil
}

// Denied models a user who refused the location prompt.
type Denied struct{}

func (Denied) Locate(context.Context) (domain.Coordinates, error) {
	return domain.Coordinates{}, domain.ErrLocationPermission
}

// Unavailable models a client without geolocation support.
type Unavailable struct{}

func (Unavailable) Locate(context.Context) (domain.Coordinates, error) {
	return domain.Coordinates{}, domain.ErrLocationUnavailable
}
