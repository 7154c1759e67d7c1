package domain

import "context"

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeocodingResult is the top match returned by a geocoding provider. A zero
// value (empty Name) means the query matched nothing.
type GeocodingResult struct {
	Name      string
	Latitude  float64
	Longitude float64
	Country   string
	Admin1    string // first-level administrative area, e.g. state or region
}

// Geocoder resolves place names to coordinates.
type Geocoder interface {
	// ForwardGeocode returns the best match for a place name.
	ForwardGeocode(ctx context.Context, name string) (GeocodingResult, error)
}

// ForecastSource fetches a raw forecast payload for coordinates in a unit system.
type ForecastSource interface {
	Forecast(ctx context.Context, coords Coordinates, unit UnitSystem) (ForecastPayload, error)
}

// DeviceLocator yields the caller's current device coordinates. Failures
// should wrap ErrLocationPermission or ErrLocationUnavailable.
type DeviceLocator interface {
	Locate(ctx context.Context) (Coordinates, error)
}
