package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DeviceLabel is the location label used for device coordinates.
const DeviceLabel = "My Location"

// Place is a resolved location ready for a forecast request.
type Place struct {
	Coordinates
	Label string
}

// Resolver turns a place name or device location into a Place.
type Resolver struct {
	geocoder Geocoder
}

// NewResolver creates a Resolver backed by the given geocoder.
func NewResolver(geocoder Geocoder) *Resolver {
	return &Resolver{geocoder: geocoder}
}

// ResolveByName geocodes a city name. A query with no match yields a
// *NotFoundError; upstream failures are returned unchanged.
func (r *Resolver) ResolveByName(ctx context.Context, city string) (Place, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Place{}, &NotFoundError{Query: city}
	}

	result, err := r.geocoder.ForwardGeocode(ctx, city)
	if err != nil {
		return Place{}, fmt.Errorf("resolve %q: %w", city, err)
	}
	if result.Name == "" {
		return Place{}, &NotFoundError{Query: city}
	}

	return Place{
		Coordinates: Coordinates{Latitude: result.Latitude, Longitude: result.Longitude},
		Label:       FormatLabel(result),
	}, nil
}

// ResolveCurrentDevice asks the locator for coordinates. A nil locator or an
// unclassified failure is reported as ErrLocationUnavailable.
func (r *Resolver) ResolveCurrentDevice(ctx context.Context, locator DeviceLocator) (Place, error) {
	if locator == nil {
		return Place{}, ErrLocationUnavailable
	}

	coords, err := locator.Locate(ctx)
	if err != nil {
		if errors.Is(err, ErrLocationPermission) || errors.Is(err, ErrLocationUnavailable) {
			return Place{}, err
		}
		return Place{}, fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
	}

	return Place{Coordinates: coords, Label: DeviceLabel}, nil
}

// FormatLabel renders "name, admin1", falling back to "name, country" and then "name".
func FormatLabel(r GeocodingResult) string {
	switch {
	case r.Admin1 != "":
		return r.Name + ", " + r.Admin1
	case r.Country != "":
		return r.Name + ", " + r.Country
	default:
		return r.Name
	}
}
