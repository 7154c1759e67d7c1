package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLocationPermission means the device location collaborator refused access.
	ErrLocationPermission = errors.New("location permission denied")

	// ErrLocationUnavailable means no device location could be obtained.
	ErrLocationUnavailable = errors.New("location unavailable")

	// ErrInvalidUnit is returned when a unit system name is neither imperial nor metric.
	ErrInvalidUnit = errors.New("invalid unit system")

	// ErrStaleResult is returned when a newer request superseded this one
	// before it finished. The result was discarded.
	ErrStaleResult = errors.New("result superseded by a newer request")
)

// TransportError reports a non-success HTTP status from an upstream API.
type TransportError struct {
	Service    string // "geocoding" or "forecast"
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s request failed: status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: status %d: %s", e.Service, e.StatusCode, e.Body)
}

// NotFoundError reports a geocoding query with zero results.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("city not found: %q", e.Query)
}

// ShapeError reports an upstream payload whose arrays are shorter than the
// snapshot requires. No partial snapshot is produced when it occurs.
type ShapeError struct {
	Field string
	Want  int
	Got   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("forecast payload field %s: want at least %d entries, got %d", e.Field, e.Want, e.Got)
}
