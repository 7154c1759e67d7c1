package httpadapter

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/couchcryptid/weather-dashboard-service/internal/adapter/device"
	"github.com/couchcryptid/weather-dashboard-service/internal/dashboard"
	"github.com/couchcryptid/weather-dashboard-service/internal/domain"
)

// requestUnit reads the optional ?unit= parameter, defaulting to the unit in
// effect. It writes a 400 and returns false on an invalid value.
func (s *Server) requestUnit(w http.ResponseWriter, r *http.Request) (domain.UnitSystem, bool) {
	raw := r.URL.Query().Get("unit")
	if raw == "" {
		return s.dashboard.Unit(), true
	}
	unit, err := domain.ParseUnitSystem(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return unit, true
}

// requestLocator builds the device locator for a request:
//   - ?denied=true means the user refused the location prompt
//   - ?latitude=&longitude= carry browser coordinates
//   - otherwise the configured device location, if any
func (s *Server) requestLocator(w http.ResponseWriter, r *http.Request) (domain.DeviceLocator, bool) {
	q := r.URL.Query()
	if denied, _ := strconv.ParseBool(q.Get("denied")); denied {
		return device.Denied{}, true
	}

	latStr, lonStr := q.Get("latitude"), q.Get("longitude")
	if latStr == "" && lonStr == "" {
		if s.device == nil {
			return device.Unavailable{}, true
		}
		return s.device, true
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lon, lonErr := strconv.ParseFloat(lonStr, 64)
	if latErr != nil || lonErr != nil {
		writeError(w, http.StatusBadRequest, "latitude and longitude must both be numbers")
		return nil, false
	}
	fixed, err := device.NewFixed(lat, lon)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return fixed, true
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var (
		notFound  *domain.NotFoundError
		transport *domain.TransportError
		shape     *domain.ShapeError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidUnit):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStaleResult), errors.Is(err, dashboard.ErrNoSnapshot):
		return http.StatusConflict
	case errors.As(err, &transport), errors.As(err, &shape):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
