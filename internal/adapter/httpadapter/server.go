package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/weather-dashboard-service/internal/domain"
)

// Dashboard is the forecast state the HTTP API drives.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Snapshot() (domain.ForecastSnapshot, bool)
	Unit() domain.UnitSystem
	LoadCity(ctx context.Context, city string, unit domain.UnitSystem) (domain.ForecastSnapshot, error)
	LoadCurrentLocation(ctx context.Context, locator domain.DeviceLocator, unit domain.UnitSystem) (domain.ForecastSnapshot, error)
	ToggleUnit(ctx context.Context, unit domain.UnitSystem, locator domain.DeviceLocator) (domain.ForecastSnapshot, error)
	RetryDefault(ctx context.Context) (domain.ForecastSnapshot, error)
}

// Server exposes the forecast API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dashboard  Dashboard
	device     domain.DeviceLocator // used when a request carries no coordinates
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /api/forecast, /healthz, /readyz, and /metrics routes.
// device may be nil when no default device location is configured.
func NewServer(addr string, dashboard Dashboard, device domain.DeviceLocator, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: mux,
			// Writes wait on up to two upstream calls.
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dashboard: dashboard,
		device:    device,
		logger:    logger,
	}

	mux.HandleFunc("GET /api/forecast", s.handleGet)
	mux.HandleFunc("POST /api/forecast/search", s.handleSearch)
	mux.HandleFunc("POST /api/forecast/location", s.handleLocation)
	mux.HandleFunc("PUT /api/forecast/unit", s.handleUnit)
	mux.HandleFunc("POST /api/forecast/retry", s.handleRetry)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(dashboard))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleGet(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.dashboard.Snapshot()
	if !ok {
		writeError(w, http.StatusNotFound, "no forecast loaded yet")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		writeError(w, http.StatusBadRequest, "city is required")
		return
	}
	unit, ok := s.requestUnit(w, r)
	if !ok {
		return
	}
	snap, err := s.dashboard.LoadCity(r.Context(), city, unit)
	s.respond(w, snap, err)
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	locator, ok := s.requestLocator(w, r)
	if !ok {
		return
	}
	unit, ok := s.requestUnit(w, r)
	if !ok {
		return
	}
	snap, err := s.dashboard.LoadCurrentLocation(r.Context(), locator, unit)
	s.respond(w, snap, err)
}

func (s *Server) handleUnit(w http.ResponseWriter, r *http.Request) {
	unit, err := domain.ParseUnitSystem(r.URL.Query().Get("unit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	locator, ok := s.requestLocator(w, r)
	if !ok {
		return
	}
	snap, err := s.dashboard.ToggleUnit(r.Context(), unit, locator)
	s.respond(w, snap, err)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	snap, err := s.dashboard.RetryDefault(r.Context())
	s.respond(w, snap, err)
}

func (s *Server) respond(w http.ResponseWriter, snap domain.ForecastSnapshot, err error) {
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("forecast request failed", "error", err, "status", status)
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
