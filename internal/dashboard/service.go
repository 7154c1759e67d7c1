package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-dashboard-service/internal/domain"
	"github.com/couchcryptid/weather-dashboard-service/internal/observability"
)

// Fetch triggers, used as the "trigger" metric label.
const (
	TriggerSearch   = "search"
	TriggerLocation = "location"
	TriggerUnit     = "unit"
	TriggerRetry    = "retry"
)

// ErrNoSnapshot is returned by ToggleUnit before anything has loaded.
var ErrNoSnapshot = errors.New("no forecast loaded yet")

// SnapshotPublisher receives every snapshot the service accepts.
type SnapshotPublisher interface {
	Publish(ctx context.Context, snapshot domain.ForecastSnapshot) error
}

// Service owns the current forecast snapshot, the selected unit system, and
// the last searched city. Every load takes a generation token; only the most
// recently issued token may replace the snapshot.
type Service struct {
	resolver     *domain.Resolver
	source       domain.ForecastSource
	publisher    SnapshotPublisher
	fallbackCity string
	logger       *slog.Logger
	metrics      *observability.Metrics

	generation atomic.Uint64

	mu       sync.RWMutex
	snapshot *domain.ForecastSnapshot
	unit     domain.UnitSystem
	lastCity string // raw query; empty when the snapshot came from the device
}

// New creates a Service. publisher may be nil.
func New(resolver *domain.Resolver, source domain.ForecastSource, publisher SnapshotPublisher,
	fallbackCity string, unit domain.UnitSystem, logger *slog.Logger, metrics *observability.Metrics,
) *Service {
	return &Service{
		resolver:     resolver,
		source:       source,
		publisher:    publisher,
		fallbackCity: fallbackCity,
		unit:         unit,
		logger:       logger,
		metrics:      metrics,
	}
}

// Snapshot returns a copy of the current snapshot, or false if none has loaded.
func (s *Service) Snapshot() (domain.ForecastSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return domain.ForecastSnapshot{}, false
	}
	return s.snapshot.Clone(), true
}

// Unit returns the unit system of the current snapshot (or the default before
// the first load).
func (s *Service) Unit() domain.UnitSystem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unit
}

// LastCity returns the raw city query behind the current snapshot.
func (s *Service) LastCity() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCity
}

// CheckReadiness returns nil once a snapshot has loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return errors.New("no forecast snapshot loaded yet")
	}
	return nil
}

// LoadCity geocodes city and fetches its forecast in unit.
func (s *Service) LoadCity(ctx context.Context, city string, unit domain.UnitSystem) (domain.ForecastSnapshot, error) {
	return s.loadCity(ctx, TriggerSearch, s.generation.Add(1), city, unit)
}

// LoadCurrentLocation fetches the forecast for the device location. If the
// locator fails, it falls back once to the configured fallback city.
func (s *Service) LoadCurrentLocation(ctx context.Context, locator domain.DeviceLocator, unit domain.UnitSystem) (domain.ForecastSnapshot, error) {
	return s.loadDevice(ctx, TriggerLocation, s.generation.Add(1), locator, unit)
}

// ToggleUnit re-fetches the current place in a new unit system. It reuses the
// raw city query when there is one and the device flow otherwise. Selecting
// the unit already in effect is a no-op.
func (s *Service) ToggleUnit(ctx context.Context, unit domain.UnitSystem, locator domain.DeviceLocator) (domain.ForecastSnapshot, error) {
	s.mu.RLock()
	current, loaded, city := s.unit, s.snapshot != nil, s.lastCity
	var snap domain.ForecastSnapshot
	if loaded {
		snap = s.snapshot.Clone()
	}
	s.mu.RUnlock()

	if !loaded {
		return domain.ForecastSnapshot{}, ErrNoSnapshot
	}
	if unit == current {
		return snap, nil
	}

	gen := s.generation.Add(1)
	if city != "" {
		return s.loadCity(ctx, TriggerUnit, gen, city, unit)
	}
	return s.loadDevice(ctx, TriggerUnit, gen, locator, unit)
}

// RetryDefault loads the fallback city in imperial units.
func (s *Service) RetryDefault(ctx context.Context) (domain.ForecastSnapshot, error) {
	return s.loadCity(ctx, TriggerRetry, s.generation.Add(1), s.fallbackCity, domain.Imperial)
}

func (s *Service) loadCity(ctx context.Context, trigger string, gen uint64, city string, unit domain.UnitSystem) (domain.ForecastSnapshot, error) {
	start := time.Now()
	place, err := s.resolver.ResolveByName(ctx, city)
	if err != nil {
		return domain.ForecastSnapshot{}, s.fail(trigger, err, "city", city)
	}
	return s.fetch(ctx, trigger, gen, start, place, city, unit)
}

func (s *Service) loadDevice(ctx context.Context, trigger string, gen uint64, locator domain.DeviceLocator, unit domain.UnitSystem) (domain.ForecastSnapshot, error) {
	start := time.Now()
	place, err := s.resolver.ResolveCurrentDevice(ctx, locator)
	if err != nil {
		s.logger.Warn("device location failed, falling back to default city",
			"error", err,
			"fallback_city", s.fallbackCity,
		)
		return s.loadCity(ctx, trigger, gen, s.fallbackCity, unit)
	}
	return s.fetch(ctx, trigger, gen, start, place, "", unit)
}

// fetch retrieves and normalizes the forecast for place, then commits it if
// gen is still the latest generation.
func (s *Service) fetch(ctx context.Context, trigger string, gen uint64, start time.Time,
	place domain.Place, city string, unit domain.UnitSystem,
) (domain.ForecastSnapshot, error) {
	payload, err := s.source.Forecast(ctx, place.Coordinates, unit)
	if err != nil {
		return domain.ForecastSnapshot{}, s.fail(trigger, err, "location", place.Label)
	}

	snap, err := domain.BuildSnapshot(payload, place.Label, unit)
	if err != nil {
		return domain.ForecastSnapshot{}, s.fail(trigger, err, "location", place.Label)
	}

	if !s.commit(gen, snap, unit, city) {
		s.metrics.Fetches.WithLabelValues(trigger, "stale").Inc()
		s.logger.Info("discarding superseded forecast", "trigger", trigger, "location", place.Label)
		return domain.ForecastSnapshot{}, domain.ErrStaleResult
	}

	s.metrics.Fetches.WithLabelValues(trigger, "success").Inc()
	s.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	s.metrics.SnapshotLoaded.Set(1)
	s.logger.Info("forecast loaded",
		"trigger", trigger,
		"location", snap.Location,
		"unit", unit,
		"condition", snap.Condition,
	)

	s.publish(ctx, snap)
	return snap.Clone(), nil
}

func (s *Service) commit(gen uint64, snap domain.ForecastSnapshot, unit domain.UnitSystem, city string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation.Load() {
		return false
	}
	s.snapshot = &snap
	s.unit = unit
	s.lastCity = city
	return true
}

func (s *Service) publish(ctx context.Context, snap domain.ForecastSnapshot) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, snap); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Error("publish snapshot failed", "error", err, "location", snap.Location)
	}
}

func (s *Service) fail(trigger string, err error, attrs ...any) error {
	s.metrics.Fetches.WithLabelValues(trigger, "error").Inc()
	s.logger.Warn("forecast load failed", append([]any{"trigger", trigger, "error", err}, attrs...)...)
	return err
}
