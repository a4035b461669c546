package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoForecastProvider is returned when the service was built without a forecast source.
	ErrNoForecastProvider = errors.New("no forecast provider configured")
)

// ServiceConfig holds the service's tunables.
type ServiceConfig struct {
	Fallback      Location
	FallbackLabel string

	// FetchTimeout bounds one Refresh, both upstream calls included.
	FetchTimeout time.Duration

	// MaxAge is how long a stored snapshot is served before Snapshot refreshes it.
	MaxAge time.Duration
}

// Service fetches snapshots and keeps the latest one per location.
type Service struct {
	store     SnapshotStore
	forecasts ForecastProvider
	places    PlaceResolver
	cfg       ServiceConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new Service. places may be nil, in which case
// snapshots carry no place label.
func NewService(store SnapshotStore, forecasts ForecastProvider, places PlaceResolver, cfg ServiceConfig, logger *slog.Logger) *Service {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	cfg.Fallback.Fallback = true
	return &Service{
		store:     store,
		forecasts: forecasts,
		places:    places,
		cfg:       cfg,
		logger:    logger.With("component", "weather-service"),
		now:       time.Now,
	}
}

// Fallback returns the location used when no coordinates are supplied.
func (s *Service) Fallback() Location {
	return s.cfg.Fallback
}

// FallbackLabel returns the display label of the fallback location.
func (s *Service) FallbackLabel() string {
	return s.cfg.FallbackLabel
}

// Resolve turns optional coordinates into a Location, using the fallback
// city when either is missing.
func (s *Service) Resolve(lat, lon *float64) Location {
	if lat == nil || lon == nil {
		return s.cfg.Fallback
	}
	return Location{Latitude: *lat, Longitude: *lon}
}

// Refresh fetches forecast and place name in parallel and stores the result
// as the location's latest snapshot. A geocoding failure only drops the
// place label; a forecast failure leaves the previous snapshot untouched.
func (s *Service) Refresh(ctx context.Context, loc Location) (Snapshot, error) {
	if s.forecasts == nil {
		return Snapshot{}, ErrNoForecastProvider
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	var (
		forecast Forecast
		place    *PlaceLabel
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := s.forecasts.FetchForecast(gctx, loc)
		if err != nil {
			return fmt.Errorf("%s forecast: %w", s.forecasts.Name(), err)
		}
		forecast = f
		return nil
	})
	if s.places != nil {
		g.Go(func() error {
			p, err := s.places.ReverseGeocode(gctx, loc)
			if err != nil {
				s.logger.Warn("reverse geocoding failed",
					"resolver", s.places.Name(),
					"location", loc.Key(),
					"error", err,
				)
				return nil
			}
			place = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to refresh snapshot", "location", loc.Key(), "error", err)
		return Snapshot{}, err
	}

	snapshot := Snapshot{
		Location:  loc,
		Place:     place,
		FetchedAt: s.now().UTC(),
		Timezone:  forecast.Timezone,
		Current:   forecast.Current,
		Daily:     forecast.Daily,
	}
	s.store.Save(snapshot)

	s.logger.Debug("snapshot refreshed",
		"location", loc.Key(),
		"fallback", loc.Fallback,
		"days", snapshot.Daily.Len(),
		"place", place != nil,
	)
	return snapshot, nil
}

// Snapshot returns the stored snapshot for loc while it is younger than
// MaxAge, and refreshes it otherwise. The returned snapshot always carries
// loc, so the fallback flag reflects this request and not the one that
// populated the store.
func (s *Service) Snapshot(ctx context.Context, loc Location) (Snapshot, error) {
	if s.cfg.MaxAge > 0 {
		latest, err := s.store.Latest(loc)
		if err == nil && s.now().Sub(latest.FetchedAt) < s.cfg.MaxAge {
			latest.Location = loc
			return latest, nil
		}
	}
	return s.Refresh(ctx, loc)
}
