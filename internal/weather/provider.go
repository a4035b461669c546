package weather

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned by a SnapshotStore that holds nothing for a location.
var ErrNoSnapshot = errors.New("no weather snapshot for location")

// ForecastProvider abstracts the upstream forecast API (Open-Meteo).
// Implementations return data already normalized: missing precipitation
// is zero and the daily series are aligned.
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, loc Location) (Forecast, error)
}

// PlaceResolver turns coordinates into a place name. A nil label with a nil
// error means the resolver found nothing.
type PlaceResolver interface {
	Name() string
	ReverseGeocode(ctx context.Context, loc Location) (*PlaceLabel, error)
}

// SnapshotStore keeps the latest snapshot per location.
type SnapshotStore interface {
	Save(snapshot Snapshot)
	Latest(loc Location) (Snapshot, error)
}
