package providers

import (
	"context"
	"errors"
	"sync"

	"github.com/i474232898/skypulse/internal/weather"
	"github.com/kelvins/geocoder"
)

var errNoAPIKey = errors.New("google geocoding api key not configured")

// keyMu guards writes to geocoder.ApiKey, which the library keeps as a
// package global. The process configures a single key, so the value a
// running call reads never changes under it.
var keyMu sync.Mutex

// reverseFunc matches geocoder.GeocodingReverse.
type reverseFunc func(geocoder.Location) ([]geocoder.Address, error)

// GoogleGeocoder implements weather.PlaceResolver with the Google Geocoding
// API through kelvins/geocoder.
type GoogleGeocoder struct {
	apiKey  string
	reverse reverseFunc

	// inflight holds at most one library call. The library takes no context,
	// so a cancelled call keeps running until it returns; later calls wait
	// for the slot or their own context instead of stacking goroutines.
	inflight chan struct{}
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		apiKey:   apiKey,
		reverse:  geocoder.GeocodingReverse,
		inflight: make(chan struct{}, 1),
	}
}

func (g *GoogleGeocoder) Name() string {
	return "google-geocoding"
}

func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, loc weather.Location) (*weather.PlaceLabel, error) {
	if g.apiKey == "" {
		return nil, errNoAPIKey
	}

	select {
	case g.inflight <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	keyMu.Lock()
	geocoder.ApiKey = g.apiKey
	keyMu.Unlock()

	type result struct {
		addrs []geocoder.Address
		err   error
	}
	done := make(chan result, 1)
	go func() {
		defer func() { <-g.inflight }()
		addrs, err := g.reverse(geocoder.Location{Latitude: loc.Latitude, Longitude: loc.Longitude})
		done <- result{addrs, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if len(r.addrs) == 0 {
			return nil, nil
		}
		a := r.addrs[0]
		place := &weather.PlaceLabel{Name: a.City, Admin1: a.State, Country: a.Country}
		if place.Label() == "" {
			return nil, nil
		}
		return place, nil
	}
}

// ChainResolver asks each resolver in order and returns the first label
// found. Errors are only returned when every resolver failed.
type ChainResolver struct {
	resolvers []weather.PlaceResolver
}

func NewChainResolver(resolvers ...weather.PlaceResolver) *ChainResolver {
	return &ChainResolver{resolvers: resolvers}
}

func (c *ChainResolver) Name() string {
	return "chain"
}

func (c *ChainResolver) ReverseGeocode(ctx context.Context, loc weather.Location) (*weather.PlaceLabel, error) {
	var errs []error
	for _, r := range c.resolvers {
		place, err := r.ReverseGeocode(ctx, loc)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			errs = append(errs, err)
			continue
		}
		if place != nil {
			return place, nil
		}
	}
	if len(errs) == len(c.resolvers) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}
