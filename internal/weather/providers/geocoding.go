package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/skypulse/internal/weather"
	"github.com/sony/gobreaker"
)

const DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/reverse"

// OpenMeteoGeocoder implements weather.PlaceResolver against the Open-Meteo
// reverse geocoding endpoint.
type OpenMeteoGeocoder struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoGeocoder(baseURL string, httpCfg HTTPClientConfig) *OpenMeteoGeocoder {
	if baseURL == "" {
		baseURL = DefaultGeocodingURL
	}
	if httpCfg.Client == nil {
		httpCfg.Client = http.DefaultClient
	}
	if httpCfg.Backoff == (BackoffConfig{}) {
		httpCfg.Backoff = DefaultBackoff
	}

	return &OpenMeteoGeocoder{
		name:    "openmeteo-geocoding",
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: newCircuitBreaker("openmeteo-geocoding"),
	}
}

func (g *OpenMeteoGeocoder) Name() string {
	return g.name
}

// ReverseGeocode returns the first result, or nil when there is none.
func (g *OpenMeteoGeocoder) ReverseGeocode(ctx context.Context, loc weather.Location) (*weather.PlaceLabel, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", formatCoord(loc.Latitude))
		values.Set("longitude", formatCoord(loc.Longitude))
		values.Set("language", "en")
		values.Set("format", "json")

		u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, g.httpCfg, g.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Name    string `json:"name"`
			Admin1  string `json:"admin1"`
			Country string `json:"country"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode reverse geocoding: %w", err)
	}

	if len(payload.Results) == 0 {
		return nil, nil
	}
	r := payload.Results[0]
	place := &weather.PlaceLabel{Name: r.Name, Admin1: r.Admin1, Country: r.Country}
	if place.Label() == "" {
		return nil, nil
	}
	return place, nil
}
