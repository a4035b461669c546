package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/skypulse/internal/weather"
	"github.com/sony/gobreaker"
)

const (
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	currentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,is_day,precipitation,weather_code,wind_speed_10m,wind_direction_10m"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max,sunrise,sunset"

	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// OpenMeteoOptions configures an OpenMeteoProvider. Zero values pick defaults.
type OpenMeteoOptions struct {
	BaseURL string

	// ForecastDays is sent as forecast_days when positive.
	ForecastDays int

	HTTP HTTPClientConfig
}

// OpenMeteoProvider implements weather.ForecastProvider for Open-Meteo.
type OpenMeteoProvider struct {
	name         string
	baseURL      string
	forecastDays int
	httpCfg      HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(opts OpenMeteoOptions) *OpenMeteoProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultForecastURL
	}
	if opts.HTTP.Client == nil {
		opts.HTTP.Client = http.DefaultClient
	}
	if opts.HTTP.Backoff == (BackoffConfig{}) {
		opts.HTTP.Backoff = DefaultBackoff
	}

	return &OpenMeteoProvider{
		name:         "openmeteo",
		baseURL:      opts.BaseURL,
		forecastDays: opts.ForecastDays,
		httpCfg:      opts.HTTP,
		circuit:      newCircuitBreaker("openmeteo-forecast"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc weather.Location) (weather.Forecast, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", formatCoord(loc.Latitude))
		values.Set("longitude", formatCoord(loc.Longitude))
		values.Set("current", currentFields)
		values.Set("daily", dailyFields)
		values.Set("timezone", "auto")
		if p.forecastDays > 0 {
			values.Set("forecast_days", strconv.Itoa(p.forecastDays))
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Forecast{}, err
	}
	defer resp.Body.Close()

	var payload openMeteoForecast
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Forecast{}, fmt.Errorf("decode forecast: %w", err)
	}

	return payload.normalize()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Upstream numbers may be null; pointers keep that distinguishable from 0
// until normalization.
type openMeteoForecast struct {
	Timezone         string `json:"timezone"`
	UTCOffsetSeconds int    `json:"utc_offset_seconds"`

	Current *struct {
		Temperature         *float64 `json:"temperature_2m"`
		RelativeHumidity    *float64 `json:"relative_humidity_2m"`
		ApparentTemperature *float64 `json:"apparent_temperature"`
		IsDay               *int     `json:"is_day"`
		Precipitation       *float64 `json:"precipitation"`
		WeatherCode         *int     `json:"weather_code"`
		WindSpeed           *float64 `json:"wind_speed_10m"`
		WindDirection       *float64 `json:"wind_direction_10m"`
	} `json:"current"`

	Daily *struct {
		Time             []string   `json:"time"`
		WeatherCode      []*int     `json:"weather_code"`
		TemperatureMax   []*float64 `json:"temperature_2m_max"`
		TemperatureMin   []*float64 `json:"temperature_2m_min"`
		PrecipitationSum []*float64 `json:"precipitation_sum"`
		WindSpeedMax     []*float64 `json:"wind_speed_10m_max"`
		Sunrise          []string   `json:"sunrise"`
		Sunset           []string   `json:"sunset"`
	} `json:"daily"`
}

func (p openMeteoForecast) location() *time.Location {
	if p.Timezone != "" {
		if tz, err := time.LoadLocation(p.Timezone); err == nil {
			return tz
		}
		return time.FixedZone(p.Timezone, p.UTCOffsetSeconds)
	}
	return time.FixedZone("UTC", p.UTCOffsetSeconds)
}

func (p openMeteoForecast) normalize() (weather.Forecast, error) {
	out := weather.Forecast{Timezone: p.Timezone}
	tz := p.location()

	if c := p.Current; c != nil {
		out.Current = &weather.CurrentConditions{
			TemperatureC:         floatOrZero(c.Temperature),
			ApparentTemperatureC: floatOrZero(c.ApparentTemperature),
			HumidityPct:          floatOrZero(c.RelativeHumidity),
			PrecipMm:             floatOrZero(c.Precipitation),
			WindSpeedKmh:         floatOrZero(c.WindSpeed),
			WindDirectionDeg:     floatOrZero(c.WindDirection),
			WeatherCode:          intOrZero(c.WeatherCode),
			IsDay:                intOrZero(c.IsDay) == 1,
		}
	}

	if d := p.Daily; d != nil && len(d.Time) > 0 {
		dates, err := parseTimes(d.Time, dateLayout, tz)
		if err != nil {
			return weather.Forecast{}, fmt.Errorf("daily time: %w", err)
		}
		sunrises, err := parseTimes(d.Sunrise, dateTimeLayout, tz)
		if err != nil {
			return weather.Forecast{}, fmt.Errorf("daily sunrise: %w", err)
		}
		sunsets, err := parseTimes(d.Sunset, dateTimeLayout, tz)
		if err != nil {
			return weather.Forecast{}, fmt.Errorf("daily sunset: %w", err)
		}

		series := &weather.DailyForecastSeries{
			Dates:        dates,
			WeatherCodes: intsOrZero(d.WeatherCode),
			MinTempsC:    floatsOrZero(d.TemperatureMin),
			MaxTempsC:    floatsOrZero(d.TemperatureMax),
			PrecipSumsMm: floatsOrZero(d.PrecipitationSum),
			MaxWindsKmh:  floatsOrZero(d.WindSpeedMax),
			Sunrises:     sunrises,
			Sunsets:      sunsets,
		}
		if err := series.Validate(); err != nil {
			return weather.Forecast{}, err
		}
		out.Daily = series
	}

	return out, nil
}

// parseTimes parses local wall-clock values in tz. An empty entry maps to
// the zero time.
func parseTimes(values []string, layout string, tz *time.Location) ([]time.Time, error) {
	out := make([]time.Time, len(values))
	for i, v := range values {
		if v == "" {
			continue
		}
		t, err := time.ParseInLocation(layout, v, tz)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func floatsOrZero(values []*float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = floatOrZero(v)
	}
	return out
}

func intsOrZero(values []*int) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = intOrZero(v)
	}
	return out
}
