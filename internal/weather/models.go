package weather

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMisalignedSeries is returned when the daily series do not share one length.
	ErrMisalignedSeries = errors.New("daily forecast series are not aligned")
)

// Location is the point a snapshot was fetched for.
// Fallback is set when the caller supplied no coordinates.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Fallback  bool    `json:"fallback"`
}

// Key returns a canonical string key for indexing this location in stores.
// Four decimals is the precision sent upstream, so coordinates that produce
// the same request share a key.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f,%.4f", l.Latitude, l.Longitude)
}

// CurrentConditions is the "now" block of a snapshot.
type CurrentConditions struct {
	TemperatureC         float64 `json:"temperatureC"`
	ApparentTemperatureC float64 `json:"apparentTemperatureC"`
	HumidityPct          float64 `json:"humidityPercent"`
	PrecipMm             float64 `json:"precipMm"`
	WindSpeedKmh         float64 `json:"windSpeedKmh"`
	WindDirectionDeg     float64 `json:"windDirectionDeg"`
	WeatherCode          int     `json:"weatherCode"`
	IsDay                bool    `json:"isDay"`
}

// DailyForecastSeries holds parallel per-day sequences. Index 0 is today and
// index i describes the same day in every slice.
type DailyForecastSeries struct {
	Dates        []time.Time `json:"dates"`
	WeatherCodes []int       `json:"weatherCodes"`
	MinTempsC    []float64   `json:"minTempsC"`
	MaxTempsC    []float64   `json:"maxTempsC"`
	PrecipSumsMm []float64   `json:"precipSumsMm"`
	MaxWindsKmh  []float64   `json:"maxWindsKmh"`
	Sunrises     []time.Time `json:"sunrises"`
	Sunsets      []time.Time `json:"sunsets"`
}

// DailyForecast is one row of a DailyForecastSeries.
type DailyForecast struct {
	Date        time.Time
	WeatherCode int
	MinTempC    float64
	MaxTempC    float64
	PrecipSumMm float64
	MaxWindKmh  float64
	Sunrise     time.Time
	Sunset      time.Time
}

// Len returns the number of days in the series. A nil series has zero days.
func (d *DailyForecastSeries) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Dates)
}

// Validate checks that every sequence has the same length as Dates.
func (d *DailyForecastSeries) Validate() error {
	if d == nil {
		return nil
	}
	n := len(d.Dates)
	lengths := map[string]int{
		"weather_code":       len(d.WeatherCodes),
		"temperature_2m_min": len(d.MinTempsC),
		"temperature_2m_max": len(d.MaxTempsC),
		"precipitation_sum":  len(d.PrecipSumsMm),
		"wind_speed_10m_max": len(d.MaxWindsKmh),
		"sunrise":            len(d.Sunrises),
		"sunset":             len(d.Sunsets),
	}
	for name, l := range lengths {
		if l != n {
			return fmt.Errorf("%w: %s has %d entries, time has %d", ErrMisalignedSeries, name, l, n)
		}
	}
	return nil
}

// Day returns row i. The series must be valid and i in range.
func (d *DailyForecastSeries) Day(i int) DailyForecast {
	return DailyForecast{
		Date:        d.Dates[i],
		WeatherCode: d.WeatherCodes[i],
		MinTempC:    d.MinTempsC[i],
		MaxTempC:    d.MaxTempsC[i],
		PrecipSumMm: d.PrecipSumsMm[i],
		MaxWindKmh:  d.MaxWindsKmh[i],
		Sunrise:     d.Sunrises[i],
		Sunset:      d.Sunsets[i],
	}
}

// Today returns the first row, or false when the series is empty.
func (d *DailyForecastSeries) Today() (DailyForecast, bool) {
	if d.Len() == 0 {
		return DailyForecast{}, false
	}
	return d.Day(0), true
}

// PlaceLabel is a reverse-geocoded place name.
type PlaceLabel struct {
	Name    string `json:"name"`
	Admin1  string `json:"admin1,omitempty"`
	Country string `json:"country,omitempty"`
}

// Label joins the non-empty parts, e.g. "Howrah, West Bengal, India".
func (p PlaceLabel) Label() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Name, p.Admin1, p.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Forecast is what a ForecastProvider returns: current and daily data from
// one upstream response.
type Forecast struct {
	Timezone string
	Current  *CurrentConditions
	Daily    *DailyForecastSeries
}

// Snapshot is one atomic fetch result. It is never mutated after creation;
// a refresh produces a new Snapshot.
type Snapshot struct {
	Location  Location             `json:"location"`
	Place     *PlaceLabel          `json:"place,omitempty"`
	FetchedAt time.Time            `json:"fetchedAt"` // always UTC
	Timezone  string               `json:"timezone"`
	Current   *CurrentConditions   `json:"current,omitempty"`
	Daily     *DailyForecastSeries `json:"daily,omitempty"`
}

const yourLocationLabel = "Your location"

// DisplayLabel picks the heading for a snapshot: the resolved place, the
// fallback city's label, or a generic "Your location".
func DisplayLabel(s Snapshot, fallbackLabel string) string {
	if s.Place != nil {
		if label := s.Place.Label(); label != "" {
			return label
		}
	}
	if s.Location.Fallback {
		return fallbackLabel
	}
	return yourLocationLabel
}
