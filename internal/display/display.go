// Package display turns snapshots into the strings a dashboard shows.
package display

import (
	"time"

	"github.com/i474232898/skypulse/internal/common"
	"github.com/i474232898/skypulse/internal/weather"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	StatusDaytime = "Daytime"
	StatusNight   = "Night"

	// Weekday names stay English in every locale; x/text localizes numbers
	// only.
	dayLayout     = "Mon 2"
	updatedLayout = "15:04"
)

// CurrentView is the "now" card.
type CurrentView struct {
	Temperature string           `json:"temperature"`
	FeelsLike   string           `json:"feelsLike"`
	Humidity    string           `json:"humidity"`
	Wind        string           `json:"wind"`
	Rain        string           `json:"rain"`
	Status      string           `json:"status"`
	Summary     string           `json:"summary"`
	Icon        weather.Icon     `json:"icon"`
	Category    weather.Category `json:"category"`
}

// DayView is one forecast tile.
type DayView struct {
	Date        string       `json:"date"`
	Temps       string       `json:"temps"`
	Extras      string       `json:"extras"`
	Description string       `json:"description"`
	Icon        weather.Icon `json:"icon"`
}

// Dashboard is everything the page renders for one snapshot.
type Dashboard struct {
	Location  string          `json:"location"`
	Fallback  bool            `json:"fallback"`
	UpdatedAt string          `json:"updatedAt"`
	Timezone  string          `json:"timezone,omitempty"`
	Current   *CurrentView    `json:"current,omitempty"`
	Forecast  []DayView       `json:"forecast"`
	Outlook   weather.Outlook `json:"outlook"`
}

// Formatter renders numbers with a locale's separators.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a Formatter for tag. An undetermined tag falls back
// to English.
func NewFormatter(tag language.Tag) *Formatter {
	if tag == language.Und {
		tag = language.English
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Temperature formats a Celsius value as a rounded "31°".
func (f *Formatter) Temperature(c float64) string {
	return f.printer.Sprintf("%d°", common.RoundHalfUp(c))
}

func (f *Formatter) Percent(v float64) string {
	return f.printer.Sprintf("%d%%", common.RoundHalfUp(v))
}

func (f *Formatter) Speed(kmh float64) string {
	return f.printer.Sprintf("%d km/h", common.RoundHalfUp(kmh))
}

// Millimetres keeps one decimal, e.g. "0.4 mm".
func (f *Formatter) Millimetres(mm float64) string {
	return f.printer.Sprintf("%.1f mm", mm)
}

func (f *Formatter) Status(isDay bool) string {
	if isDay {
		return StatusDaytime
	}
	return StatusNight
}

// Current renders the current-conditions card.
func (f *Formatter) Current(c weather.CurrentConditions) CurrentView {
	cond := weather.Classify(c.WeatherCode, c.IsDay)
	return CurrentView{
		Temperature: f.Temperature(c.TemperatureC),
		FeelsLike:   f.Temperature(c.ApparentTemperatureC),
		Humidity:    f.Percent(c.HumidityPct),
		Wind:        f.Speed(c.WindSpeedKmh),
		Rain:        f.Millimetres(c.PrecipMm),
		Status:      f.Status(c.IsDay),
		Summary:     cond.Description,
		Icon:        cond.Icon,
		Category:    cond.Category,
	}
}

// Day renders one forecast tile. Tiles always use the daytime icon.
func (f *Formatter) Day(d weather.DailyForecast) DayView {
	cond := weather.Classify(d.WeatherCode, true)
	return DayView{
		Date:        d.Date.Format(dayLayout),
		Temps:       f.Temperature(d.MaxTempC) + " / " + f.Temperature(d.MinTempC),
		Extras:      f.Millimetres(d.PrecipSumMm) + " · " + f.Speed(d.MaxWindKmh),
		Description: cond.Description,
		Icon:        cond.Icon,
	}
}

// Updated renders the fetch time in the snapshot's timezone when it is
// known, e.g. "Updated 15:04".
func (f *Formatter) Updated(s weather.Snapshot) string {
	t := s.FetchedAt
	if s.Timezone != "" {
		if tz, err := time.LoadLocation(s.Timezone); err == nil {
			t = t.In(tz)
		}
	}
	return "Updated " + t.Format(updatedLayout)
}

// Dashboard renders a whole snapshot.
func (f *Formatter) Dashboard(s weather.Snapshot, fallbackLabel string) Dashboard {
	d := Dashboard{
		Location:  weather.DisplayLabel(s, fallbackLabel),
		Fallback:  s.Location.Fallback,
		UpdatedAt: f.Updated(s),
		Timezone:  s.Timezone,
		Forecast:  []DayView{},
		Outlook:   weather.Summarize(s.Daily),
	}
	if s.Current != nil {
		cur := f.Current(*s.Current)
		d.Current = &cur
	}
	for i := 0; i < s.Daily.Len(); i++ {
		d.Forecast = append(d.Forecast, f.Day(s.Daily.Day(i)))
	}
	return d
}
