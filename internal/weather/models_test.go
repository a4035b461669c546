package weather

import (
	"errors"
	"testing"
	"time"
)

func TestDailyForecastSeries_Validate(t *testing.T) {
	aligned := week([]float64{30, 31}, []float64{0, 1}, []float64{5, 6})
	if err := aligned.Validate(); err != nil {
		t.Errorf("Validate() on aligned series = %v, want nil", err)
	}

	var nilSeries *DailyForecastSeries
	if err := nilSeries.Validate(); err != nil {
		t.Errorf("Validate() on nil series = %v, want nil", err)
	}

	short := week([]float64{30, 31}, []float64{0}, []float64{5, 6})
	if err := short.Validate(); !errors.Is(err, ErrMisalignedSeries) {
		t.Errorf("Validate() on misaligned series = %v, want %v", err, ErrMisalignedSeries)
	}
}

func TestDailyForecastSeries_Today(t *testing.T) {
	d := week([]float64{30, 31}, []float64{0.5, 1}, []float64{5, 6})
	d.Dates[0] = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	today, ok := d.Today()
	if !ok {
		t.Fatal("Today() ok = false, want true")
	}
	if today.MaxTempC != 30 || today.PrecipSumMm != 0.5 || !today.Date.Equal(d.Dates[0]) {
		t.Errorf("Today() = %+v, want first row", today)
	}

	var empty *DailyForecastSeries
	if _, ok := empty.Today(); ok {
		t.Error("Today() on nil series ok = true, want false")
	}
}

func TestDisplayLabel(t *testing.T) {
	const fallbackLabel = "Kolkata, West Bengal, India"

	tests := []struct {
		name     string
		snapshot Snapshot
		want     string
	}{
		{
			name: "resolved place",
			snapshot: Snapshot{
				Place: &PlaceLabel{Name: "Howrah", Admin1: "West Bengal", Country: "India"},
			},
			want: "Howrah, West Bengal, India",
		},
		{
			name:     "place without region",
			snapshot: Snapshot{Place: &PlaceLabel{Name: "Monaco", Country: "Monaco"}},
			want:     "Monaco, Monaco",
		},
		{
			name:     "fallback city without place",
			snapshot: Snapshot{Location: Location{Fallback: true}},
			want:     fallbackLabel,
		},
		{
			name:     "user location without place",
			snapshot: Snapshot{Location: Location{Latitude: 1, Longitude: 2}},
			want:     "Your location",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayLabel(tt.snapshot, fallbackLabel); got != tt.want {
				t.Errorf("DisplayLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocation_Key(t *testing.T) {
	a := Location{Latitude: 22.57261, Longitude: 88.36391}
	b := Location{Latitude: 22.57259, Longitude: 88.36389, Fallback: true}
	if a.Key() != b.Key() {
		t.Errorf("Key() = %q and %q, want equal at four decimals", a.Key(), b.Key())
	}
	if got := a.Key(); got != "22.5726,88.3639" {
		t.Errorf("Key() = %q, want %q", got, "22.5726,88.3639")
	}
}
