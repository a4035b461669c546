package weather

import "math"

// WeekAggregates are the week-level maxima the outlook is built from.
type WeekAggregates struct {
	MaxTempC    float64
	MaxPrecipMm float64
	MaxWindKmh  float64
}

// AggregateWeek reduces a daily series to its maxima. The second result is
// false when the series is nil or empty.
func AggregateWeek(daily *DailyForecastSeries) (WeekAggregates, bool) {
	if daily.Len() == 0 {
		return WeekAggregates{}, false
	}
	return WeekAggregates{
		MaxTempC:    maxOf(daily.MaxTempsC),
		MaxPrecipMm: maxOf(daily.PrecipSumsMm),
		MaxWindKmh:  maxOf(daily.MaxWindsKmh),
	}, true
}

// maxOf returns the largest value, or -Inf for an empty slice so that
// no threshold is ever met by missing data.
func maxOf(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}
