package weather

// Outlook thresholds.
const (
	HotThresholdC      = 35.0
	VeryWetThresholdMm = 20.0 // per day
	BreezyThresholdKmh = 30.0
)

const (
	HeadlineVeryWet     = "Monsoon pulses staying active"
	HeadlineHot         = "Warm, humid stretches ahead"
	HeadlineBreezy      = "Breezier than usual"
	HeadlineMild        = "Mild & manageable"
	HeadlineUnavailable = "—"

	BulletHot         = "Expect hot spells this week. Hydrate, wear light fabrics, and avoid the midday sun."
	BulletVeryWet     = "Heavy rain potential on some days. Carry an umbrella and plan commutes with buffer time."
	BulletBreezy      = "Windy periods expected. Secure loose items on balconies and be cautious near trees."
	BulletBalanced    = "A fairly balanced week—great for morning walks and errands."
	BulletUnavailable = "Weekly outlook unavailable."
)

// Outlook is the weekly headline plus advisory bullets.
type Outlook struct {
	Headline string   `json:"headline"`
	Bullets  []string `json:"bullets"`
}

// Summarize builds the weekly outlook. Bullets are never empty; a nil or
// empty series yields the unavailable outlook.
func Summarize(daily *DailyForecastSeries) Outlook {
	agg, ok := AggregateWeek(daily)
	if !ok {
		return Outlook{
			Headline: HeadlineUnavailable,
			Bullets:  []string{BulletUnavailable},
		}
	}

	hot := agg.MaxTempC >= HotThresholdC
	veryWet := agg.MaxPrecipMm >= VeryWetThresholdMm
	breezy := agg.MaxWindKmh >= BreezyThresholdKmh

	var bullets []string
	if hot {
		bullets = append(bullets, BulletHot)
	}
	if veryWet {
		bullets = append(bullets, BulletVeryWet)
	}
	if breezy {
		bullets = append(bullets, BulletBreezy)
	}
	if len(bullets) == 0 {
		bullets = append(bullets, BulletBalanced)
	}

	headline := HeadlineMild
	switch {
	case veryWet:
		headline = HeadlineVeryWet
	case hot:
		headline = HeadlineHot
	case breezy:
		headline = HeadlineBreezy
	}

	return Outlook{Headline: headline, Bullets: bullets}
}
