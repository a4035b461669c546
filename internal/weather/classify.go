package weather

// Category is the display taxonomy a WMO code collapses into.
type Category string

const (
	CategoryClear        Category = "clear"
	CategoryPartlyCloudy Category = "partly-cloudy"
	CategoryOvercast     Category = "overcast"
	CategoryFog          Category = "fog"
	CategoryDrizzle      Category = "drizzle"
	CategoryRain         Category = "rain"
	CategorySnow         Category = "snow"
	CategoryThunderstorm Category = "thunderstorm"
)

// Icon names the glyph a renderer should draw.
type Icon string

const (
	IconSun       Icon = "sun"
	IconMoon      Icon = "moon"
	IconSunCloud  Icon = "sun-cloud"
	IconMoonCloud Icon = "moon-cloud"
	IconCloud     Icon = "cloud"
	IconCloudDark Icon = "cloud-dark"
	IconFog       Icon = "fog"
	IconDrizzle   Icon = "drizzle"
	IconRain      Icon = "rain"
	IconSnow      Icon = "snow"
	IconThunder   Icon = "thunder"
)

// UnknownDescription is returned for codes outside the WMO table.
const UnknownDescription = "—"

// Condition is the classified form of a weather code.
type Condition struct {
	Code        int      `json:"code"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Icon        Icon     `json:"icon"`
}

// wmoDescriptions maps WMO weather codes to their descriptions.
var wmoDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Rain showers: slight",
	81: "Rain showers: moderate",
	82: "Rain showers: violent",
	85: "Snow showers: slight",
	86: "Snow showers: heavy",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// Describe returns the text for a WMO code, or UnknownDescription.
func Describe(code int) string {
	if desc, ok := wmoDescriptions[code]; ok {
		return desc
	}
	return UnknownDescription
}

// categorize maps a code onto the taxonomy. The second result is false for
// codes outside every range; those fall back to overcast.
func categorize(code int) (Category, bool) {
	switch code {
	case 0:
		return CategoryClear, true
	case 1, 2:
		return CategoryPartlyCloudy, true
	case 3:
		return CategoryOvercast, true
	case 45, 48:
		return CategoryFog, true
	case 51, 53, 55, 56, 57:
		return CategoryDrizzle, true
	case 61, 63, 65, 66, 67, 80, 81, 82:
		return CategoryRain, true
	case 71, 73, 75, 77, 85, 86:
		return CategorySnow, true
	case 95, 96, 99:
		return CategoryThunderstorm, true
	default:
		return CategoryOvercast, false
	}
}

// Classify maps a WMO code and day/night flag onto a Condition. It is total:
// unmapped codes get UnknownDescription, the overcast category and the plain
// cloud icon. isDay only changes the icon of clear and partly-cloudy skies.
func Classify(code int, isDay bool) Condition {
	category, known := categorize(code)
	return Condition{
		Code:        code,
		Category:    category,
		Description: Describe(code),
		Icon:        iconFor(category, known, isDay),
	}
}

func iconFor(category Category, known, isDay bool) Icon {
	switch category {
	case CategoryClear:
		if isDay {
			return IconSun
		}
		return IconMoon
	case CategoryPartlyCloudy:
		if isDay {
			return IconSunCloud
		}
		return IconMoonCloud
	case CategoryOvercast:
		if !known {
			return IconCloud
		}
		return IconCloudDark
	case CategoryFog:
		return IconFog
	case CategoryDrizzle:
		return IconDrizzle
	case CategoryRain:
		return IconRain
	case CategorySnow:
		return IconSnow
	case CategoryThunderstorm:
		return IconThunder
	}
	return IconCloud
}
