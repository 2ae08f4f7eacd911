package weather

import (
	"fmt"
	"slices"
	"strings"
)

// ConditionsIcon maps an icon-set condition to the glyph shown on a card.
// See https://www.visualcrossing.com/resources/documentation/weather-api/defining-icon-set-in-the-weather-api/
func ConditionsIcon(c Condition) string {
	switch c {
	case ConditionSnow:
		return "🌨️"
	case ConditionRain:
		return "🌧️"
	case ConditionFog:
		return "🌫️"
	case ConditionWind:
		return "💨"
	case ConditionCloudy:
		return "☁️"
	case ConditionPartlyCloudyDay, ConditionPartlyCloudyNight:
		return "🌥️"
	case ConditionClearDay, ConditionClearNight:
		return "☀️"
	default:
		return "❔"
	}
}

// FormatConditions renders e.g. "Sunny 71°F". Missing temperature keeps the
// text alone; missing text means there is nothing to show.
func FormatConditions(conditions string, temp *float64) string {
	if conditions == "" {
		return "No data"
	}
	if temp == nil {
		return conditions
	}
	return fmt.Sprintf("%s %.0f°F", conditions, *temp)
}

// PrecipIcon picks the glyph for the day's precipitation kinds.
func PrecipIcon(types []PrecipType) string {
	switch {
	case len(types) == 0:
		return "☀️"
	case slices.Contains(types, PrecipFreezingRain) || slices.Contains(types, PrecipIce):
		return "🧊"
	case slices.Contains(types, PrecipSnow):
		return "❄️"
	default:
		return "💧"
	}
}

// FormatPrecipitation renders e.g. `0.25" snow, rain`.
func FormatPrecipitation(amount float64, types []PrecipType) string {
	if len(types) == 0 {
		return "no precipitation"
	}

	var desc []string
	if slices.Contains(types, PrecipFreezingRain) {
		desc = append(desc, "freezing rain")
	}
	if slices.Contains(types, PrecipIce) {
		desc = append(desc, "ice")
	}
	if slices.Contains(types, PrecipSnow) {
		desc = append(desc, "snow")
	}
	if slices.Contains(types, PrecipRain) {
		desc = append(desc, "rain")
	}
	return fmt.Sprintf(`%.2f" %s`, amount, strings.Join(desc, ", "))
}

// FormatWinds renders the wind speed in mph.
func FormatWinds(speed *float64) string {
	switch {
	case speed == nil:
		return "no wind data"
	case *speed > 0:
		return fmt.Sprintf("winds %.0f mph", *speed)
	default:
		return "no wind"
	}
}
