package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestConditionsIcon(t *testing.T) {
	assert.Equal(t, "🌨️", ConditionsIcon(ConditionSnow))
	assert.Equal(t, "🌥️", ConditionsIcon(ConditionPartlyCloudyNight))
	assert.Equal(t, "☀️", ConditionsIcon(ConditionClearDay))
	assert.Equal(t, "❔", ConditionsIcon(Condition("tornado")))
	assert.Equal(t, "❔", ConditionsIcon(ConditionUnknown))
}

func TestFormatConditions(t *testing.T) {
	assert.Equal(t, "No data", FormatConditions("", ptr(70)))
	assert.Equal(t, "Overcast", FormatConditions("Overcast", nil))
	assert.Equal(t, "Sunny 71°F", FormatConditions("Sunny", ptr(71.2)))
	assert.Equal(t, "Snow 0°F", FormatConditions("Snow", ptr(0)))
}

func TestPrecipIcon(t *testing.T) {
	assert.Equal(t, "☀️", PrecipIcon(nil))
	assert.Equal(t, "🧊", PrecipIcon([]PrecipType{PrecipRain, PrecipIce}))
	assert.Equal(t, "🧊", PrecipIcon([]PrecipType{PrecipFreezingRain}))
	assert.Equal(t, "❄️", PrecipIcon([]PrecipType{PrecipRain, PrecipSnow}))
	assert.Equal(t, "💧", PrecipIcon([]PrecipType{PrecipRain}))
}

func TestFormatPrecipitation(t *testing.T) {
	assert.Equal(t, "no precipitation", FormatPrecipitation(0.3, nil))
	assert.Equal(t, `0.25" snow, rain`, FormatPrecipitation(0.25, []PrecipType{PrecipRain, PrecipSnow}))
	assert.Equal(t, `1.00" freezing rain, ice`, FormatPrecipitation(1, []PrecipType{PrecipIce, PrecipFreezingRain}))
}

func TestFormatWinds(t *testing.T) {
	assert.Equal(t, "no wind data", FormatWinds(nil))
	assert.Equal(t, "no wind", FormatWinds(ptr(0)), "a reported calm is not missing data")
	assert.Equal(t, "winds 5 mph", FormatWinds(ptr(5.4)))
}
