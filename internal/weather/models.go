package weather

import (
	"strings"
	"time"

	"github.com/i474232898/whether/internal/calendar"
)

// Condition is a normalized icon-set condition. Values follow the Visual
// Crossing icon names; other providers map onto them.
type Condition string

const (
	ConditionUnknown           Condition = ""
	ConditionSnow              Condition = "snow"
	ConditionRain              Condition = "rain"
	ConditionFog               Condition = "fog"
	ConditionWind              Condition = "wind"
	ConditionCloudy            Condition = "cloudy"
	ConditionPartlyCloudyDay   Condition = "partly-cloudy-day"
	ConditionPartlyCloudyNight Condition = "partly-cloudy-night"
	ConditionClearDay          Condition = "clear-day"
	ConditionClearNight        Condition = "clear-night"
)

// PrecipType is one kind of precipitation expected during a day.
type PrecipType string

const (
	PrecipRain         PrecipType = "rain"
	PrecipSnow         PrecipType = "snow"
	PrecipFreezingRain PrecipType = "freezingrain"
	PrecipIce          PrecipType = "ice"
)

// Location is a user query together with the provider's canonical name for it.
// An empty ResolvedAddress means the lookup produced no usable result.
type Location struct {
	Query           string `json:"query"`
	ResolvedAddress string `json:"resolvedAddress"`
}

// Resolved reports whether the provider recognized the query.
func (l Location) Resolved() bool {
	return l.ResolvedAddress != ""
}

// Key returns the string used for subsequent provider queries.
func (l Location) Key() string {
	if l.Resolved() {
		return l.ResolvedAddress
	}
	return strings.TrimSpace(l.Query)
}

// DayForecast is one provider's view of a single calendar day. Pointer
// fields are nil when the provider did not report them.
type DayForecast struct {
	Date       time.Time
	Conditions string
	Icon       Condition
	Temp       *float64
	WindSpeed  *float64
	Precip     float64
	PrecipType []PrecipType
	Hours      []calendar.HourPoint
}

// CardStatus mirrors the per-card request lifecycle the UI renders.
type CardStatus string

const (
	CardLoaded CardStatus = "loaded"
	CardFailed CardStatus = "failed"
)

// HourView is an anchored hourly point with its chart tick label.
type HourView struct {
	calendar.AnchoredPoint
	Label string `json:"label"`
}

// Card is one upcoming occurrence of the selected weekday.
type Card struct {
	ID            string        `json:"id"`
	Date          time.Time     `json:"date"`
	Label         string        `json:"label"`
	Status        CardStatus    `json:"status"`
	Icon          string        `json:"icon"`
	Conditions    string        `json:"conditions"`
	Winds         string        `json:"winds"`
	Precipitation string        `json:"precipitation"`
	PrecipIcon    string        `json:"precipIcon"`
	Hours         []HourView    `json:"hours"`
	Summary       WindowSummary `json:"summary"`
}

// Forecast is the full dashboard response. Every card's hours share one time
// axis, anchored on the request day, so Bounds and Window apply to all.
type Forecast struct {
	Location  string             `json:"location"`
	TimeOfDay calendar.TimeOfDay `json:"timeOfDay"`
	HourRange calendar.HourRange `json:"hourRange"`
	Bounds    calendar.TimeRange `json:"bounds"`
	Window    calendar.TimeRange `json:"window"`
	Cards     []Card             `json:"cards"`
}

// Preferences is the dashboard selection kept in memory between requests.
type Preferences struct {
	Location  string             `json:"location"`
	Weekday   time.Weekday       `json:"day"`
	TimeOfDay calendar.TimeOfDay `json:"timeOfDay"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
