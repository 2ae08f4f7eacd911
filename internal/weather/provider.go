package weather

import (
	"context"
	"time"
)

// Provider abstracts a weather data source (e.g. Visual Crossing, WeatherAPI, Open-Meteo).
type Provider interface {
	Name() string
	// ResolveLocation returns the canonical address for a free-text query,
	// or "" when the provider does not recognize it.
	ResolveLocation(ctx context.Context, query string) (string, error)
	// FetchDay returns the forecast for one calendar day. A day without
	// hourly data is returned with empty Hours, not an error.
	FetchDay(ctx context.Context, location string, date time.Time) (DayForecast, error)
}

// Locator is implemented by providers that must look a location up before
// fetching days. Forecast calls Locate once and passes the returned key to
// every FetchDay; "" means the provider does not know the location.
type Locator interface {
	Locate(ctx context.Context, query string) (string, error)
}

// PreferenceStore is the contract the in-memory preference store satisfies.
type PreferenceStore interface {
	SavePreferences(p Preferences)
	GetPreferences() (Preferences, error)
	RecentPreferences(limit int) []Preferences
}
