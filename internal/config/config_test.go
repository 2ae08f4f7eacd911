package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("VISUALCROSSING_API_KEY", testAPIKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderVisualCrossing, cfg.Provider)
	assert.Equal(t, testAPIKey, cfg.VisualCrossingAPIKey)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 15*time.Minute, cfg.ProbeInterval)
	assert.Empty(t, cfg.ProbeLocation)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, time.Sunday, cfg.WeekStart)
	assert.Equal(t, time.Local, cfg.Timezone)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 20, cfg.StoreMaxHistory)
	assert.Equal(t, 720*time.Hour, cfg.StoreMaxAge)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WEATHER_PROVIDER", "WeatherAPI")
	t.Setenv("WEATHERAPI_API_KEY", testAPIKey)
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("PROBE_INTERVAL", "1m")
	t.Setenv("PROBE_LOCATION", " Berlin ")
	t.Setenv("LOCALE", "de")
	t.Setenv("WEEK_START", "Monday")
	t.Setenv("TIMEZONE", "Europe/Berlin")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STORE_MAX_HISTORY", "5")
	t.Setenv("STORE_MAX_AGE", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, ProviderWeatherAPI, cfg.Provider)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Minute, cfg.ProbeInterval)
	assert.Equal(t, "Berlin", cfg.ProbeLocation)
	assert.Equal(t, "de", cfg.Locale)
	assert.Equal(t, time.Monday, cfg.WeekStart)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone.String())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.StoreMaxHistory)
	assert.Equal(t, time.Hour, cfg.StoreMaxAge)
}

func TestLoad_OpenMeteoNeedsGeocoderKey(t *testing.T) {
	t.Setenv("WEATHER_PROVIDER", ProviderOpenMeteo)
	t.Setenv("GEOCODER_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODER_API_KEY")

	t.Setenv("GEOCODER_API_KEY", testAPIKey)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, testAPIKey, cfg.GeocoderAPIKey)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"WEATHER_PROVIDER", "darksky", "WEATHER_PROVIDER"},
		{"HTTP_TIMEOUT", "soon", "HTTP_TIMEOUT"},
		{"PROBE_INTERVAL", "-1m", "PROBE_INTERVAL"},
		{"STORE_MAX_AGE", "forever", "STORE_MAX_AGE"},
		{"LOCALE", "xx", "LOCALE"},
		{"WEEK_START", "someday", "WEEK_START"},
		{"TIMEZONE", "Mars/Olympus", "TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("VISUALCROSSING_API_KEY", testAPIKey)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("WEATHER_PROVIDER", ProviderVisualCrossing)
	t.Setenv("VISUALCROSSING_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VISUALCROSSING_API_KEY")
}
