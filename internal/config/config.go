package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/whether/internal/calendar"
)

// Supported WEATHER_PROVIDER values.
const (
	ProviderVisualCrossing = "visualcrossing"
	ProviderWeatherAPI     = "weatherapi"
	ProviderOpenMeteo      = "openmeteo"
)

type AppConfig struct {
	Port string

	// Provider selects the upstream weather source.
	Provider             string
	VisualCrossingAPIKey string
	WeatherAPIKey        string
	GeocoderAPIKey       string
	HTTPTimeout          time.Duration

	// Upstream probe. An empty ProbeLocation disables it.
	ProbeInterval time.Duration
	ProbeLocation string

	// Calendar presentation.
	Locale    string
	WeekStart time.Weekday
	Timezone  *time.Location

	LogLevel string

	// In-memory preference history retention.
	StoreMaxHistory int           // 0 = unlimited
	StoreMaxAge     time.Duration // 0 = unlimited

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	cfg.EnvFileLoaded = godotenv.Load() == nil

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))

	cfg.Provider = strings.ToLower(getenvDefault("WEATHER_PROVIDER", ProviderVisualCrossing))
	cfg.VisualCrossingAPIKey = os.Getenv("VISUALCROSSING_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	if err := cfg.checkProvider(); err != nil {
		return nil, err
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.ProbeInterval, err = getenvDuration("PROBE_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	cfg.ProbeLocation = strings.TrimSpace(os.Getenv("PROBE_LOCATION"))

	cfg.Locale = getenvDefault("LOCALE", "en")
	if _, err := calendar.Translator(cfg.Locale); err != nil {
		return nil, fmt.Errorf("invalid LOCALE: %w", err)
	}

	if cfg.WeekStart, err = calendar.ParseWeekday(getenvDefault("WEEK_START", "sunday")); err != nil {
		return nil, fmt.Errorf("invalid WEEK_START: %w", err)
	}

	if cfg.Timezone, err = time.LoadLocation(getenvDefault("TIMEZONE", "Local")); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 20)
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "720h"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) checkProvider() error {
	switch c.Provider {
	case ProviderVisualCrossing:
		if c.VisualCrossingAPIKey == "" {
			return fmt.Errorf("VISUALCROSSING_API_KEY is required for provider %q", c.Provider)
		}
	case ProviderWeatherAPI:
		if c.WeatherAPIKey == "" {
			return fmt.Errorf("WEATHERAPI_API_KEY is required for provider %q", c.Provider)
		}
	case ProviderOpenMeteo:
		if c.GeocoderAPIKey == "" {
			return fmt.Errorf("GEOCODER_API_KEY is required for provider %q", c.Provider)
		}
	default:
		return fmt.Errorf("invalid WEATHER_PROVIDER %q", c.Provider)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
