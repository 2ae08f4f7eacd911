package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/whether/internal/calendar"
	"github.com/i474232898/whether/internal/common"
	"github.com/i474232898/whether/internal/weather"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1",
		client:  client,
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) get(ctx context.Context, endpoint string, values url.Values, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("weatherapi %w", errNoAPIKey)
	}
	values.Set("key", p.apiKey)

	resp, err := doRequest(ctx, p.client, p.circuit, func() (*http.Request, error) {
		u := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// ResolveLocation uses the search endpoint and joins the best match's
// name, region and country.
func (p *WeatherAPIProvider) ResolveLocation(ctx context.Context, query string) (string, error) {
	var matches []struct {
		Name    string `json:"name"`
		Region  string `json:"region"`
		Country string `json:"country"`
	}

	values := url.Values{}
	values.Set("q", query)
	err := p.get(ctx, "search.json", values, &matches)
	if errors.Is(err, errClientStatus) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}

	m := matches[0]
	return common.JoinNonEmpty(", ", m.Name, m.Region, m.Country), nil
}

type weatherAPIForecast struct {
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				AvgTempF          *float64 `json:"avgtemp_f"`
				MaxWindMph        *float64 `json:"maxwind_mph"`
				TotalPrecipIn     float64  `json:"totalprecip_in"`
				DailyWillItRain   int      `json:"daily_will_it_rain"`
				DailyWillItSnow   int      `json:"daily_will_it_snow"`
				DailyChanceOfRain float64  `json:"daily_chance_of_rain"`
				Condition         struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
			Hour []struct {
				Time         string  `json:"time"`
				TempF        float64 `json:"temp_f"`
				Humidity     float64 `json:"humidity"`
				PrecipIn     float64 `json:"precip_in"`
				ChanceOfRain float64 `json:"chance_of_rain"`
				ChanceOfSnow float64 `json:"chance_of_snow"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// FetchDay uses forecast.json restricted to one date. Hourly times arrive
// as "2024-03-01 14:00" in the location's local time.
func (p *WeatherAPIProvider) FetchDay(ctx context.Context, location string, date time.Time) (weather.DayForecast, error) {
	values := url.Values{}
	values.Set("q", location)
	values.Set("days", "14")
	values.Set("dt", date.Format(dateLayout))
	values.Set("aqi", "no")
	values.Set("alerts", "no")

	var payload weatherAPIForecast
	if err := p.get(ctx, "forecast.json", values, &payload); err != nil {
		return weather.DayForecast{}, err
	}

	result := weather.DayForecast{Date: date}
	if len(payload.Forecast.ForecastDay) == 0 {
		return result, nil
	}

	fd := payload.Forecast.ForecastDay[0]
	text := fd.Day.Condition.Text
	result.Conditions = strings.TrimSpace(text)
	result.Icon = mapWeatherAPICondition(text)
	result.Temp = fd.Day.AvgTempF
	result.WindSpeed = fd.Day.MaxWindMph
	result.Precip = fd.Day.TotalPrecipIn
	result.PrecipType = weatherAPIPrecipTypes(text, fd.Day.DailyWillItRain == 1, fd.Day.DailyWillItSnow == 1)

	result.Hours = make([]calendar.HourPoint, 0, len(fd.Hour))
	for _, h := range fd.Hour {
		ts, err := time.Parse("2006-01-02 15:04", h.Time)
		if err != nil {
			continue
		}
		result.Hours = append(result.Hours, calendar.HourPoint{
			Clock:      ts.Format("15:04:05"),
			Temp:       h.TempF,
			Humidity:   h.Humidity,
			Precip:     h.PrecipIn,
			PrecipProb: max(h.ChanceOfRain, h.ChanceOfSnow),
		})
	}
	return result, nil
}

func mapWeatherAPICondition(text string) weather.Condition {
	t := strings.TrimSpace(text)
	switch {
	case t == "":
		return weather.ConditionUnknown
	case common.HasAny(t, "snow", "sleet", "blizzard", "ice pellets"):
		return weather.ConditionSnow
	case common.HasAny(t, "rain", "shower", "drizzle", "thunder"):
		return weather.ConditionRain
	case common.HasAny(t, "fog", "mist"):
		return weather.ConditionFog
	case common.HasAny(t, "partly"):
		return weather.ConditionPartlyCloudyDay
	case common.HasAny(t, "cloud", "overcast"):
		return weather.ConditionCloudy
	case common.HasAny(t, "sunny", "clear"):
		return weather.ConditionClearDay
	default:
		return weather.ConditionUnknown
	}
}

func weatherAPIPrecipTypes(text string, rain, snow bool) []weather.PrecipType {
	var types []weather.PrecipType
	if common.HasAny(text, "freezing") {
		types = append(types, weather.PrecipFreezingRain)
	}
	if common.HasAny(text, "ice pellets") {
		types = append(types, weather.PrecipIce)
	}
	if snow {
		types = append(types, weather.PrecipSnow)
	}
	if rain {
		types = append(types, weather.PrecipRain)
	}
	return types
}
