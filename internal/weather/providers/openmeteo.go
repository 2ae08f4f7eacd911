package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/whether/internal/calendar"
	"github.com/i474232898/whether/internal/weather"
)

// place is a geocoded location.
type place struct {
	Lat     float64
	Lon     float64
	Address string
}

func (p place) found() bool {
	return p.Address != ""
}

// key renders the coordinates the way parseCoordinates reads them back.
func (p place) key() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}

// geocodeFunc resolves a free-text query. A zero place with a nil error
// means "not found".
type geocodeFunc func(ctx context.Context, query string) (place, error)

// googleGeocode resolves through the Google Geocoding API. The geocoder
// package has no context support, so ctx is only checked up front.
func googleGeocode(ctx context.Context, query string) (place, error) {
	if err := ctx.Err(); err != nil {
		return place{}, err
	}

	loc, err := geocoder.Geocoding(geocoder.Address{City: query})
	if isNoResults(err) {
		return place{}, nil
	}
	if err != nil {
		return place{}, fmt.Errorf("geocode %q: %w", query, err)
	}

	p := place{Lat: loc.Latitude, Lon: loc.Longitude, Address: query}
	if addresses, err := geocoder.GeocodingReverse(loc); err == nil && len(addresses) > 0 {
		if formatted := strings.TrimSpace(addresses[0].FormattedAddress); formatted != "" {
			p.Address = formatted
		}
	}
	return p, nil
}

// isNoResults reports the geocoder's ZERO_RESULTS answer, which it only
// exposes as the error text "No results found.".
func isNoResults(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "no results")
}

// parseCoordinates reads a "lat,lon" location key.
func parseCoordinates(s string) (place, bool) {
	latText, lonText, ok := strings.Cut(s, ",")
	if !ok {
		return place{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil || !(lat >= -90 && lat <= 90) {
		return place{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil || !(lon >= -180 && lon <= 180) {
		return place{}, false
	}
	return place{Lat: lat, Lon: lon, Address: s}, true
}

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// Open-Meteo only takes coordinates, so locations go through Google geocoding.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	geocode geocodeFunc
}

// NewOpenMeteoProvider sets the process-wide geocoder API key.
func NewOpenMeteoProvider(client *http.Client, geocoderAPIKey string) *OpenMeteoProvider {
	geocoder.ApiKey = geocoderAPIKey

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		client:  client,
		circuit: newCircuitBreaker("openmeteo"),
		geocode: googleGeocode,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) ResolveLocation(ctx context.Context, query string) (string, error) {
	pl, err := p.geocode(ctx, query)
	if err != nil {
		return "", err
	}
	return pl.Address, nil
}

// Locate geocodes query once and returns a "lat,lon" key that FetchDay
// accepts without geocoding again. "" means the query was not found.
func (p *OpenMeteoProvider) Locate(ctx context.Context, query string) (string, error) {
	pl, err := p.geocode(ctx, query)
	if err != nil || !pl.found() {
		return "", err
	}
	return pl.key(), nil
}

type openMeteoResponse struct {
	Hourly struct {
		Time                     []string   `json:"time"`
		Temperature              []*float64 `json:"temperature_2m"`
		RelativeHumidity         []*float64 `json:"relative_humidity_2m"`
		Precipitation            []*float64 `json:"precipitation"`
		PrecipitationProbability []*float64 `json:"precipitation_probability"`
	} `json:"hourly"`
	Daily struct {
		Time          []string   `json:"time"`
		WeatherCode   []*int     `json:"weather_code"`
		TemperatureMx []*float64 `json:"temperature_2m_max"`
		Precipitation []*float64 `json:"precipitation_sum"`
		RainSum       []*float64 `json:"rain_sum"`
		ShowersSum    []*float64 `json:"showers_sum"`
		SnowfallSum   []*float64 `json:"snowfall_sum"`
		WindSpeedMax  []*float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// FetchDay requests hourly and daily values for one date in US units. A
// "lat,lon" location from Locate skips geocoding. With timezone=auto the
// hourly times are local wall-clock strings such as "2024-03-01T14:00".
func (p *OpenMeteoProvider) FetchDay(ctx context.Context, location string, date time.Time) (weather.DayForecast, error) {
	pl, ok := parseCoordinates(location)
	if !ok {
		var err error
		if pl, err = p.geocode(ctx, location); err != nil {
			return weather.DayForecast{}, err
		}
		if !pl.found() {
			return weather.DayForecast{}, fmt.Errorf("openmeteo: location %q not found", location)
		}
	}

	buildRequest := func() (*http.Request, error) {
		day := date.Format(dateLayout)
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", pl.Lat))
		values.Set("longitude", fmt.Sprintf("%f", pl.Lon))
		values.Set("hourly", "temperature_2m,relative_humidity_2m,precipitation,precipitation_probability")
		values.Set("daily", "weather_code,temperature_2m_max,precipitation_sum,rain_sum,showers_sum,snowfall_sum,wind_speed_10m_max")
		values.Set("start_date", day)
		values.Set("end_date", day)
		values.Set("timezone", "auto")
		values.Set("temperature_unit", "fahrenheit")
		values.Set("wind_speed_unit", "mph")
		values.Set("precipitation_unit", "inch")

		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.DayForecast{}, err
	}
	defer resp.Body.Close()

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.DayForecast{}, fmt.Errorf("decode openmeteo response: %w", err)
	}

	result := weather.DayForecast{Date: date}

	h := payload.Hourly
	result.Hours = make([]calendar.HourPoint, 0, len(h.Time))
	for i, raw := range h.Time {
		ts, err := time.Parse("2006-01-02T15:04", raw)
		if err != nil {
			continue
		}
		result.Hours = append(result.Hours, calendar.HourPoint{
			Clock:      ts.Format("15:04:05"),
			Temp:       valueOr(at(h.Temperature, i)),
			Humidity:   valueOr(at(h.RelativeHumidity, i)),
			Precip:     valueOr(at(h.Precipitation, i)),
			PrecipProb: valueOr(at(h.PrecipitationProbability, i)),
		})
	}

	d := payload.Daily
	if len(d.Time) == 0 {
		return result, nil
	}
	if code := atInt(d.WeatherCode, 0); code != nil {
		result.Conditions, result.Icon = mapOpenMeteoCondition(*code)
	}
	result.Temp = at(d.TemperatureMx, 0)
	result.WindSpeed = at(d.WindSpeedMax, 0)
	result.Precip = valueOr(at(d.Precipitation, 0))
	result.PrecipType = openMeteoPrecipTypes(atInt(d.WeatherCode, 0),
		valueOr(at(d.RainSum, 0))+valueOr(at(d.ShowersSum, 0)),
		valueOr(at(d.SnowfallSum, 0)))
	return result, nil
}

func at(values []*float64, i int) *float64 {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

func atInt(values []*int, i int) *int {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

// mapOpenMeteoCondition maps WMO weather codes (simplified).
func mapOpenMeteoCondition(code int) (string, weather.Condition) {
	switch {
	case code == 0:
		return "Clear", weather.ConditionClearDay
	case code == 1 || code == 2:
		return "Partially cloudy", weather.ConditionPartlyCloudyDay
	case code == 3:
		return "Overcast", weather.ConditionCloudy
	case code == 45 || code == 48:
		return "Fog", weather.ConditionFog
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return "Rain", weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return "Snow", weather.ConditionSnow
	case code >= 95:
		return "Thunderstorm", weather.ConditionRain
	default:
		return "", weather.ConditionUnknown
	}
}

func openMeteoPrecipTypes(code *int, rain, snow float64) []weather.PrecipType {
	var types []weather.PrecipType
	if code != nil {
		switch *code {
		case 56, 57, 66, 67:
			types = append(types, weather.PrecipFreezingRain)
		}
	}
	if snow > 0 {
		types = append(types, weather.PrecipSnow)
	}
	if rain > 0 {
		types = append(types, weather.PrecipRain)
	}
	return types
}
