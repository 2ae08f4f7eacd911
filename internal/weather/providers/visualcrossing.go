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
	"github.com/i474232898/whether/internal/weather"
)

var dayElements = []string{
	"datetime",
	"datetimeEpoch",
	"temp",
	"humidity",
	"precip",
	"precipprob",
	"preciptype",
	"windspeed",
	"conditions",
	"icon",
}

// VisualCrossingProvider implements weather.Provider for the Visual Crossing
// Timeline API.
type VisualCrossingProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewVisualCrossingProvider(client *http.Client, apiKey string) *VisualCrossingProvider {
	return &VisualCrossingProvider{
		name:    "visualcrossing",
		apiKey:  apiKey,
		baseURL: "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline",
		client:  client,
		circuit: newCircuitBreaker("visualcrossing"),
	}
}

func (p *VisualCrossingProvider) Name() string {
	return p.name
}

// timelineURL builds /timeline/{location}[/{day}]?elements=..&include=..&key=..
func (p *VisualCrossingProvider) timelineURL(location string, day *time.Time, elements, include []string) string {
	u := p.baseURL + "/" + url.PathEscape(location)
	if day != nil {
		u += "/" + day.Format(dateLayout)
	}

	values := url.Values{}
	values.Set("elements", strings.Join(elements, ","))
	values.Set("include", strings.Join(include, ","))
	values.Set("key", p.apiKey)
	values.Set("contentType", "json")
	return u + "?" + values.Encode()
}

func (p *VisualCrossingProvider) get(ctx context.Context, u string, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("visualcrossing %w", errNoAPIKey)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, u, nil)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode timeline response: %w", err)
	}
	return nil
}

// ResolveLocation asks for nothing but the resolved address. Visual Crossing
// answers 400 for unknown locations, which maps to "".
func (p *VisualCrossingProvider) ResolveLocation(ctx context.Context, query string) (string, error) {
	var payload struct {
		ResolvedAddress string `json:"resolvedAddress"`
	}

	err := p.get(ctx, p.timelineURL(query, nil, []string{"resolvedAddress"}, []string{}), &payload)
	if errors.Is(err, errClientStatus) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return payload.ResolvedAddress, nil
}

type timelineHour struct {
	Datetime   string   `json:"datetime"`
	Temp       *float64 `json:"temp"`
	Humidity   *float64 `json:"humidity"`
	Precip     *float64 `json:"precip"`
	PrecipProb *float64 `json:"precipprob"`
}

type timelineDay struct {
	Datetime   string         `json:"datetime"`
	Temp       *float64       `json:"temp"`
	Humidity   *float64       `json:"humidity"`
	Precip     *float64       `json:"precip"`
	PrecipProb *float64       `json:"precipprob"`
	PrecipType []string       `json:"preciptype"`
	WindSpeed  *float64       `json:"windspeed"`
	Conditions string         `json:"conditions"`
	Icon       string         `json:"icon"`
	Hours      []timelineHour `json:"hours"`
}

type timelineResponse struct {
	ResolvedAddress string        `json:"resolvedAddress"`
	Days            []timelineDay `json:"days"`
}

// FetchDay requests a single day with its hours.
func (p *VisualCrossingProvider) FetchDay(ctx context.Context, location string, date time.Time) (weather.DayForecast, error) {
	var payload timelineResponse
	u := p.timelineURL(location, &date, dayElements, []string{"hours", "days"})
	if err := p.get(ctx, u, &payload); err != nil {
		return weather.DayForecast{}, err
	}

	result := weather.DayForecast{Date: date}
	if len(payload.Days) == 0 {
		return result, nil
	}

	day := payload.Days[0]
	result.Conditions = day.Conditions
	result.Icon = weather.Condition(day.Icon)
	result.Temp = day.Temp
	result.WindSpeed = day.WindSpeed
	result.Precip = valueOr(day.Precip)
	for _, t := range day.PrecipType {
		result.PrecipType = append(result.PrecipType, weather.PrecipType(t))
	}

	result.Hours = make([]calendar.HourPoint, 0, len(day.Hours))
	for _, h := range day.Hours {
		result.Hours = append(result.Hours, calendar.HourPoint{
			Clock:      h.Datetime,
			Temp:       valueOr(h.Temp),
			Humidity:   valueOr(h.Humidity),
			Precip:     valueOr(h.Precip),
			PrecipProb: valueOr(h.PrecipProb),
		})
	}
	return result, nil
}
