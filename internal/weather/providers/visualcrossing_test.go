package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/whether/internal/weather"
)

const (
	testAPIKey        = "test-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

const timelineDayPayload = `{
  "resolvedAddress": "Paris, Île-de-France, France",
  "days": [{
    "datetime": "2024-03-08",
    "temp": 51.3,
    "humidity": 80.1,
    "precip": 0.25,
    "precipprob": 90,
    "preciptype": ["snow", "rain"],
    "windspeed": 12.4,
    "conditions": "Rain, Overcast",
    "icon": "rain",
    "hours": [
      {"datetime": "08:00:00", "temp": 45, "humidity": 85, "precip": 0.01, "precipprob": 40},
      {"datetime": "14:00:00", "temp": 52, "humidity": 70, "precip": null, "precipprob": 60}
    ]
  }]
}`

func testVisualCrossing(srv *httptest.Server) *VisualCrossingProvider {
	p := NewVisualCrossingProvider(srv.Client(), testAPIKey)
	p.baseURL = srv.URL
	return p
}

func TestVisualCrossing_FetchDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Paris, France/2024-03-08", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, testAPIKey, q.Get("key"))
		assert.Equal(t, "json", q.Get("contentType"))
		assert.Equal(t, "hours,days", q.Get("include"))
		assert.Contains(t, q.Get("elements"), "preciptype")

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(timelineDayPayload))
	}))
	defer srv.Close()

	date := time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)
	day, err := testVisualCrossing(srv).FetchDay(context.Background(), "Paris, France", date)
	require.NoError(t, err)

	assert.Equal(t, date, day.Date)
	assert.Equal(t, "Rain, Overcast", day.Conditions)
	assert.Equal(t, weather.ConditionRain, day.Icon)
	require.NotNil(t, day.Temp)
	assert.InDelta(t, 51.3, *day.Temp, 1e-9)
	require.NotNil(t, day.WindSpeed)
	assert.InDelta(t, 12.4, *day.WindSpeed, 1e-9)
	assert.InDelta(t, 0.25, day.Precip, 1e-9)
	assert.Equal(t, []weather.PrecipType{weather.PrecipSnow, weather.PrecipRain}, day.PrecipType)

	require.Len(t, day.Hours, 2)
	assert.Equal(t, "08:00:00", day.Hours[0].Clock)
	assert.InDelta(t, 45.0, day.Hours[0].Temp, 1e-9)
	assert.InDelta(t, 40.0, day.Hours[0].PrecipProb, 1e-9)
	assert.Equal(t, "14:00:00", day.Hours[1].Clock)
	assert.Zero(t, day.Hours[1].Precip)
}

func TestVisualCrossing_FetchDay_NoDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"resolvedAddress":"Paris","days":[]}`))
	}))
	defer srv.Close()

	day, err := testVisualCrossing(srv).FetchDay(context.Background(), "Paris", time.Now())
	require.NoError(t, err)
	assert.Empty(t, day.Hours)
	assert.Nil(t, day.Temp)
}

func TestVisualCrossing_FetchDay_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testVisualCrossing(srv).FetchDay(context.Background(), "Paris", time.Now())
	require.ErrorIs(t, err, errServerError)
}

func TestVisualCrossing_ResolveLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/paris", r.URL.Path)
		assert.Equal(t, "resolvedAddress", r.URL.Query().Get("elements"))
		_, _ = w.Write([]byte(`{"resolvedAddress":"Paris, Île-de-France, France"}`))
	}))
	defer srv.Close()

	addr, err := testVisualCrossing(srv).ResolveLocation(context.Background(), "paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris, Île-de-France, France", addr)
}

func TestVisualCrossing_ResolveLocation_Unknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Bad API Request:Invalid location parameter value."))
	}))
	defer srv.Close()

	addr, err := testVisualCrossing(srv).ResolveLocation(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, addr)
}

func TestVisualCrossing_MissingAPIKey(t *testing.T) {
	p := NewVisualCrossingProvider(http.DefaultClient, "")
	_, err := p.ResolveLocation(context.Background(), "paris")
	require.ErrorIs(t, err, errNoAPIKey)
}
