package httpapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/whether/internal/calendar"
	"github.com/i474232898/whether/internal/scheduler"
	"github.com/i474232898/whether/internal/store"
	"github.com/i474232898/whether/internal/weather"
)

var validate = validator.New()

const (
	defaultCount       = 2
	defaultRecentLimit = 5
)

// UpstreamStatus reports the last upstream probe for /health.
type UpstreamStatus interface {
	Status() scheduler.Status
}

// ErrorHandler renders every error as {"error":true,"message":...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. upstream may be
// nil when no probe is configured.
func RegisterRoutes(app *fiber.App, service *weather.Service, upstream UpstreamStatus) {
	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status":  "ok",
			"service": "whether",
		}
		if upstream != nil {
			body["upstream"] = upstream.Status()
		}
		return c.JSON(body)
	})

	v1 := app.Group("/api/v1")

	v1.Get("/days", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"days": service.WeekdayOptions(),
		})
	})

	v1.Get("/location", func(c *fiber.Ctx) error {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
		}

		// Lookup failures degrade to an unresolved location.
		loc, err := service.ResolveLocation(c.UserContext(), q)
		if errors.Is(err, calendar.ErrInvalidArgument) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(loc)
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		var req forecastQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		forecast, err := service.Forecast(c.UserContext(), req.toRequest())
		if err != nil {
			return serviceError(err, "failed to build forecast")
		}
		return c.JSON(forecast)
	})

	v1.Get("/preferences", func(c *fiber.Ctx) error {
		prefs, err := service.GetPreferences()
		if err != nil {
			return serviceError(err, "failed to load preferences")
		}
		return c.JSON(prefs)
	})

	v1.Get("/preferences/recent", func(c *fiber.Ctx) error {
		limit, err := queryInt(c, "limit", defaultRecentLimit)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Var(limit, "min=1,max=20"); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 20")
		}
		return c.JSON(fiber.Map{
			"preferences": service.RecentPreferences(limit),
		})
	})

	v1.Put("/preferences", func(c *fiber.Ctx) error {
		var body preferencesBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		prefs, err := service.SavePreferences(weather.Preferences{
			Location:  body.Location,
			Weekday:   time.Weekday(*body.Day),
			TimeOfDay: calendar.TimeOfDay(body.TimeOfDay),
		})
		if err != nil {
			return serviceError(err, "failed to save preferences")
		}
		return c.JSON(prefs)
	})
}

func serviceError(err error, fallback string) error {
	switch {
	case errors.Is(err, calendar.ErrInvalidArgument):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, weather.ErrNoProvider):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, fallback)
	}
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	Location   string `validate:"required"`
	Day        int    `validate:"min=0,max=6"`
	TimeOfDay  string `validate:"required,oneof=morning afternoon evening"`
	WeekOffset int    `validate:"min=-4,max=52"`
	Count      int    `validate:"min=1,max=4"`
}

func (f *forecastQuery) bind(c *fiber.Ctx) error {
	f.Location = strings.TrimSpace(c.Query("location"))
	f.TimeOfDay = c.Query("timeOfDay")

	day, err := parseDay(c.Query("day"))
	if err != nil {
		return err
	}
	f.Day = day

	if f.WeekOffset, err = queryInt(c, "weekOffset", 0); err != nil {
		return err
	}
	if f.Count, err = queryInt(c, "count", defaultCount); err != nil {
		return err
	}
	return nil
}

func (f forecastQuery) toRequest() weather.ForecastRequest {
	return weather.ForecastRequest{
		Location:   f.Location,
		Weekday:    time.Weekday(f.Day),
		TimeOfDay:  calendar.TimeOfDay(f.TimeOfDay),
		WeekOffset: f.WeekOffset,
		Count:      f.Count,
	}
}

// preferencesBody is the PUT /preferences payload.
type preferencesBody struct {
	Location  string `json:"location" validate:"required"`
	Day       *int   `json:"day" validate:"required,min=0,max=6"`
	TimeOfDay string `json:"timeOfDay" validate:"required,oneof=morning afternoon evening"`
}

// parseDay accepts a weekday index (0 = Sunday) or an English day name.
func parseDay(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("day query parameter is required")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	w, err := calendar.ParseWeekday(s)
	if err != nil {
		return 0, err
	}
	return int(w), nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return n, nil
}
