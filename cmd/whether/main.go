package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/whether/internal/api/http"
	"github.com/i474232898/whether/internal/calendar"
	"github.com/i474232898/whether/internal/config"
	"github.com/i474232898/whether/internal/observability"
	"github.com/i474232898/whether/internal/scheduler"
	"github.com/i474232898/whether/internal/store"
	"github.com/i474232898/whether/internal/weather"
	"github.com/i474232898/whether/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.EnvFileLoaded {
		logger.Info("no .env file found; using process environment")
	}

	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := newProvider(cfg, httpClient)

	tr, err := calendar.Translator(cfg.Locale)
	if err != nil {
		logger.Fatal("failed to load locale", zap.Error(err))
	}
	labeler := calendar.NewLabeler(tr, cfg.WeekStart)

	// Dashboard selections live in memory only.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge, clock)

	service := weather.NewService(memStore, provider, labeler,
		weather.WithClock(clock),
		weather.WithLocation(cfg.Timezone),
		weather.WithMetrics(metrics),
		weather.WithLogger(logger),
	)

	// Upstream probe feeding /health.
	sched := scheduler.New(service, cfg.ProbeLocation, cfg.ProbeInterval, clock, metrics, logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "whether",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 5*time.Second,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, service, sched)

	go func() {
		logger.Info("http server listening",
			zap.String("port", cfg.Port),
			zap.String("provider", provider.Name()))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
}

func newProvider(cfg *config.AppConfig, client *http.Client) weather.Provider {
	switch cfg.Provider {
	case config.ProviderWeatherAPI:
		return providers.NewWeatherAPIProvider(client, cfg.WeatherAPIKey)
	case config.ProviderOpenMeteo:
		// Open-Meteo needs no key, but geocoding goes through Google.
		return providers.NewOpenMeteoProvider(client, cfg.GeocoderAPIKey)
	default:
		return providers.NewVisualCrossingProvider(client, cfg.VisualCrossingAPIKey)
	}
}
