package main

import (
	"context"
	_ "embed"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpapi "github.com/i474232898/clock-widget/internal/api/http"
	"github.com/i474232898/clock-widget/internal/config"
	"github.com/i474232898/clock-widget/internal/dom"
	"github.com/i474232898/clock-widget/internal/metrics"
	"github.com/i474232898/clock-widget/internal/scheduler"
	"github.com/i474232898/clock-widget/internal/store"
	"github.com/i474232898/clock-widget/internal/weather"
	"github.com/i474232898/clock-widget/internal/weather/providers"
	"github.com/i474232898/clock-widget/internal/widget"
)

//go:embed page.html
var demoPage string

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg.LogLevel)

	doc, err := loadHostPage(cfg.HostPage)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.HostPage).Msg("failed to load host page")
	}
	if cfg.EnableNavigation {
		doc.SetGlobal(cfg.NavigationGlobal)
	}

	selectors, err := dom.ParseSelectors(cfg.Selectors)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid container selectors")
	}

	// Shared HTTP client for outbound lookups.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Location and weather providers with resilience (circuit breaker + backoff).
	service := weather.NewService(
		providers.NewIPAPIProvider(httpClient, cfg.LocationAPI),
		providers.NewQWeatherProvider(httpClient, cfg.WeatherKey, cfg.CityLookupAPI, cfg.WeatherAPI),
		log.Logger,
	)

	sched := scheduler.New(log.Logger)
	defer sched.Stop()

	m := metrics.New("clock_widget")
	history := store.NewHistory(cfg.HistorySize, cfg.HistoryMaxAge)

	opts := widget.DefaultOptions()
	opts.EnableWeather = cfg.EnableWeather
	opts.WeatherKey = cfg.WeatherKey
	opts.UpdateInterval = cfg.UpdateInterval
	opts.RetryDelay = cfg.RetryDelay
	opts.MaxRetries = cfg.MaxRetries
	opts.WeatherDelay = cfg.WeatherDelay
	opts.NavigationDelay = cfg.NavigationDelay
	opts.LookupTimeout = cfg.HTTPTimeout
	opts.Selectors = selectors
	opts.NavigationGlobal = cfg.NavigationGlobal

	ctrl := widget.NewController(doc, sched, service, opts, log.Logger,
		widget.WithRecorder(m),
		widget.WithJournal(history),
	)
	ctrl.Start()
	defer ctrl.Close()

	if !cfg.WeatherActive() {
		log.Info().Bool("enabled", cfg.EnableWeather).Msg("weather lookups inactive")
	}

	app := fiber.New(fiber.Config{
		AppName:               "clock-widget",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "clock-widget",
		})
	})

	httpapi.RegisterRoutes(app, ctrl, doc, httpapi.Options{
		NavigationEvent: opts.NavigationEvent,
		StylesheetPath:  opts.StylesheetHref,
		Metrics:         m.Handler(),
		History:         history,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("serving widget preview")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}

// setupLogging sets the global level from LOG_LEVEL.
func setupLogging(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func loadHostPage(path string) (*dom.Document, error) {
	if path == "" {
		return dom.ParseString(demoPage)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dom.Parse(f)
}
