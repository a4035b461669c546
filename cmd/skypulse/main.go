package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/skypulse/internal/api/http"
	"github.com/i474232898/skypulse/internal/config"
	"github.com/i474232898/skypulse/internal/quiz"
	"github.com/i474232898/skypulse/internal/scheduler"
	"github.com/i474232898/skypulse/internal/store"
	"github.com/i474232898/skypulse/internal/weather"
	"github.com/i474232898/skypulse/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTP.Timeout,
	}
	httpCfg := func() providers.HTTPClientConfig {
		return providers.HTTPClientConfig{
			Client:  httpClient,
			Backoff: providers.DefaultBackoff,
			Limiter: providers.NewLimiter(cfg.OpenMeteo.RateLimit, cfg.OpenMeteo.Burst),
		}
	}

	forecasts := providers.NewOpenMeteoProvider(providers.OpenMeteoOptions{
		BaseURL:      cfg.OpenMeteo.ForecastURL,
		ForecastDays: cfg.OpenMeteo.ForecastDays,
		HTTP:         httpCfg(),
	})

	var places weather.PlaceResolver = providers.NewOpenMeteoGeocoder(cfg.OpenMeteo.GeocodingURL, httpCfg())
	if cfg.Google.APIKey != "" {
		places = providers.NewChainResolver(places, providers.NewGoogleGeocoder(cfg.Google.APIKey))
		log.Info("google reverse geocoding enabled as a fallback")
	}

	kv, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		log.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	// Core service orchestrating providers and store.
	service := weather.NewService(store.NewSnapshotStore(), forecasts, places, weather.ServiceConfig{
		Fallback: weather.Location{
			Latitude:  cfg.Fallback.Latitude,
			Longitude: cfg.Fallback.Longitude,
		},
		FallbackLabel: cfg.Fallback.Label,
		FetchTimeout:  cfg.Fetch.Timeout,
		MaxAge:        cfg.Snapshot.MaxAge,
	}, log)

	sessions := quiz.NewRegistry()
	best := quiz.NewBestScore(kv, log)

	sched := scheduler.New(service, sessions, scheduler.Config{
		RefreshInterval: cfg.Scheduler.Interval,
		RefreshTimeout:  cfg.Fetch.Timeout,
		SessionTTL:      cfg.Quiz.SessionTTL,
	}, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "skypulse",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "skypulse",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Service:   service,
		Generator: quiz.NewGenerator(nil),
		Sessions:  sessions,
		Best:      best,
		Logger:    log,
	})

	go func() {
		log.Info("server starting", "addr", cfg.GetServerAddr(), "store", cfg.Store.Driver)
		if err := app.Listen(cfg.GetServerAddr()); err != nil {
			log.Error("fiber server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("server stopped")
}
