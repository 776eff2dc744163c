package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/api/http"
	"github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/climate"
	"github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/climate/providers"
	"github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/config"
	"github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/scheduler"
	"github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/store"
)

func main() {
	// Load configuration; config.Load picks up .env if present.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls; per-provider deadlines
	// are applied via context, so no client-level timeout here.
	httpClient := &http.Client{}

	// Optional Postgres archive; the in-memory archive backs key-less runs.
	var archive climate.Archive
	if cfg.DatabaseURL != "" {
		pgArchive, err := store.NewPostgresArchive(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to open report archive: %v", err)
		}
		defer pgArchive.Close()
		archive = pgArchive
	} else {
		log.Println("INFO: DATABASE_URL not set; using in-memory report archive")
		archive = store.NewMemoryArchive()
	}

	// Core service orchestrating the three providers, analyzers, and caches.
	service := climate.NewService(
		providers.NewPowerProvider(httpClient, cfg.LookbackYears),
		providers.NewOpenMeteoSeasonalProvider(httpClient),
		providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey),
		archive,
		cfg.HotCacheTTL,
		cfg.ReportCacheTTL,
	)

	// Scheduler that keeps tracked locations' reports warm.
	sched := scheduler.New(cfg.TrackedLocations, cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "agroclimate",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          120 * time.Second, // a cold analysis waits on chunked fetches
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
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

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "agroclimate",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
