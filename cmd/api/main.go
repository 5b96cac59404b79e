// Package main provides the entrypoint for the AirVigil API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/airvigil/airvigil/internal/alert"
	"github.com/airvigil/airvigil/internal/api"
	"github.com/airvigil/airvigil/internal/api/handler"
	"github.com/airvigil/airvigil/internal/api/middleware"
	"github.com/airvigil/airvigil/internal/database"
	"github.com/airvigil/airvigil/internal/ingest"
	"github.com/airvigil/airvigil/internal/mailer"
	"github.com/airvigil/airvigil/internal/provider/resilience"
	"github.com/airvigil/airvigil/internal/reading"
	"github.com/airvigil/airvigil/internal/subscription"
	"github.com/airvigil/airvigil/internal/telemetry"
	"github.com/airvigil/airvigil/internal/weather"
	"github.com/airvigil/airvigil/internal/weather/openweathermap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "airvigil-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting AirVigil API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database schema")
	}

	// Repositories
	readingRepo := reading.NewPostgresRepository(pool)
	subscriptionRepo := subscription.NewPostgresRepository(pool)

	// Outbound email
	smtpMailer := mailer.NewSMTPMailer(mailer.ConfigFromEnv())

	// Alert dispatch: the scheduler serializes passes fired by new readings
	// and by the periodic ticker.
	dispatcher := alert.NewDispatcher(alert.DispatcherConfig{
		Readings:      readingRepo,
		Subscriptions: subscriptionRepo,
		Mailer:        smtpMailer,
		Logger:        log,
	})
	scheduler := alert.NewScheduler(alert.SchedulerConfig{
		Dispatcher: dispatcher,
		Logger:     log,
	})

	readingService := reading.NewService(reading.ServiceConfig{
		Repository: readingRepo,
		Logger:     log,
		OnStored:   scheduler.Trigger,
	})

	subscriptionService := subscription.NewService(subscription.ServiceConfig{
		Repository: subscriptionRepo,
		Mailer:     smtpMailer,
		Logger:     log,
	})
	log.Info().Msg("subscription service initialized")

	// Upstream weather provider
	owmClient := openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey: os.Getenv("OPENWEATHERMAP_API_KEY"),
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name: openweathermap.ProviderName,
		}),
		Logger: log,
	})
	if os.Getenv("OPENWEATHERMAP_API_KEY") == "" {
		log.Warn().Msg("OPENWEATHERMAP_API_KEY not set - weather endpoint will fail")
	}

	lat, lon := weather.DefaultLat, weather.DefaultLon
	if v, err := strconv.ParseFloat(os.Getenv("LOCATION_LAT"), 64); err == nil {
		lat = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("LOCATION_LON"), 64); err == nil {
		lon = v
	}

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: owmClient,
		Readings: readingService,
		Logger:   log,
		Lat:      lat,
		Lon:      lon,
		City:     os.Getenv("CITY_NAME"),
	})
	log.Info().Msg("weather service initialized")

	// Background workers
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	go scheduler.Run(workerCtx)

	ingestor := ingest.NewIngestor(ingest.Config{
		PortName: os.Getenv("SERIAL_PORT"),
		Readings: readingService,
		Logger:   log,
	})
	go func() {
		_ = ingestor.Run(workerCtx)
	}()

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:             Version,
		BuildTime:           BuildTime,
		Logger:              log,
		ServiceName:         serviceName,
		Metrics:             metrics,
		ReadingService:      readingService,
		WeatherService:      weatherService,
		SubscriptionService: subscriptionService,
		ReadinessChecks: map[string]handler.ReadinessCheckFunc{
			"database": pool.Ping,
		},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	stopWorkers()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
