// Package api provides the HTTP API for AirVigil.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/airvigil/airvigil/internal/api/handler"
	"github.com/airvigil/airvigil/internal/api/middleware"
	"github.com/airvigil/airvigil/internal/reading"
	"github.com/airvigil/airvigil/internal/subscription"
	"github.com/airvigil/airvigil/internal/weather"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version             string
	BuildTime           string
	Logger              zerolog.Logger
	ServiceName         string
	Metrics             *middleware.Metrics
	ReadingService      *reading.Service
	WeatherService      *weather.Service
	SubscriptionService *subscription.Service
	ReadinessChecks     map[string]handler.ReadinessCheckFunc
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "airvigil-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.ContentTypeJSON)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ReadinessChecks)
	sensorHandler := handler.NewSensorHandler(cfg.ReadingService)
	weatherHandler := handler.NewWeatherHandler(cfg.WeatherService, cfg.ReadingService)
	alertHandler := handler.NewAlertHandler(cfg.SubscriptionService)

	subscriptionRateLimit := middleware.RateLimitByIP(middleware.SubscriptionRateLimit)
	uploadRateLimit := middleware.RateLimitByIP(middleware.UploadRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		r.Route("/sensors", func(r chi.Router) {
			r.With(uploadRateLimit).Post("/upload", sensorHandler.Upload)
			r.With(standardRateLimit).Get("/latest", sensorHandler.Latest)
		})

		r.Route("/weather", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", weatherHandler.Current)
			r.Get("/historical", weatherHandler.Historical)
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Use(subscriptionRateLimit)
			r.Post("/subscribe", alertHandler.Subscribe)
			r.Post("/unsubscribe", alertHandler.Unsubscribe)
		})
	})

	return r
}
