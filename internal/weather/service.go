package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/airvigil/airvigil/internal/reading"
)

// Defaults for the monitored location.
const (
	DefaultLat  = 22.3569
	DefaultLon  = 91.7832
	DefaultCity = "Chittagong,BD"
)

// Provider is the upstream weather and pollution data source.
type Provider interface {
	// GetAirPollution fetches pollutant concentrations for a point.
	GetAirPollution(ctx context.Context, lat, lon float64) (*AirPollution, error)

	// GetCurrentWeather fetches ambient conditions for a named city.
	GetCurrentWeather(ctx context.Context, city string) (*Conditions, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the upstream data source.
	Provider Provider

	// Readings persists canonical readings and triggers alert checks.
	Readings *reading.Service

	// Logger for service operations.
	Logger zerolog.Logger

	// Lat/Lon locate the pollution fetch (default: DefaultLat/DefaultLon).
	Lat float64
	Lon float64

	// City names the weather fetch (default: DefaultCity).
	City string
}

// Service combines upstream data with the latest local sensor reading into
// one canonical reading per call.
type Service struct {
	provider Provider
	readings *reading.Service
	logger   zerolog.Logger
	lat      float64
	lon      float64
	city     string
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	lat, lon := cfg.Lat, cfg.Lon
	if lat == 0 && lon == 0 {
		lat, lon = DefaultLat, DefaultLon
	}

	city := cfg.City
	if city == "" {
		city = DefaultCity
	}

	return &Service{
		provider: cfg.Provider,
		readings: cfg.Readings,
		logger:   cfg.Logger,
		lat:      lat,
		lon:      lon,
		city:     city,
	}
}

// Current fetches pollution and weather data from the upstream, merges them
// with the most recent local sensor reading, persists the merged reading and
// returns it. Local measurements win field-by-field; persisting the reading
// also triggers an alert check.
//
// Either upstream call failing fails the whole operation. No partial merge
// is produced.
func (s *Service) Current(ctx context.Context) (reading.Reading, error) {
	var (
		wg         sync.WaitGroup
		pollution  *AirPollution
		conditions *Conditions
		pollErr    error
		weatherErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		pollution, pollErr = s.provider.GetAirPollution(ctx, s.lat, s.lon)
	}()
	go func() {
		defer wg.Done()
		conditions, weatherErr = s.provider.GetCurrentWeather(ctx, s.city)
	}()
	wg.Wait()

	if pollErr != nil {
		return reading.Reading{}, fmt.Errorf("fetching air pollution: %w", pollErr)
	}
	if weatherErr != nil {
		return reading.Reading{}, fmt.Errorf("fetching weather: %w", weatherErr)
	}

	// Only the latest hardware reading counts as local input. Feeding a
	// previously merged reading back in would let stale upstream values
	// win over fresh ones on every later fetch.
	local, err := s.readings.LatestLocal(ctx)
	if err != nil {
		if !errors.Is(err, reading.ErrNoReadings) {
			return reading.Reading{}, fmt.Errorf("loading latest sensor reading: %w", err)
		}
		local = reading.Reading{}
	}

	upstream := reading.Reading{
		AQI:         pollution.AQI,
		PM25:        pollution.Components.PM25,
		PM10:        pollution.Components.PM10,
		O3:          pollution.Components.O3,
		CO:          pollution.Components.CO,
		SO2:         pollution.Components.SO2,
		NO2:         pollution.Components.NO2,
		NH3:         pollution.Components.NH3,
		Temperature: conditions.Temperature,
		Humidity:    conditions.Humidity,
	}

	merged := reading.Merge(local, upstream)
	merged.Source = reading.SourceMerged

	stored, err := s.readings.Ingest(ctx, merged)
	if err != nil {
		return reading.Reading{}, fmt.Errorf("storing merged reading: %w", err)
	}

	s.logger.Debug().
		Str("provider", s.provider.Name()).
		Int("aqi", stored.AQI).
		Msg("merged upstream data with local reading")

	return stored, nil
}
