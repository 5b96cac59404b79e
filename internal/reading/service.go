package reading

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the reading service.
type ServiceConfig struct {
	// Repository is the reading store.
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger

	// OnStored, if set, is called after each successful insert. The alert
	// scheduler hooks in here to trigger a dispatch pass.
	OnStored func()
}

// Service persists readings and serves the read paths.
type Service struct {
	repo     Repository
	logger   zerolog.Logger
	onStored func()
}

// NewService creates a new reading service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:     cfg.Repository,
		logger:   cfg.Logger,
		onStored: cfg.OnStored,
	}
}

// Ingest persists a reading and fires the stored hook. If the insert fails
// the hook does not fire: a reading that was never persisted can never become
// "latest", so there is nothing to alert on.
func (s *Service) Ingest(ctx context.Context, r Reading) (Reading, error) {
	if r.Source == "" {
		r.Source = SourceSensor
	}

	stored, err := s.repo.Insert(ctx, r)
	if err != nil {
		return Reading{}, fmt.Errorf("insert reading: %w", err)
	}

	s.logger.Debug().
		Int("aqi", stored.AQI).
		Float64("pm25", stored.PM25).
		Float64("co", stored.CO).
		Time("timestamp", stored.Timestamp).
		Msg("reading stored")

	if s.onStored != nil {
		s.onStored()
	}
	return stored, nil
}

// Latest returns the most recently persisted reading.
func (s *Service) Latest(ctx context.Context) (Reading, error) {
	return s.repo.Latest(ctx)
}

// LatestLocal returns the most recent sensor reading. Merged readings are
// skipped so upstream data merged earlier never masquerades as a local
// measurement.
func (s *Service) LatestLocal(ctx context.Context) (Reading, error) {
	return s.repo.LatestLocal(ctx)
}

// History returns per-day average AQI over the given window.
func (s *Service) History(ctx context.Context, windowDays int) ([]DailyAQI, error) {
	if windowDays <= 0 {
		windowDays = DefaultHistoryWindowDays
	}

	now := time.Now()
	readings, err := s.repo.Range(ctx, now.AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, fmt.Errorf("load readings: %w", err)
	}

	return AggregateDaily(readings, now, windowDays), nil
}
