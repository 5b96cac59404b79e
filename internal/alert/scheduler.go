package alert

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultCheckInterval is the periodic safety-net cadence between dispatch
// passes, catching anything the reactive trigger missed (for example a
// silent hardware channel).
const DefaultCheckInterval = 15 * time.Minute

// SchedulerConfig holds configuration for the scheduler.
type SchedulerConfig struct {
	Dispatcher *Dispatcher
	Logger     zerolog.Logger

	// CheckInterval overrides the periodic cadence (default 15 minutes).
	CheckInterval time.Duration
}

// Scheduler serializes dispatch passes. Two producers feed it: Trigger,
// called after each persisted reading, and an internal ticker. The trigger
// channel has capacity one, so bursts of triggers coalesce into a single
// pending pass, and the single consumer goroutine guarantees no two passes
// ever run concurrently.
type Scheduler struct {
	dispatcher *Dispatcher
	logger     zerolog.Logger
	interval   time.Duration
	trigger    chan struct{}
}

// NewScheduler creates a new scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	interval := cfg.CheckInterval
	if interval == 0 {
		interval = DefaultCheckInterval
	}
	return &Scheduler{
		dispatcher: cfg.Dispatcher,
		logger:     cfg.Logger,
		interval:   interval,
		trigger:    make(chan struct{}, 1),
	}
}

// Trigger requests a dispatch pass. Never blocks: if a pass is already
// pending the request coalesces with it. The pass that eventually runs reads
// the latest reading fresh, so coalescing loses nothing.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run consumes triggers and the periodic tick until the context is canceled.
// Intended to run in its own goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.trigger:
		case <-ticker.C:
		}

		sent, err := s.dispatcher.Run(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("alert dispatch pass failed")
			continue
		}
		if sent > 0 {
			s.logger.Info().Int("sent", sent).Msg("alert notifications sent")
		}
	}
}
