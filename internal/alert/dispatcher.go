// Package alert decides which subscribers to notify about the current air
// quality and delivers the notifications.
package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/airvigil/airvigil/internal/mailer"
	"github.com/airvigil/airvigil/internal/reading"
	"github.com/airvigil/airvigil/internal/recommend"
	"github.com/airvigil/airvigil/internal/subscription"
)

// Cooldown is the minimum time between two alerts to the same subscriber.
// It is anchored per subscription to that subscription's own last send.
const Cooldown = 6 * time.Hour

// SelectEligible returns the subscriptions due for a notification now.
//
// A reading without an AQI yields an empty set: that is the legitimate
// "no data yet" state, not an error. Otherwise a subscription is eligible
// when it is active, its threshold is at or below the current AQI, and its
// cooldown has elapsed (or it has never been notified).
func SelectEligible(subs []subscription.Subscription, latest *reading.Reading, now time.Time) []subscription.Subscription {
	if latest == nil || latest.AQI == 0 {
		return nil
	}

	var eligible []subscription.Subscription
	for _, sub := range subs {
		if !sub.Active {
			continue
		}
		if sub.Threshold > latest.AQI {
			continue
		}
		if sub.LastNotifiedAt != nil && now.Sub(*sub.LastNotifiedAt) < Cooldown {
			continue
		}
		eligible = append(eligible, sub)
	}
	return eligible
}

// DispatcherConfig holds configuration for the dispatcher.
type DispatcherConfig struct {
	Readings      reading.Repository
	Subscriptions subscription.Repository
	Mailer        mailer.Mailer
	Logger        zerolog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Dispatcher runs alert passes: it reads the latest reading, selects
// eligible subscriptions and notifies each one.
type Dispatcher struct {
	readings      reading.Repository
	subscriptions subscription.Repository
	mailer        mailer.Mailer
	logger        zerolog.Logger
	now           func() time.Time
}

// NewDispatcher creates a new dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		readings:      cfg.Readings,
		subscriptions: cfg.Subscriptions,
		mailer:        cfg.Mailer,
		logger:        cfg.Logger,
		now:           now,
	}
}

// Run executes one dispatch pass and returns the number of notifications
// sent.
//
// The latest reading is fetched fresh at pass start, never carried across
// passes, so overlapping triggers always evaluate current data. Subscriptions
// are processed sequentially: each MarkNotified lands before the next
// subscription is considered, and a failed send leaves that subscription's
// cooldown untouched so it is retried next pass. One subscriber's failure
// never aborts the batch.
func (d *Dispatcher) Run(ctx context.Context) (int, error) {
	latest, err := d.readings.Latest(ctx)
	if err != nil {
		if errors.Is(err, reading.ErrNoReadings) {
			d.logger.Debug().Msg("no readings yet, skipping alert pass")
			return 0, nil
		}
		return 0, fmt.Errorf("load latest reading: %w", err)
	}

	subs, err := d.subscriptions.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("load subscriptions: %w", err)
	}

	now := d.now()
	eligible := SelectEligible(subs, &latest, now)
	if len(eligible) == 0 {
		return 0, nil
	}

	d.logger.Info().
		Int("aqi", latest.AQI).
		Int("eligible", len(eligible)).
		Msg("dispatching air quality alerts")

	sent := 0
	for _, sub := range eligible {
		recs := recommend.For(sub.Health, latest)
		subject, body := composeAlert(sub, latest, recs)

		if err := d.mailer.Send(ctx, sub.Email, subject, body); err != nil {
			d.logger.Error().Err(err).Str("email", sub.Email).Msg("alert email failed")
			continue
		}

		if err := d.subscriptions.MarkNotified(ctx, sub.Email, now); err != nil {
			d.logger.Error().Err(err).Str("email", sub.Email).Msg("failed to record notification time")
			continue
		}
		sent++
	}

	return sent, nil
}
