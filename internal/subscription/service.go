package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/airvigil/airvigil/internal/aqi"
	"github.com/airvigil/airvigil/internal/mailer"
)

// Validation errors.
var (
	ErrEmailRequired       = errors.New("email is required")
	ErrThresholdOutOfRange = fmt.Errorf("threshold must be between %d and %d", MinThreshold, MaxThreshold)
	ErrInvalidSeverity     = errors.New("unknown condition severity")
)

// ServiceConfig holds configuration for the subscription service.
type ServiceConfig struct {
	Repository Repository
	Mailer     mailer.Mailer
	Logger     zerolog.Logger

	// From is the sender shown on confirmation emails.
	From string
}

// Service implements the subscribe and unsubscribe flows.
type Service struct {
	repo   Repository
	mailer mailer.Mailer
	logger zerolog.Logger
}

// NewService creates a new subscription service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		mailer: cfg.Mailer,
		logger: cfg.Logger,
	}
}

// SubscribeRequest carries the preferences for a new or updated subscription.
type SubscribeRequest struct {
	Email     string
	Threshold int // 0 means DefaultThreshold
	Health    HealthProfile
}

// Subscribe creates or updates the subscription for the given email.
// Re-subscribing re-activates an inactive subscription and replaces its
// preferences; the email key never gets a duplicate row. The confirmation
// email goes out only after the write succeeds, and a failed send does not
// fail the subscription.
func (s *Service) Subscribe(ctx context.Context, req SubscribeRequest) (*Subscription, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, ErrEmailRequired
	}

	threshold := req.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if threshold < MinThreshold || threshold > MaxThreshold {
		return nil, ErrThresholdOutOfRange
	}

	health := req.Health
	if health.ConditionSeverity == "" {
		health.ConditionSeverity = SeverityNone
	}
	if !health.ConditionSeverity.Valid() {
		return nil, ErrInvalidSeverity
	}

	sub := &Subscription{
		Email:     NormalizeEmail(req.Email),
		Threshold: threshold,
		Health:    health,
		Active:    true,
	}

	if err := s.repo.Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}

	if err := s.mailer.Send(ctx, sub.Email, confirmationSubject, confirmationBody(sub)); err != nil {
		s.logger.Error().Err(err).Str("email", sub.Email).Msg("confirmation email failed")
	}

	return sub, nil
}

// Unsubscribe deactivates the subscription for the given email. The record
// is kept so notification history survives.
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	return s.repo.SetActive(ctx, email, false)
}

const confirmationSubject = "Air Quality Alert Subscription Confirmation"

// confirmationBody renders the confirmation email, including the subscriber's
// health profile summary when one was supplied.
func confirmationBody(sub *Subscription) string {
	var b strings.Builder

	b.WriteString("<div style=\"font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;\">\n")
	b.WriteString("<h2>Subscription Confirmed</h2>\n")
	fmt.Fprintf(&b, "<p>Thank you for subscribing to air quality alerts. You will receive personalized notifications when the AQI exceeds %d.</p>\n", sub.Threshold)
	fmt.Fprintf(&b, "<p>Current threshold: <strong>%d</strong> (%s)</p>\n", sub.Threshold, aqi.Category(sub.Threshold))

	if conditions := profileSummary(sub.Health); conditions != "" {
		b.WriteString("<div style=\"margin-top: 15px; padding: 10px; background-color: #f8f9fa;\">\n")
		fmt.Fprintf(&b, "<p><strong>Health Profile:</strong> %s</p>\n", conditions)
		if sub.Health.ConditionSeverity != SeverityNone {
			fmt.Fprintf(&b, "<p><strong>Severity:</strong> %s</p>\n", sub.Health.ConditionSeverity)
		}
		b.WriteString("<p>Your alerts will be personalized based on these health conditions.</p>\n</div>\n")
	}

	b.WriteString("<p>Stay healthy!</p>\n</div>")
	return b.String()
}

func profileSummary(h HealthProfile) string {
	var conditions []string
	if h.HasAsthma {
		conditions = append(conditions, "Asthma")
	}
	if h.HasAllergies {
		conditions = append(conditions, "Allergies")
	}
	if h.HasRespiratoryConditions {
		conditions = append(conditions, "Respiratory conditions")
	}
	if h.OtherConditions != "" {
		conditions = append(conditions, h.OtherConditions)
	}
	return strings.Join(conditions, ", ")
}
