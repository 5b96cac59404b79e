// Package subscription manages alert subscriptions and their health profiles.
package subscription

import (
	"strings"
	"time"
)

// Threshold bounds and default, in AQI units.
const (
	MinThreshold     = 50
	MaxThreshold     = 300
	DefaultThreshold = 100
)

// Severity is a subscriber's self-reported condition severity.
type Severity string

const (
	SeverityNone     Severity = "None"
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

// Valid reports whether s is a known severity level.
func (s Severity) Valid() bool {
	switch s {
	case SeverityNone, SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// Multiplier returns the sensitivity multiplier applied to every pollutant
// trigger threshold. Higher severity scales thresholds down, so alerts fire
// at lower concentrations.
func (s Severity) Multiplier() float64 {
	switch s {
	case SeveritySevere:
		return 0.7
	case SeverityModerate:
		return 0.8
	case SeverityMild:
		return 0.9
	default:
		return 1.0
	}
}

// HealthProfile is a subscriber's self-reported health information.
type HealthProfile struct {
	HasAsthma                bool `json:"hasAsthma"`
	HasAllergies             bool `json:"hasAllergies"`
	HasRespiratoryConditions bool `json:"hasRespiratoryConditions"`

	// OtherConditions is free text and may contain condition keywords
	// such as "copd", "lung" or "heart".
	OtherConditions string `json:"otherConditions"`

	ConditionSeverity Severity `json:"conditionSeverity"`
}

// Subscription is one subscriber's durable alert preferences.
//
// Email is the unique key; re-subscribing updates the existing record.
// Unsubscribing flips Active to false, the record is never hard-deleted.
type Subscription struct {
	Email          string        `json:"email"`
	Threshold      int           `json:"threshold"`
	Health         HealthProfile `json:"healthProfile"`
	Active         bool          `json:"active"`
	LastNotifiedAt *time.Time    `json:"lastNotifiedAt,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// NormalizeEmail lowercases and trims an email address for use as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
