package models

import "github.com/airvigil/airvigil/internal/subscription"

// SubscribeRequest is the request body for creating or updating an alert
// subscription.
type SubscribeRequest struct {
	Email         string                     `json:"email"`
	Threshold     int                        `json:"threshold"`
	HealthProfile subscription.HealthProfile `json:"healthProfile"`
}

// SubscribeResponse confirms a subscription was stored.
type SubscribeResponse struct {
	Message      string                     `json:"message"`
	Subscription *subscription.Subscription `json:"subscription"`
}

// UnsubscribeRequest is the request body for deactivating a subscription.
type UnsubscribeRequest struct {
	Email string `json:"email"`
}

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}
