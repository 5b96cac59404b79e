package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/airvigil/airvigil/internal/api/models"
	"github.com/airvigil/airvigil/internal/api/response"
	"github.com/airvigil/airvigil/internal/subscription"
)

// AlertHandler handles alert subscription endpoints.
type AlertHandler struct {
	subscriptions *subscription.Service
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(subscriptions *subscription.Service) *AlertHandler {
	return &AlertHandler{subscriptions: subscriptions}
}

// Subscribe handles POST /v1/alerts/subscribe - creates or updates an alert
// subscription. Re-subscribing with an existing email updates the record
// and re-activates it.
func (h *AlertHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var body models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	sub, err := h.subscriptions.Subscribe(r.Context(), subscription.SubscribeRequest{
		Email:     body.Email,
		Threshold: body.Threshold,
		Health:    body.HealthProfile,
	})
	if err != nil {
		if fieldErrs := subscribeFieldErrors(err); fieldErrs != nil {
			response.BadRequest(w, r, "invalid subscription request", fieldErrs)
			return
		}
		response.InternalError(w, r, "failed to save subscription")
		return
	}

	response.Created(w, r, "", models.SubscribeResponse{
		Message:      "Successfully subscribed to air quality alerts",
		Subscription: sub,
	})
}

// Unsubscribe handles POST /v1/alerts/unsubscribe - deactivates a
// subscription. The record is kept; only the active flag flips.
func (h *AlertHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var body models.UnsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	err := h.subscriptions.Unsubscribe(r.Context(), body.Email)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrEmailRequired):
			response.BadRequest(w, r, "invalid unsubscribe request", []models.FieldError{
				{Field: "email", Message: "is required"},
			})
		case errors.Is(err, subscription.ErrNotFound):
			response.NotFound(w, r, "no subscription found for this email")
		default:
			response.InternalError(w, r, "failed to unsubscribe")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, models.MessageResponse{
		Message: "Successfully unsubscribed from air quality alerts",
	})
}

// subscribeFieldErrors maps subscription validation errors to field errors,
// or returns nil for non-validation failures.
func subscribeFieldErrors(err error) []models.FieldError {
	switch {
	case errors.Is(err, subscription.ErrEmailRequired):
		return []models.FieldError{{Field: "email", Message: "is required"}}
	case errors.Is(err, subscription.ErrThresholdOutOfRange):
		return []models.FieldError{{Field: "threshold", Message: err.Error()}}
	case errors.Is(err, subscription.ErrInvalidSeverity):
		return []models.FieldError{{Field: "healthProfile.conditionSeverity", Message: err.Error()}}
	default:
		return nil
	}
}
