package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/airvigil/airvigil/internal/api/response"
	"github.com/airvigil/airvigil/internal/reading"
)

// SensorHandler handles sensor reading endpoints.
type SensorHandler struct {
	readings *reading.Service
}

// NewSensorHandler creates a new SensorHandler.
func NewSensorHandler(readings *reading.Service) *SensorHandler {
	return &SensorHandler{readings: readings}
}

// Upload handles POST /v1/sensors/upload - stores one sensor reading.
func (h *SensorHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var body reading.Reading
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}
	// Uploads are hardware measurements whatever the body claims.
	body.Source = reading.SourceSensor

	stored, err := h.readings.Ingest(r.Context(), body)
	if err != nil {
		response.InternalError(w, r, "failed to store sensor reading")
		return
	}

	response.Created(w, r, "/v1/sensors/latest", stored)
}

// Latest handles GET /v1/sensors/latest - returns the most recent reading.
func (h *SensorHandler) Latest(w http.ResponseWriter, r *http.Request) {
	latest, err := h.readings.Latest(r.Context())
	if err != nil {
		if errors.Is(err, reading.ErrNoReadings) {
			response.NotFound(w, r, "no sensor readings recorded yet")
			return
		}
		response.InternalError(w, r, "failed to load latest reading")
		return
	}

	response.JSON(w, r, http.StatusOK, latest)
}
