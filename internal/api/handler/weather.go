package handler

import (
	"net/http"
	"strconv"

	"github.com/airvigil/airvigil/internal/api/response"
	"github.com/airvigil/airvigil/internal/reading"
	"github.com/airvigil/airvigil/internal/weather"
)

// WeatherHandler handles merged weather/pollution endpoints.
type WeatherHandler struct {
	weather  *weather.Service
	readings *reading.Service
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(weatherSvc *weather.Service, readings *reading.Service) *WeatherHandler {
	return &WeatherHandler{weather: weatherSvc, readings: readings}
}

// Current handles GET /v1/weather - fetches upstream data, merges it with
// the latest local reading and returns the canonical reading.
func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	merged, err := h.weather.Current(r.Context())
	if err != nil {
		response.ServiceUnavailable(w, r, "failed to fetch weather data")
		return
	}

	response.JSON(w, r, http.StatusOK, merged)
}

// Historical handles GET /v1/weather/historical - daily AQI averages over
// the trailing window. An optional "days" query parameter narrows the
// window below the 30-day default.
func (h *WeatherHandler) Historical(w http.ResponseWriter, r *http.Request) {
	days := reading.DefaultHistoryWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > reading.DefaultHistoryWindowDays {
			response.BadRequest(w, r, "days must be an integer between 1 and 30", nil)
			return
		}
		days = parsed
	}

	daily, err := h.readings.History(r.Context(), days)
	if err != nil {
		response.InternalError(w, r, "failed to load historical data")
		return
	}

	if daily == nil {
		daily = []reading.DailyAQI{}
	}
	response.JSON(w, r, http.StatusOK, daily)
}
