// Package reading provides the canonical sensor reading model, the merge
// rules combining local and upstream measurements, and reading persistence.
package reading

import (
	"time"

	"github.com/airvigil/airvigil/internal/aqi"
)

// Source identifies where a reading came from.
type Source string

const (
	// SourceSensor marks a reading measured by the local hardware.
	SourceSensor Source = "sensor"

	// SourceMerged marks a canonical reading produced by merging upstream
	// API data with the latest sensor reading. Merged readings never feed
	// back into a later merge; only sensor readings count as local input.
	SourceMerged Source = "merged"
)

// Reading is a point-in-time environmental measurement. A zero value on any
// measurement field means the field was not measured; the local hardware
// reports 0 for sensor channels that are not wired.
//
// Once persisted a Reading is immutable. New measurements always create a new
// Reading.
type Reading struct {
	// Source tells sensor readings apart from merged ones. Assigned at
	// ingest, never by clients.
	Source Source `json:"source,omitempty"`

	// AQI is the overall air quality index, 0 when not yet derived.
	AQI int `json:"aqi"`

	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // %

	PM25 float64 `json:"pm25"` // µg/m³
	PM10 float64 `json:"pm10"` // µg/m³
	O3   float64 `json:"o3"`   // ppb
	CO   float64 `json:"co"`   // ppm
	SO2  float64 `json:"so2"`  // ppb
	NO2  float64 `json:"no2"`  // ppb
	NH3  float64 `json:"nh3"`  // ppb

	// Methane and AirQuality are raw values from the local gas sensors.
	Methane    float64 `json:"methane"`
	AirQuality float64 `json:"airQuality"`

	// Timestamp is assigned at insert and never changes.
	Timestamp time.Time `json:"timestamp"`
}

// Concentrations returns the pollutant fields that carry breakpoint tables,
// for overall AQI computation.
func (r Reading) Concentrations() map[aqi.Pollutant]float64 {
	return map[aqi.Pollutant]float64{
		aqi.PollutantPM25: r.PM25,
		aqi.PollutantPM10: r.PM10,
		aqi.PollutantO3:   r.O3,
		aqi.PollutantCO:   r.CO,
		aqi.PollutantSO2:  r.SO2,
		aqi.PollutantNO2:  r.NO2,
	}
}

// DailyAQI is one day's average AQI for the history chart.
type DailyAQI struct {
	Date string `json:"date"`
	AQI  int    `json:"aqi"`
}
