// Package weather fetches upstream pollution and weather data and folds it
// into the canonical reading stream.
package weather

// PollutantConcentrations holds the pollutant components reported by the
// upstream air pollution API. Units follow the upstream: µg/m³ for
// particulates, ppm for CO, ppb for the gases.
type PollutantConcentrations struct {
	PM25 float64
	PM10 float64
	O3   float64
	CO   float64
	SO2  float64
	NO2  float64
	NH3  float64
}

// AirPollution is one upstream air pollution observation.
type AirPollution struct {
	// AQI is the upstream's own coarse air quality index. It is only used
	// as a last-resort fallback when no index can be derived locally.
	AQI int

	Components PollutantConcentrations
}

// Conditions holds ambient weather for the configured city.
type Conditions struct {
	Temperature float64 // °C
	Humidity    float64 // %
}
