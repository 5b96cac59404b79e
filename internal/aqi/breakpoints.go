// Package aqi computes EPA Air Quality Index values from raw pollutant
// concentrations using piecewise-linear breakpoint interpolation.
package aqi

// Pollutant identifies one of the tracked pollutants.
type Pollutant string

const (
	PollutantPM25 Pollutant = "pm25" // µg/m³
	PollutantPM10 Pollutant = "pm10" // µg/m³
	PollutantO3   Pollutant = "o3"   // ppb
	PollutantCO   Pollutant = "co"   // ppm
	PollutantSO2  Pollutant = "so2"  // ppb
	PollutantNO2  Pollutant = "no2"  // ppb
)

// Pollutants lists all pollutants with a breakpoint table, in the order they
// are evaluated for the overall index.
var Pollutants = []Pollutant{
	PollutantPM25,
	PollutantPM10,
	PollutantO3,
	PollutantCO,
	PollutantSO2,
	PollutantNO2,
}

// Breakpoint maps a concentration range onto an AQI range.
type Breakpoint struct {
	ConcLo float64
	ConcHi float64
	AQILo  float64
	AQIHi  float64
}

// breakpoints holds the EPA breakpoint tables. Loaded once, immutable.
// The tables for CO, SO2 and NO2 are open-ended at the top: concentrations
// above the last tuple extrapolate along that tuple's slope.
var breakpoints = map[Pollutant][]Breakpoint{
	PollutantPM25: {
		{0, 12.0, 0, 50},
		{12.1, 35.4, 51, 100},
		{35.5, 55.4, 101, 150},
		{55.5, 150.4, 151, 200},
		{150.5, 250.4, 201, 300},
		{250.5, 350.4, 301, 400},
		{350.5, 500.4, 401, 500},
	},
	PollutantPM10: {
		{0, 54, 0, 50},
		{55, 154, 51, 100},
		{155, 254, 101, 150},
		{255, 354, 151, 200},
		{355, 424, 201, 300},
		{425, 504, 301, 400},
		{505, 604, 401, 500},
	},
	PollutantO3: {
		{0, 54, 0, 50},
		{55, 70, 51, 100},
		{71, 85, 101, 150},
		{86, 105, 151, 200},
		{106, 200, 201, 300},
		{201, 504, 301, 500},
	},
	PollutantCO: {
		{0, 4.4, 0, 50},
		{4.5, 9.4, 51, 100},
		{9.5, 12.4, 101, 150},
		{12.5, 15.4, 151, 200},
		{15.5, 30.4, 201, 300},
		{30.5, 40.4, 301, 400},
		{40.5, 50.4, 401, 500},
	},
	PollutantSO2: {
		{0, 35, 0, 50},
		{36, 75, 51, 100},
		{76, 185, 101, 150},
		{186, 304, 151, 200},
		{305, 604, 201, 300},
		{605, 804, 301, 400},
		{805, 1004, 401, 500},
	},
	PollutantNO2: {
		{0, 53, 0, 50},
		{54, 100, 51, 100},
		{101, 360, 101, 150},
		{361, 649, 151, 200},
		{650, 1249, 201, 300},
		{1250, 1649, 301, 400},
		{1650, 2049, 401, 500},
	},
}

// Breakpoints returns the breakpoint table for a pollutant. The returned
// slice is shared; callers must not modify it.
func Breakpoints(p Pollutant) []Breakpoint {
	return breakpoints[p]
}
