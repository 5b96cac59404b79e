package aqi

import "math"

// linearScale maps a concentration onto an AQI range by linear interpolation,
// rounded to the nearest integer.
func linearScale(c, concLo, concHi, aqiLo, aqiHi float64) int {
	return int(math.Round((aqiHi-aqiLo)/(concHi-concLo)*(c-concLo) + aqiLo))
}

// SubIndex computes the AQI implied by a single pollutant's concentration.
//
// The first breakpoint whose upper bound covers the concentration is used.
// Concentrations above the last tabulated breakpoint extrapolate along that
// breakpoint's own slope rather than clamping; the EPA tables for CO, SO2
// and NO2 are deliberately open-ended at the top. Concentrations below the
// table interpolate against the first breakpoint and never go negative.
func SubIndex(p Pollutant, c float64) int {
	table, ok := breakpoints[p]
	if !ok {
		return 0
	}

	bp := table[len(table)-1]
	for _, b := range table {
		if c <= b.ConcHi {
			bp = b
			break
		}
	}

	idx := linearScale(c, bp.ConcLo, bp.ConcHi, bp.AQILo, bp.AQIHi)
	if idx < 0 {
		return 0
	}
	return idx
}

// Overall computes the overall AQI for a set of pollutant concentrations.
// The overall index is the maximum sub-index across the pollutants present
// (the dominant-pollutant rule); an empty input yields 0.
func Overall(concs map[Pollutant]float64) int {
	overall := 0
	for _, p := range Pollutants {
		c, ok := concs[p]
		if !ok {
			continue
		}
		if idx := SubIndex(p, c); idx > overall {
			overall = idx
		}
	}
	return overall
}
