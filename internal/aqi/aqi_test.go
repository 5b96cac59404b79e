package aqi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airvigil/airvigil/internal/aqi"
)

func TestSubIndexBoundaryExactness(t *testing.T) {
	tests := []struct {
		name      string
		pollutant aqi.Pollutant
		conc      float64
		want      int
	}{
		{"pm25 top of first breakpoint", aqi.PollutantPM25, 12.0, 50},
		{"pm25 bottom of second breakpoint", aqi.PollutantPM25, 12.1, 51},
		{"pm10 top of first breakpoint", aqi.PollutantPM10, 54, 50},
		{"pm10 bottom of second breakpoint", aqi.PollutantPM10, 55, 51},
		{"o3 top of first breakpoint", aqi.PollutantO3, 54, 50},
		{"o3 bottom of second breakpoint", aqi.PollutantO3, 55, 51},
		{"co top of first breakpoint", aqi.PollutantCO, 4.4, 50},
		{"co bottom of second breakpoint", aqi.PollutantCO, 4.5, 51},
		{"so2 top of first breakpoint", aqi.PollutantSO2, 35, 50},
		{"so2 bottom of second breakpoint", aqi.PollutantSO2, 36, 51},
		{"no2 top of first breakpoint", aqi.PollutantNO2, 53, 50},
		{"no2 bottom of second breakpoint", aqi.PollutantNO2, 54, 51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aqi.SubIndex(tt.pollutant, tt.conc))
		})
	}
}

func TestSubIndexMatchesTableEndpoints(t *testing.T) {
	// Every breakpoint endpoint must map exactly onto its AQI endpoint,
	// for every pollutant and every tuple in the table.
	for _, p := range aqi.Pollutants {
		table := aqi.Breakpoints(p)
		require.NotEmpty(t, table, "pollutant %s has no breakpoint table", p)

		for _, bp := range table {
			assert.Equal(t, int(bp.AQILo), aqi.SubIndex(p, bp.ConcLo),
				"%s at lower bound %.1f", p, bp.ConcLo)
			assert.Equal(t, int(bp.AQIHi), aqi.SubIndex(p, bp.ConcHi),
				"%s at upper bound %.1f", p, bp.ConcHi)
		}
	}
}

func TestSubIndexMonotonic(t *testing.T) {
	for _, p := range aqi.Pollutants {
		prev := -1
		for c := 0.0; c <= 2100; c += 0.5 {
			idx := aqi.SubIndex(p, c)
			require.GreaterOrEqual(t, idx, prev,
				"sub-index decreased for %s at concentration %.1f", p, c)
			prev = idx
		}
	}
}

func TestSubIndexZeroConcentration(t *testing.T) {
	for _, p := range aqi.Pollutants {
		assert.Equal(t, 0, aqi.SubIndex(p, 0), "pollutant %s", p)
	}
}

func TestSubIndexNeverNegative(t *testing.T) {
	assert.Equal(t, 0, aqi.SubIndex(aqi.PollutantPM25, -3))
}

func TestSubIndexExtrapolatesBeyondTable(t *testing.T) {
	// CO above 50.4 ppm follows the last breakpoint's slope, no clamp at 500.
	high := aqi.SubIndex(aqi.PollutantCO, 60)
	assert.Greater(t, high, 500)

	// Still monotonic past the table.
	higher := aqi.SubIndex(aqi.PollutantCO, 70)
	assert.Greater(t, higher, high)
}

func TestSubIndexKnownValues(t *testing.T) {
	// Values from the alert pipeline's reference scenario.
	assert.Equal(t, 68, aqi.SubIndex(aqi.PollutantPM25, 20))
	assert.Equal(t, 56, aqi.SubIndex(aqi.PollutantCO, 5))
}

func TestOverallDominantPollutant(t *testing.T) {
	concs := map[aqi.Pollutant]float64{
		aqi.PollutantPM25: 20,
		aqi.PollutantCO:   5,
	}

	want := aqi.SubIndex(aqi.PollutantPM25, 20)
	if co := aqi.SubIndex(aqi.PollutantCO, 5); co > want {
		want = co
	}

	assert.Equal(t, want, aqi.Overall(concs))
	assert.Equal(t, 68, aqi.Overall(concs))
}

func TestOverallEmpty(t *testing.T) {
	assert.Equal(t, 0, aqi.Overall(nil))
	assert.Equal(t, 0, aqi.Overall(map[aqi.Pollutant]float64{}))
}

func TestOverallSinglePollutant(t *testing.T) {
	got := aqi.Overall(map[aqi.Pollutant]float64{aqi.PollutantSO2: 100})
	assert.Equal(t, aqi.SubIndex(aqi.PollutantSO2, 100), got)
}

func TestCategory(t *testing.T) {
	tests := []struct {
		aqi  int
		want string
	}{
		{0, "Good"},
		{50, "Good"},
		{51, "Moderate"},
		{100, "Moderate"},
		{101, "Unhealthy for Sensitive Groups"},
		{150, "Unhealthy for Sensitive Groups"},
		{151, "Unhealthy"},
		{200, "Unhealthy"},
		{201, "Very Unhealthy"},
		{300, "Very Unhealthy"},
		{301, "Hazardous"},
		{500, "Hazardous"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, aqi.Category(tt.aqi), "aqi %d", tt.aqi)
	}
}

func TestCategoryAdviceNonEmpty(t *testing.T) {
	for _, v := range []int{0, 75, 125, 175, 250, 400} {
		assert.NotEmpty(t, aqi.CategoryAdvice(v), "aqi %d", v)
	}
}
