package reading_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/airvigil/airvigil/internal/reading"
)

func TestMergeLocalWins(t *testing.T) {
	merged := reading.Merge(
		reading.Reading{PM25: 40},
		reading.Reading{PM25: 10},
	)
	assert.Equal(t, 40.0, merged.PM25)
}

func TestMergeZeroIsAbsent(t *testing.T) {
	// A local 0 means the sensor channel is unwired, not a measurement of 0.
	merged := reading.Merge(
		reading.Reading{PM25: 0},
		reading.Reading{PM25: 10},
	)
	assert.Equal(t, 10.0, merged.PM25)
}

func TestMergeUpstreamFallback(t *testing.T) {
	merged := reading.Merge(reading.Reading{}, reading.Reading{PM25: 10})
	assert.Equal(t, 10.0, merged.PM25)
}

func TestMergeBothAbsentYieldsZero(t *testing.T) {
	merged := reading.Merge(reading.Reading{}, reading.Reading{})

	assert.Zero(t, merged.PM25)
	assert.Zero(t, merged.PM10)
	assert.Zero(t, merged.O3)
	assert.Zero(t, merged.CO)
	assert.Zero(t, merged.SO2)
	assert.Zero(t, merged.NO2)
	assert.Zero(t, merged.NH3)
	assert.Zero(t, merged.AQI)
}

func TestMergeFieldByField(t *testing.T) {
	local := reading.Reading{PM25: 0, CO: 5, Temperature: 28}
	upstream := reading.Reading{PM25: 20, CO: 0, Humidity: 70}

	merged := reading.Merge(local, upstream)

	assert.Equal(t, 20.0, merged.PM25)
	assert.Equal(t, 5.0, merged.CO)
	assert.Equal(t, 28.0, merged.Temperature)
	assert.Equal(t, 70.0, merged.Humidity)
}

func TestMergeComputesAQIFromMergedConcentrations(t *testing.T) {
	// subIndex(pm25=20)=68 dominates subIndex(co=5)=56.
	merged := reading.Merge(
		reading.Reading{PM25: 0, CO: 5},
		reading.Reading{PM25: 20, CO: 0},
	)
	assert.Equal(t, 68, merged.AQI)
}

func TestMergeAQIPrecedence(t *testing.T) {
	t.Run("local aqi wins over computed", func(t *testing.T) {
		merged := reading.Merge(
			reading.Reading{AQI: 42, PM25: 200},
			reading.Reading{},
		)
		assert.Equal(t, 42, merged.AQI)
	})

	t.Run("computed wins over upstream aqi", func(t *testing.T) {
		merged := reading.Merge(
			reading.Reading{PM25: 20},
			reading.Reading{AQI: 3},
		)
		assert.Equal(t, 68, merged.AQI)
	})

	t.Run("upstream aqi when nothing to compute", func(t *testing.T) {
		merged := reading.Merge(
			reading.Reading{},
			reading.Reading{AQI: 3},
		)
		assert.Equal(t, 3, merged.AQI)
	})
}
