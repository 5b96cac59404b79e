package reading

import "github.com/airvigil/airvigil/internal/aqi"

// coalesce returns the first non-zero value, or 0.
//
// A local value of exactly 0 is treated as absent and falls through to the
// upstream value. The hardware reports 0 on unwired sensor channels, so zero
// cannot be distinguished from "not measured"; this is a load-bearing quirk
// of the merge contract, not a bug.
func coalesce(local, upstream float64) float64 {
	if local != 0 {
		return local
	}
	return upstream
}

// Merge combines a locally measured reading with an upstream API reading into
// one canonical reading. Local measurements win field-by-field; every
// pollutant field is present in the output even when both sources lack it.
//
// The AQI resolves in order: the local reading's own AQI, the overall index
// computed from the merged concentrations, the upstream AQI figure, then 0.
func Merge(local, upstream Reading) Reading {
	merged := Reading{
		PM25:       coalesce(local.PM25, upstream.PM25),
		PM10:       coalesce(local.PM10, upstream.PM10),
		O3:         coalesce(local.O3, upstream.O3),
		CO:         coalesce(local.CO, upstream.CO),
		SO2:        coalesce(local.SO2, upstream.SO2),
		NO2:        coalesce(local.NO2, upstream.NO2),
		NH3:        coalesce(local.NH3, upstream.NH3),
		Methane:    coalesce(local.Methane, upstream.Methane),
		AirQuality: coalesce(local.AirQuality, upstream.AirQuality),

		Temperature: coalesce(local.Temperature, upstream.Temperature),
		Humidity:    coalesce(local.Humidity, upstream.Humidity),
	}

	switch {
	case local.AQI != 0:
		merged.AQI = local.AQI
	default:
		computed := aqi.Overall(merged.Concentrations())
		if computed != 0 {
			merged.AQI = computed
		} else {
			merged.AQI = upstream.AQI
		}
	}

	return merged
}
