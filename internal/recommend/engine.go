// Package recommend produces personalized air quality guidance from a
// subscriber's health profile and the current reading.
package recommend

import (
	"fmt"
	"strings"

	"github.com/airvigil/airvigil/internal/aqi"
	"github.com/airvigil/airvigil/internal/reading"
	"github.com/airvigil/airvigil/internal/subscription"
)

// Keyword lists matched case-insensitively against the free-text
// other-conditions field. Deliberately enumerable so the matching can be
// tested exhaustively.
var (
	RespiratoryKeywords = []string{"copd", "lung"}
	CardioKeywords      = []string{"heart", "cardio"}
)

// Pollutant trigger baselines. Each is scaled by the profile's severity
// multiplier before comparison, so more severe conditions alert at lower
// concentrations.
const (
	asthmaPM25Trigger = 35 // µg/m³
	asthmaO3Trigger   = 50 // ppb
	asthmaCOTrigger   = 4  // ppm

	allergyPM10Trigger     = 50 // µg/m³
	allergyHumidityTrigger = 65 // %, not severity-scaled

	respiratoryPM25Trigger = 20 // µg/m³
	respiratoryPM10Trigger = 40 // µg/m³
	respiratoryCOTrigger   = 3  // ppm
	respiratoryNO2Trigger  = 40 // ppb
	respiratorySO2Trigger  = 30 // ppb

	tempHighTrigger = 30 // °C
	tempLowTrigger  = 5  // °C
)

// For evaluates every rule against the profile and reading and returns the
// advisory list: condition-specific entries first, general AQI-category
// advice appended last, deduplicated by exact string match with
// first-occurrence order preserved. Pure function; delivery is the caller's
// concern.
func For(profile subscription.HealthProfile, r reading.Reading) []string {
	var recs []string

	mult := profile.ConditionSeverity.Multiplier()
	severity := profile.ConditionSeverity
	elevated := severity == subscription.SeverityModerate || severity == subscription.SeveritySevere

	if profile.HasAsthma {
		// PM2.5 is particularly problematic for asthma.
		if r.PM25 > asthmaPM25Trigger*mult {
			recs = append(recs, "For asthma: Consider staying indoors and having your inhaler readily available.")
			if elevated {
				recs = append(recs, "For asthma: Consider using air purifiers with HEPA filters indoors.")
			}
		}

		if r.O3 > asthmaO3Trigger*mult {
			recs = append(recs, "For asthma: Ozone levels are elevated, which may trigger symptoms. Limit outdoor activities.")
			if severity == subscription.SeveritySevere {
				recs = append(recs, "For asthma: Consider wearing an N95 mask if you must go outdoors with these ozone levels.")
			}
		}

		if r.CO > asthmaCOTrigger*mult {
			recs = append(recs, "For asthma: Current CO levels may aggravate respiratory issues. Avoid areas with vehicle exhaust or industrial emissions.")
		}
	}

	if profile.HasAllergies {
		// PM10 often carries allergens.
		if r.PM10 > allergyPM10Trigger*mult {
			recs = append(recs, "For allergies: Current particulate matter levels may carry allergens. Consider taking your allergy medication.")
			if elevated {
				recs = append(recs, "For allergies: Keep windows closed and use air conditioning with clean filters.")
			}
		}

		// High humidity promotes mold growth regardless of severity.
		if r.Humidity > allergyHumidityTrigger {
			recs = append(recs, "For allergies: High humidity levels may promote mold growth. Consider using a dehumidifier indoors.")
		}
	}

	respiratory := profile.HasRespiratoryConditions || containsAny(profile.OtherConditions, RespiratoryKeywords)
	if respiratory {
		if r.PM25 > respiratoryPM25Trigger*mult || r.PM10 > respiratoryPM10Trigger*mult {
			recs = append(recs, "For respiratory conditions: Current particulate levels are concerning. Stay indoors with windows closed.")
			if elevated {
				recs = append(recs, "For respiratory conditions: Consider using supplemental oxygen as prescribed by your doctor if symptoms worsen.")
			}
		}

		if r.CO > respiratoryCOTrigger*mult {
			recs = append(recs, "For respiratory conditions: CO levels are elevated. Avoid outdoor activities and use air purifiers indoors.")
		}

		if r.NO2 > respiratoryNO2Trigger*mult || r.SO2 > respiratorySO2Trigger*mult {
			recs = append(recs, "For respiratory conditions: Nitrogen dioxide or sulfur dioxide levels are elevated, which may exacerbate breathing difficulties.")
		}
	}

	if (profile.HasAsthma || profile.HasRespiratoryConditions) &&
		(r.Temperature > tempHighTrigger || r.Temperature < tempLowTrigger) {
		recs = append(recs, fmt.Sprintf(
			"Extreme temperatures (currently %g°C) can trigger respiratory symptoms. Maintain a comfortable indoor temperature.",
			r.Temperature,
		))
	}

	if containsAny(profile.OtherConditions, CardioKeywords) {
		recs = append(recs, "For cardiovascular conditions: Particulate pollution can affect heart health. Consider limiting physical exertion outdoors.")
		if r.AQI > 100 {
			recs = append(recs, "For heart conditions: These air quality levels are associated with increased risk of cardiovascular events. Monitor your symptoms closely.")
		}
	}

	recs = append(recs, aqi.CategoryAdvice(r.AQI)...)

	return dedupe(recs)
}

// containsAny reports whether the free text contains any keyword,
// case-insensitively.
func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// dedupe removes exact duplicates, keeping the first occurrence of each.
func dedupe(recs []string) []string {
	seen := make(map[string]struct{}, len(recs))
	out := recs[:0]
	for _, rec := range recs {
		if _, ok := seen[rec]; ok {
			continue
		}
		seen[rec] = struct{}{}
		out = append(out, rec)
	}
	return out
}
