package reading

import (
	"math"
	"time"
)

// DefaultHistoryWindowDays is the default lookback for the history chart.
const DefaultHistoryWindowDays = 30

// AggregateDaily buckets readings by calendar day and averages AQI per
// bucket. Input must already be sorted ascending by timestamp; bucket order
// follows first encounter, so chronological input yields chronological
// buckets. Readings without an AQI count as 0 in their day's average.
func AggregateDaily(readings []Reading, now time.Time, windowDays int) []DailyAQI {
	cutoff := now.AddDate(0, 0, -windowDays)

	type bucket struct {
		count int
		total int
	}
	byDay := make(map[string]*bucket)
	var order []string

	for _, r := range readings {
		if r.Timestamp.Before(cutoff) {
			continue
		}

		day := r.Timestamp.Format("Jan 2")
		b, ok := byDay[day]
		if !ok {
			b = &bucket{}
			byDay[day] = b
			order = append(order, day)
		}
		b.count++
		b.total += r.AQI
	}

	out := make([]DailyAQI, 0, len(order))
	for _, day := range order {
		b := byDay[day]
		out = append(out, DailyAQI{
			Date: day,
			AQI:  int(math.Round(float64(b.total) / float64(b.count))),
		})
	}
	return out
}
