package alert

import (
	"fmt"
	"strings"

	"github.com/airvigil/airvigil/internal/aqi"
	"github.com/airvigil/airvigil/internal/reading"
	"github.com/airvigil/airvigil/internal/subscription"
)

// composeAlert renders the alert email for one subscriber. The subject
// embeds the literal current AQI; the body carries the category label, the
// AQI and threshold, the current pollutant readings and the ordered
// recommendation list.
func composeAlert(sub subscription.Subscription, r reading.Reading, recs []string) (subject, body string) {
	subject = fmt.Sprintf("ALERT: Air Quality Index Has Reached %d", r.AQI)

	var b strings.Builder
	b.WriteString("<div style=\"font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;\">\n")
	b.WriteString("<h2>Air Quality Alert</h2>\n")
	fmt.Fprintf(&b,
		"<p>The Air Quality Index (AQI) in your area has reached <strong>%d</strong>, which is considered <strong>%s</strong>.</p>\n",
		r.AQI, aqi.Category(r.AQI))
	fmt.Fprintf(&b, "<p>This exceeds your alert threshold of %d.</p>\n", sub.Threshold)

	b.WriteString("<h3>Current Readings:</h3>\n<table style=\"width: 100%; border-collapse: collapse;\">\n")
	b.WriteString("<tr><th align=\"left\">Pollutant</th><th align=\"left\">Value</th></tr>\n")
	writeRow(&b, "Temperature", r.Temperature, "°C")
	writeRow(&b, "Humidity", r.Humidity, "%")
	writeRow(&b, "PM2.5", r.PM25, "µg/m³")
	writeRow(&b, "PM10", r.PM10, "µg/m³")
	writeRow(&b, "Ozone (O₃)", r.O3, "ppb")
	writeRow(&b, "Carbon Monoxide (CO)", r.CO, "ppm")
	writeRow(&b, "Sulfur Dioxide (SO₂)", r.SO2, "ppb")
	writeRow(&b, "Nitrogen Dioxide (NO₂)", r.NO2, "ppb")
	b.WriteString("</table>\n")

	b.WriteString("<h3>Personalized Recommendations:</h3>\n<ul>\n")
	for _, rec := range recs {
		fmt.Fprintf(&b, "<li>%s</li>\n", rec)
	}
	b.WriteString("</ul>\n")

	b.WriteString("<p>This is an automated alert from your air quality monitoring system.</p>\n")
	b.WriteString("<p style=\"font-size: 0.8em; color: #888;\">To change your alert settings or unsubscribe, visit the dashboard.</p>\n")
	b.WriteString("</div>")

	return subject, b.String()
}

func writeRow(b *strings.Builder, label string, value float64, unit string) {
	fmt.Fprintf(b, "<tr><td>%s</td><td>%g %s</td></tr>\n", label, value, unit)
}
