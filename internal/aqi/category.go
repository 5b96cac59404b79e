package aqi

// Category returns the EPA category label for an overall AQI value.
func Category(aqi int) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive Groups"
	case aqi <= 200:
		return "Unhealthy"
	case aqi <= 300:
		return "Very Unhealthy"
	default:
		return "Hazardous"
	}
}

// CategoryAdvice returns the general, severity-independent guidance for an
// overall AQI value. These lines are appended after any personalized
// recommendations in alert emails.
func CategoryAdvice(aqi int) []string {
	switch {
	case aqi <= 50:
		return []string{
			"Air quality is good, with minimal risk from pollution. Enjoy outdoor activities.",
		}
	case aqi <= 100:
		return []string{
			"Air quality is acceptable. Unusually sensitive people should consider reducing prolonged outdoor exertion.",
		}
	case aqi <= 150:
		return []string{
			"Members of sensitive groups may experience health effects. Reduce prolonged or heavy outdoor exertion.",
			"Sensitive groups should watch for symptoms such as coughing or shortness of breath.",
		}
	case aqi <= 200:
		return []string{
			"Everyone may begin to experience health effects. Avoid prolonged or heavy outdoor exertion.",
			"Sensitive groups should watch for symptoms such as coughing or shortness of breath.",
		}
	case aqi <= 300:
		return []string{
			"Health alert: the risk of health effects is increased for everyone. Avoid all outdoor exertion.",
			"Consider moving activities indoors and keep windows closed.",
		}
	default:
		return []string{
			"Health warning of emergency conditions: everyone is more likely to be affected. Remain indoors.",
			"Keep windows closed and run air purifiers if available.",
		}
	}
}
