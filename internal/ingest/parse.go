// Package ingest reads sensor readings from the serial-connected hardware.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/airvigil/airvigil/internal/reading"
)

// ErrEmptyLine is returned by ParseLine for blank input. Blank lines are a
// normal artifact of the hardware stream and are skipped silently.
var ErrEmptyLine = errors.New("empty line")

// flexFloat decodes a JSON number or a numeric string. The firmware emits
// some channels as quoted strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// wireReading mirrors the flat JSON object the firmware writes per line.
// Absent fields stay 0, which downstream treats as "not measured".
type wireReading struct {
	CO          flexFloat `json:"co"`
	CH4         flexFloat `json:"ch4"`
	AirQuality  flexFloat `json:"air_quality"`
	AQI         flexFloat `json:"aqi"`
	Temperature flexFloat `json:"temperature"`
	Humidity    flexFloat `json:"humidity"`
	PM25        flexFloat `json:"pm25"`
	PM10        flexFloat `json:"pm10"`
	O3          flexFloat `json:"o3"`
	SO2         flexFloat `json:"so2"`
	NO2         flexFloat `json:"no2"`
	NH3         flexFloat `json:"nh3"`
}

// ParseLine decodes one line of the hardware stream into a reading.
// Returns ErrEmptyLine for blank lines and a decode error for malformed
// ones; callers skip both without aborting the stream.
func ParseLine(line string) (reading.Reading, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return reading.Reading{}, ErrEmptyLine
	}

	var w wireReading
	if err := json.Unmarshal([]byte(line), &w); err != nil {
		return reading.Reading{}, fmt.Errorf("decoding sensor line: %w", err)
	}

	return reading.Reading{
		AQI:         int(math.Round(float64(w.AQI))),
		Temperature: float64(w.Temperature),
		Humidity:    float64(w.Humidity),
		PM25:        float64(w.PM25),
		PM10:        float64(w.PM10),
		O3:          float64(w.O3),
		CO:          float64(w.CO),
		SO2:         float64(w.SO2),
		NO2:         float64(w.NO2),
		NH3:         float64(w.NH3),
		Methane:     float64(w.CH4),
		AirQuality:  float64(w.AirQuality),
	}, nil
}
