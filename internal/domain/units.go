package domain

import (
	"fmt"
	"math"
	"strings"
)

// UnitSystem selects display units for one fetch.
type UnitSystem string

const (
	Imperial UnitSystem = "imperial"
	Metric   UnitSystem = "metric"
)

const (
	metersPerMile      = 1609.34
	metersPerKilometer = 1000.0
)

// Units records the display units a snapshot was fetched in.
type Units struct {
	Temperature   string `json:"temperature"`
	Speed         string `json:"speed"`
	Precipitation string `json:"precipitation"`
}

// ParseUnitSystem accepts "imperial" or "metric" (case-insensitive).
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch UnitSystem(strings.ToLower(strings.TrimSpace(s))) {
	case Imperial:
		return Imperial, nil
	case Metric:
		return Metric, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
}

// UnitsFor returns the display units for a unit system. Anything other than
// metric is treated as imperial.
func UnitsFor(system UnitSystem) Units {
	if system == Metric {
		return Units{Temperature: "°C", Speed: "km/h", Precipitation: "mm"}
	}
	return Units{Temperature: "°F", Speed: "mph", Precipitation: `"`}
}

// QueryParams returns the Open-Meteo unit parameters that make the API return
// temperature, wind and precipitation already converted.
func (u UnitSystem) QueryParams() map[string]string {
	if u == Metric {
		return map[string]string{
			"wind_speed_unit":    "kmh",
			"temperature_unit":   "celsius",
			"precipitation_unit": "mm",
		}
	}
	return map[string]string{
		"wind_speed_unit":    "mph",
		"temperature_unit":   "fahrenheit",
		"precipitation_unit": "inch",
	}
}

// ConvertVisibility converts meters to miles (imperial) or kilometers (metric),
// rounded to one decimal place. Input is assumed non-negative.
func ConvertVisibility(meters float64, system UnitSystem) float64 {
	divisor := metersPerMile
	if system == Metric {
		divisor = metersPerKilometer
	}
	return roundTo1(meters / divisor)
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
