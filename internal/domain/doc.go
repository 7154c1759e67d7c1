// Package domain turns Open-Meteo geocoding and forecast payloads into the
// ForecastSnapshot view model consumed by the dashboard.
//
// # Data Source
//
// Place names are resolved with the Open-Meteo geocoding API
// (https://geocoding-api.open-meteo.com/v1/search) and forecasts come from
// https://api.open-meteo.com/v1/forecast, requested with timeformat=unixtime
// and timezone=auto. Hourly and daily series arrive as parallel arrays indexed
// by time; current conditions arrive as scalars.
//
// # Units
//
// Temperature, wind speed and precipitation are requested pre-converted in the
// selected unit system, so the only local conversion is visibility, which the
// API always reports in meters:
//
//	imperial: °F, mph, inches (")   visibility in miles (m / 1609.34)
//	metric:   °C, km/h, mm          visibility in km    (m / 1000)
//
// Switching unit systems therefore means fetching a new snapshot rather than
// converting an existing one.
//
// # Weather Codes
//
// Condition codes follow the WMO present-weather table. Classification is
// deliberately coarse (six categories) and evaluated top-to-bottom:
//
//	0        Clear         "Sunny" by day, "Clear" at night
//	1-3      Clouds        "Cloudy"
//	45, 48   Mist          "Fog"
//	51-57    Rain          "Drizzle"
//	61-67    Rain          "Rain"   (also 80-82 showers)
//	71-77    Snow          "Snow"   (also 85-86 snow showers)
//	>=95     Thunderstorm  "Storm"
//
// Anything else degrades to Clear/"Clear" without an error.
//
// # Time
//
// Labels are rendered in the forecast location's local time using the
// utc_offset_seconds the API returns. The hourly window starts at the first
// sample at or after current.time; when no such sample exists it starts at
// index 0. Rounding follows round-half-up (floor(x + 0.5)) for every integer
// field.
package domain
