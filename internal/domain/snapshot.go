package domain

import (
	"strings"
	"time"
	_ "time/tzdata" // forecast zones are loaded by IANA name
)

const dailyDays = 5

// BuildSnapshot assembles a ForecastSnapshot from a raw payload. It is pure
// apart from the package clock, which only feeds the display date. A daily
// series shorter than five days yields a *ShapeError and no snapshot.
func BuildSnapshot(payload ForecastPayload, label string, unit UnitSystem) (ForecastSnapshot, error) {
	if err := validateDaily(payload.Daily); err != nil {
		return ForecastSnapshot{}, err
	}

	loc := payloadLocation(payload)
	cur := payload.Current
	condition, description := Classify(cur.WeatherCode, cur.IsDay != 0)

	start := SelectWindow(payload.Hourly.Time, cur.Time)

	uv := 0
	if len(payload.Daily.UVIndexMax) > 0 {
		uv = roundHalfUp(payload.Daily.UVIndexMax[0])
	}
	uvRating := RateUV(uv)
	windDirection := CardinalOf(cur.WindDirection)
	visibility := ConvertVisibility(cur.Visibility, unit)

	return ForecastSnapshot{
		Location:      label,
		Date:          clock.Now().In(loc).Format("Monday, Jan 2"),
		Temperature:   roundHalfUp(cur.Temperature),
		FeelsLike:     roundHalfUp(cur.ApparentTemperature),
		High:          roundHalfUp(payload.Daily.TemperatureMax[0]),
		Low:           roundHalfUp(payload.Daily.TemperatureMin[0]),
		Condition:          condition,
		Description:        strings.ToUpper(description),
		Icon:               condition.Icon(),
		WindSpeed:          roundHalfUp(cur.WindSpeed),
		WindDirection:      windDirection,
		WindFlowRotation:   FlowRotation(windDirection),
		Humidity:           roundHalfUp(cur.RelativeHumidity),
		DewPoint:           roundHalfUp(cur.DewPoint),
		Pressure:           roundHalfUp(cur.SurfacePressure),
		CloudCover:         roundHalfUp(cur.CloudCover),
		Visibility:         visibility,
		VisibilityAdvisory: VisibilityAdvisory(visibility, unit),
		UVIndex:            uv,
		UVLevel:            uvRating.Level,
		UVAdvice:           uvRating.Advice,
		Precipitation:      cur.Precipitation,
		Hourly:             BuildHourly(payload.Hourly, start, loc),
		Daily:              buildDaily(payload.Daily, loc),
		Units:              UnitsFor(unit),
	}, nil
}

// validateDaily checks every daily array that is indexed unconditionally.
// precipitation_sum and uv_index_max may be short; they default to 0.
func validateDaily(d DailySeries) error {
	lengths := []struct {
		field string
		n     int
	}{
		{"daily.time", len(d.Time)},
		{"daily.weather_code", len(d.WeatherCode)},
		{"daily.temperature_2m_max", len(d.TemperatureMax)},
		{"daily.temperature_2m_min", len(d.TemperatureMin)},
	}
	for _, l := range lengths {
		if l.n < dailyDays {
			return &ShapeError{Field: l.field, Want: dailyDays, Got: l.n}
		}
	}
	return nil
}

// buildDaily keeps exactly the first five days. Daily descriptions keep the
// classifier's casing and always use the daytime wording.
func buildDaily(d DailySeries, loc *time.Location) []DailyPoint {
	points := make([]DailyPoint, 0, dailyDays)
	for i := range dailyDays {
		date := time.Unix(d.Time[i], 0).In(loc)
		dayName := "Today"
		if i > 0 {
			dayName = date.Format("Mon")
		}
		condition, description := Classify(d.WeatherCode[i], true)
		points = append(points, DailyPoint{
			Date:             date.Format("Jan 2"),
			DayName:          dayName,
			TempMax:          roundHalfUp(d.TemperatureMax[i]),
			TempMin:          roundHalfUp(d.TemperatureMin[i]),
			Condition:        condition,
			Description:      description,
			Icon:             condition.Icon(),
			PrecipitationSum: valueAt(d.PrecipitationSum, i),
		})
	}
	return points
}

// payloadLocation returns the forecast's local zone. The IANA name carries
// DST transitions; utc_offset_seconds is only the offset at fetch time and is
// used when the name cannot be loaded.
func payloadLocation(p ForecastPayload) *time.Location {
	if p.Timezone == "" {
		return time.FixedZone("UTC", p.UTCOffsetSeconds)
	}
	if loc, err := time.LoadLocation(p.Timezone); err == nil {
		return loc
	}
	return time.FixedZone(p.Timezone, p.UTCOffsetSeconds)
}
