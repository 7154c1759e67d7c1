package domain

import (
	"fmt"
	"time"
)

const hourlyWindow = 24

// SelectWindow returns the index of the first sample at or after current.
// When every sample is earlier it falls back to 0 rather than failing.
func SelectWindow(times []int64, current int64) int {
	for i, ts := range times {
		if ts >= current {
			return i
		}
	}
	return 0
}

// BuildHourly takes up to 24 samples starting at start. The first one is
// labeled "NOW"; the rest use a 12-hour clock in loc. Shorter series are not padded.
func BuildHourly(series HourlySeries, start int, loc *time.Location) []HourlyPoint {
	if start < 0 || start >= len(series.Time) {
		return []HourlyPoint{}
	}
	end := min(start+hourlyWindow, len(series.Time))

	points := make([]HourlyPoint, 0, end-start)
	for i := start; i < end; i++ {
		ts := series.Time[i]
		label := "NOW"
		if i != start {
			label = hourLabel(time.Unix(ts, 0).In(loc))
		}
		points = append(points, HourlyPoint{
			Label:               label,
			Temperature:         roundHalfUp(valueAt(series.Temperature, i)),
			Timestamp:           ts,
			PrecipitationChance: roundHalfUp(valueAt(series.PrecipitationProbability, i)),
			PrecipitationAmount: valueAt(series.Precipitation, i),
			WindSpeed:           roundHalfUp(valueAt(series.WindSpeed, i)),
		})
	}
	return points
}

// hourLabel renders "12 AM", "1 PM", etc.
func hourLabel(t time.Time) string {
	h := t.Hour()
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d %s", h12, suffix)
}

// valueAt returns s[i], or 0 when the series is shorter than i.
func valueAt(s []float64, i int) float64 {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}
