package domain

import "math"

var cardinals = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CardinalOf maps a compass bearing to one of eight cardinal labels.
// Bearings outside [0, 360) are normalized first.
func CardinalOf(degrees float64) string {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	return cardinals[int(math.Floor(d/45+0.5))%len(cardinals)]
}

// FlowRotation converts a "from" cardinal into the bearing the wind flows to.
// Unknown labels are treated as N.
func FlowRotation(cardinal string) int {
	from := 0
	for i, c := range cardinals {
		if c == cardinal {
			from = i * 45
			break
		}
	}
	return (from + 180) % 360
}
