package domain

// Visibility below these values, in the snapshot's own unit, is flagged.
const (
	lowVisibilityKilometers = 8.0
	lowVisibilityMiles      = 5.0
)

// VisibilityAdvisory labels a visibility already converted to unit.
func VisibilityAdvisory(visibility float64, unit UnitSystem) string {
	threshold := lowVisibilityMiles
	if unit == Metric {
		threshold = lowVisibilityKilometers
	}
	if visibility < threshold {
		return "Low visibility"
	}
	return "Clear view"
}

// UVRating is the short level and advice shown next to the UV index.
type UVRating struct {
	Level  string
	Advice string
}

// RateUV buckets a rounded UV index: below 3 is Low, below 6 is Mod, the rest High.
func RateUV(uv int) UVRating {
	switch {
	case uv < 3:
		return UVRating{Level: "Low", Advice: "No protection needed"}
	case uv < 6:
		return UVRating{Level: "Mod", Advice: "Use sun protection"}
	default:
		return UVRating{Level: "High", Advice: "Use sun protection"}
	}
}
