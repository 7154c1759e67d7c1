package domain

// ConditionCategory is the coarse condition that drives the dashboard theme.
type ConditionCategory string

const (
	Clear        ConditionCategory = "Clear"
	Clouds       ConditionCategory = "Clouds"
	Mist         ConditionCategory = "Mist"
	Rain         ConditionCategory = "Rain"
	Thunderstorm ConditionCategory = "Thunderstorm"
	Snow         ConditionCategory = "Snow"
)

// Icon returns the Material Symbols name used for the category on detail cards.
func (c ConditionCategory) Icon() string {
	switch c {
	case Clouds:
		return "cloud"
	case Mist:
		return "foggy"
	case Rain:
		return "rainy"
	case Thunderstorm:
		return "thunderstorm"
	case Snow:
		return "ac_unit"
	default:
		return "wb_sunny"
	}
}

// conditionRule is one row of the WMO classification table. Night only
// differs from day for clear skies.
type conditionRule struct {
	match    func(code int) bool
	category ConditionCategory
	day      string
	night    string
}

func between(lo, hi int) func(int) bool {
	return func(code int) bool { return code >= lo && code <= hi }
}

func anyOf(preds ...func(int) bool) func(int) bool {
	return func(code int) bool {
		for _, p := range preds {
			if p(code) {
				return true
			}
		}
		return false
	}
}

// conditionRules is evaluated top-to-bottom; the first match wins.
var conditionRules = []conditionRule{
	{match: between(0, 0), category: Clear, day: "Sunny", night: "Clear"},
	{match: between(1, 3), category: Clouds, day: "Cloudy", night: "Cloudy"},
	{match: anyOf(between(45, 45), between(48, 48)), category: Mist, day: "Fog", night: "Fog"},
	{match: between(51, 57), category: Rain, day: "Drizzle", night: "Drizzle"},
	{match: anyOf(between(61, 67), between(80, 82)), category: Rain, day: "Rain", night: "Rain"},
	{match: anyOf(between(71, 77), between(85, 86)), category: Snow, day: "Snow", night: "Snow"},
	{match: func(code int) bool { return code >= 95 }, category: Thunderstorm, day: "Storm", night: "Storm"},
}

var defaultCondition = conditionRule{category: Clear, day: "Clear", night: "Clear"}

// Classify maps a WMO weather code to a condition category and short
// description. Unmapped codes fall back to Clear/"Clear".
func Classify(code int, isDaytime bool) (ConditionCategory, string) {
	rule := defaultCondition
	for _, r := range conditionRules {
		if r.match(code) {
			rule = r
			break
		}
	}
	if isDaytime {
		return rule.category, rule.day
	}
	return rule.category, rule.night
}
