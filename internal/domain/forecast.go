package domain

// ForecastPayload is the subset of the Open-Meteo /v1/forecast response the
// dashboard consumes. Timestamps are unix seconds (timeformat=unixtime).
type ForecastPayload struct {
	Latitude         float64           `json:"latitude"`
	Longitude        float64           `json:"longitude"`
	Timezone         string            `json:"timezone"`
	UTCOffsetSeconds int               `json:"utc_offset_seconds"`
	Current          CurrentConditions `json:"current"`
	Hourly           HourlySeries      `json:"hourly"`
	Daily            DailySeries       `json:"daily"`
}

// CurrentConditions holds the scalar fields under "current".
type CurrentConditions struct {
	Time                int64   `json:"time"`
	Temperature         float64 `json:"temperature_2m"`
	RelativeHumidity    float64 `json:"relative_humidity_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	WeatherCode         int     `json:"weather_code"`
	SurfacePressure     float64 `json:"surface_pressure"`
	WindSpeed           float64 `json:"wind_speed_10m"`
	WindDirection       float64 `json:"wind_direction_10m"`
	IsDay               int     `json:"is_day"`
	DewPoint            float64 `json:"dew_point_2m"`
	Visibility          float64 `json:"visibility"` // always meters
	CloudCover          float64 `json:"cloud_cover"`
	Precipitation       float64 `json:"precipitation"`
}

// HourlySeries holds the parallel arrays under "hourly". JSON nulls decode to 0.
type HourlySeries struct {
	Time                     []int64   `json:"time"`
	Temperature              []float64 `json:"temperature_2m"`
	WeatherCode              []int     `json:"weather_code"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
	Precipitation            []float64 `json:"precipitation"`
	WindSpeed                []float64 `json:"wind_speed_10m"`
}

// DailySeries holds the parallel arrays under "daily".
type DailySeries struct {
	Time             []int64   `json:"time"`
	WeatherCode      []int     `json:"weather_code"`
	TemperatureMax   []float64 `json:"temperature_2m_max"`
	TemperatureMin   []float64 `json:"temperature_2m_min"`
	UVIndexMax       []float64 `json:"uv_index_max"`
	PrecipitationSum []float64 `json:"precipitation_sum"`
}

// HourlyPoint is one entry of the 24-hour strip.
type HourlyPoint struct {
	Label               string  `json:"label"` // "NOW" or "3 PM"
	Temperature         int     `json:"temperature"`
	Timestamp           int64   `json:"timestamp"`
	PrecipitationChance int     `json:"precipitationChance"` // 0-100
	PrecipitationAmount float64 `json:"precipitationAmount"`
	WindSpeed           int     `json:"windSpeed"`
}

// DailyPoint is one day of the five-day outlook.
type DailyPoint struct {
	Date             string            `json:"date"`    // "Oct 15"
	DayName          string            `json:"dayName"` // "Today", "Fri", ...
	TempMax          int               `json:"tempMax"`
	TempMin          int               `json:"tempMin"`
	Condition        ConditionCategory `json:"condition"`
	Description      string            `json:"description"`
	Icon             string            `json:"icon"`
	PrecipitationSum float64           `json:"precipitationSum"`
}

// ForecastSnapshot is the complete view model produced by one fetch. It is
// replaced wholesale on the next successful fetch and never updated in place.
type ForecastSnapshot struct {
	Location           string            `json:"location"`
	Date               string            `json:"date"`
	Temperature        int               `json:"temperature"`
	FeelsLike          int               `json:"feelsLike"`
	High               int               `json:"high"`
	Low                int               `json:"low"`
	Condition          ConditionCategory `json:"condition"`
	Description        string            `json:"description"`
	Icon               string            `json:"icon"`
	WindSpeed          int               `json:"windSpeed"`
	WindDirection      string            `json:"windDirection"`
	WindFlowRotation   int               `json:"windFlowRotation"` // degrees the wind blows toward
	Humidity           int               `json:"humidity"`
	DewPoint           int               `json:"dewPoint"`
	Pressure           int               `json:"pressure"`
	CloudCover         int               `json:"cloudCover"`
	Visibility         float64           `json:"visibility"`
	VisibilityAdvisory string            `json:"visibilityAdvisory"`
	UVIndex            int               `json:"uvIndex"`
	UVLevel            string            `json:"uvLevel"`
	UVAdvice           string            `json:"uvAdvice"`
	Precipitation      float64           `json:"precipitation"`
	Hourly             []HourlyPoint     `json:"hourly"`
	Daily              []DailyPoint      `json:"daily"`
	Units              Units             `json:"units"`
}

// Clone returns a deep copy so callers cannot mutate a stored snapshot's series.
func (s ForecastSnapshot) Clone() ForecastSnapshot {
	out := s
	out.Hourly = append([]HourlyPoint(nil), s.Hourly...)
	out.Daily = append([]DailyPoint(nil), s.Daily...)
	return out
}
