package entity

import "time"

// WeatherRecord is an observation for one location at one instant.
type WeatherRecord struct {
	ID          string          `json:"id"`
	Location    string          `json:"location"`
	Temperature float64         `json:"temperature"`
	FeelsLike   float64         `json:"feels_like"`
	Humidity    float64         `json:"humidity"`
	Weather     string          `json:"weather"`
	Description string          `json:"description"`
	WindSpeed   float64         `json:"wind_speed"`
	Rain        float64         `json:"rain"`
	Alerts      []WeatherAlert  `json:"alerts"`
	Forecast    []ForecastEntry `json:"forecast"`
	Timestamp   time.Time       `json:"timestamp"`

	DecodeWarnings []string `json:"-"`
}

// SeverityLevel grades a stored observation. Wind is checked before rain
// before the condition group, and each threshold short-circuits, so strong
// wind with moderate rain grades on the wind alone.
func (r *WeatherRecord) SeverityLevel() string {
	if r.WindSpeed > 20 {
		return SeverityHigh
	}
	if r.WindSpeed > 15 {
		return SeverityMedium
	}
	if r.Rain > 20 {
		return SeverityHigh
	}
	if r.Rain > 10 {
		return SeverityMedium
	}
	switch r.Weather {
	case "Thunderstorm", "Squall", "Tornado":
		return SeverityHigh
	case "Rain", "Snow", "Drizzle":
		return SeverityMedium
	}
	return SeverityLow
}

// WeatherAlert is a provider-issued warning attached to an observation.
// Start and End are RFC 3339 instants, empty when the provider omits them.
type WeatherAlert struct {
	Event       string `json:"event"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

// ForecastEntry is a single 3-hour forecast slot. Precipitation is the
// probability of precipitation as a percentage, Rain the expected volume.
type ForecastEntry struct {
	Time          string  `json:"time"`
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feels_like"`
	Humidity      float64 `json:"humidity"`
	Weather       string  `json:"weather"`
	Description   string  `json:"description"`
	WindSpeed     float64 `json:"wind_speed"`
	Precipitation float64 `json:"precipitation"`
	Rain          float64 `json:"rain"`
}
