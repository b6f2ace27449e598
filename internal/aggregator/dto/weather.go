package dto

import (
	"time"

	"golang-lanka-watch/internal/entity"
)

// Coordinates is a map position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WeatherResponse is one observation plus its provenance. HourlyForecast is
// only populated when the caller asked for forecast data.
type WeatherResponse struct {
	entity.WeatherRecord
	Source         string                 `json:"source"`
	HourlyForecast []entity.ForecastEntry `json:"hourly_forecast,omitempty"`
}

// DistrictWeatherEntry pairs a district with its observation in the
// all-districts listing.
type DistrictWeatherEntry struct {
	District string               `json:"district"`
	Weather  entity.WeatherRecord `json:"weather"`
	Source   string               `json:"source"`
}

type DistrictsWeatherResponse struct {
	Count          int                    `json:"count"`
	TotalDistricts int                    `json:"total_districts"`
	Districts      []DistrictWeatherEntry `json:"districts"`
	Note           string                 `json:"note"`
	Timestamp      string                 `json:"timestamp"`
}

// RefreshAllRequest carries the optional pacing hint for a bulk refresh.
type RefreshAllRequest struct {
	Delay float64 `json:"delay"`
}

type RefreshedDistrict struct {
	District    string  `json:"district"`
	Temperature float64 `json:"temperature"`
	Weather     string  `json:"weather"`
}

type RefreshAllResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Collected []RefreshedDistrict `json:"collected"`
	Failed    []string            `json:"failed"`
	TotalTime string              `json:"total_time"`
	Timestamp string              `json:"timestamp"`
}

// DistrictConditions is one district's slice of the cross-district summary.
type DistrictConditions struct {
	Temperature float64 `json:"temperature"`
	Weather     string  `json:"weather"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	AlertsCount int     `json:"alerts_count"`
}

// RangeStat aggregates one measurement across districts.
type RangeStat struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// WeatherSummary aggregates the latest stored observation per district.
// Statistics is keyed by measurement (temperature, humidity, wind_speed)
// and stays empty when no district has data.
type WeatherSummary struct {
	TotalDistricts      int                           `json:"total_districts"`
	DistrictsWithData   int                           `json:"districts_with_data"`
	DistrictsWithAlerts int                           `json:"districts_with_alerts"`
	Districts           map[string]DistrictConditions `json:"districts"`
	Statistics          map[string]RangeStat          `json:"statistics"`
}

type WeatherSummaryResponse struct {
	Summary       WeatherSummary `json:"summary"`
	DistrictsList []string       `json:"districts_list"`
	Timestamp     string         `json:"timestamp"`
}

// FreshWeather is the payload served when a district detail request went to
// the provider instead of the store.
type FreshWeather struct {
	Current  *entity.WeatherRecord  `json:"current"`
	Forecast []entity.ForecastEntry `json:"forecast"`
	Alerts   []entity.WeatherAlert  `json:"alerts"`
}

// DistrictDetailResponse carries either a stored record or a FreshWeather
// payload in Data, with Source telling them apart.
type DistrictDetailResponse struct {
	District    string      `json:"district"`
	Coordinates Coordinates `json:"coordinates"`
	Source      string      `json:"source"`
	Data        interface{} `json:"data"`
	Timestamp   string      `json:"timestamp"`
}

// MapConditions trims an observation down to what the map overlay renders.
type MapConditions struct {
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Rain        float64 `json:"rain"`
}

// MapDistrict is one pin on the district map. Weather and Updated are null
// for districts with no stored observation yet.
type MapDistrict struct {
	Name        string         `json:"name"`
	Coordinates Coordinates    `json:"coordinates"`
	Weather     *MapConditions `json:"weather"`
	AlertsCount int            `json:"alerts_count"`
	Updated     *time.Time     `json:"updated"`
	Source      string         `json:"source"`
}

type WeatherMapResponse struct {
	MapData        []MapDistrict `json:"map_data"`
	TotalDistricts int           `json:"total_districts"`
	Note           string        `json:"note"`
	Timestamp      string        `json:"timestamp"`
}

type WeatherDebugResponse struct {
	Status              string                `json:"status"`
	TestLocation        string                `json:"test_location"`
	Result              *entity.WeatherRecord `json:"result"`
	APIKeyConfigured    bool                  `json:"api_key_configured"`
	APIKeyLength        int                   `json:"api_key_length"`
	DistrictsConfigured int                   `json:"districts_configured"`
	DistrictsList       []string              `json:"districts_list"`
	Timestamp           string                `json:"timestamp"`
}

// CoordinatesRequest locates the caller for point lookups.
type CoordinatesRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CurrentWeatherResponse struct {
	Current        *entity.WeatherRecord  `json:"current"`
	HourlyForecast []entity.ForecastEntry `json:"hourly_forecast"`
	Alerts         []entity.WeatherAlert  `json:"alerts"`
	Timestamp      string                 `json:"timestamp"`
}
