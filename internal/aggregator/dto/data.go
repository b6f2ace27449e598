package dto

import (
	"golang-lanka-watch/internal/entity"
)

// CurrentLocationRequest names the caller's position. District and City take
// precedence over raw coordinates when both are present. The coordinates are
// pointers so an absent field is distinguishable from zero.
type CurrentLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      string   `json:"city"`
	District  string   `json:"district"`
}

type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationInfo echoes how the request location was resolved.
type LocationInfo struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Source      string  `json:"source"`
	Coordinates *LatLng `json:"coordinates,omitempty"`
}

type LocationWeather struct {
	Current  *entity.WeatherRecord  `json:"current"`
	Forecast []entity.ForecastEntry `json:"forecast"`
}

// CurrentLocationData bundles everything known about one location. The full
// news and tweet counts are reported even though the lists are capped.
type CurrentLocationData struct {
	Weather     *LocationWeather        `json:"weather"`
	NewsCount   int                     `json:"news_count"`
	News        []entity.NewsItem       `json:"news"`
	AlertsCount int                     `json:"alerts_count"`
	Alerts      []entity.Alert          `json:"alerts"`
	TweetsCount int                     `json:"tweets_count"`
	Tweets      []entity.Tweet          `json:"tweets"`
	FuelPrices  *entity.FuelPriceRecord `json:"fuel_prices"`
}

type CurrentLocationResponse struct {
	Success      bool                `json:"success"`
	LocationInfo LocationInfo        `json:"location_info"`
	Data         CurrentLocationData `json:"data"`
	Timestamp    string              `json:"timestamp"`
}

type DataSummaryCounts struct {
	TotalNews24h              int  `json:"total_news_24h"`
	TotalAlertsActive         int  `json:"total_alerts_active"`
	TotalTweets24h            int  `json:"total_tweets_24h"`
	WeatherDistrictsMonitored int  `json:"weather_districts_monitored"`
	FuelPricesAvailable       bool `json:"fuel_prices_available"`
}

type DataDistribution struct {
	NewsByCategory   map[string]int `json:"news_by_category"`
	AlertsBySeverity map[string]int `json:"alerts_by_severity"`
}

type DataWeatherSummary struct {
	DistrictsMonitored int      `json:"districts_monitored"`
	TotalDistricts     int      `json:"total_districts"`
	SampleDistricts    []string `json:"sample_districts"`
}

type DataSummaryResponse struct {
	Summary        DataSummaryCounts               `json:"summary"`
	Distribution   DataDistribution                `json:"distribution"`
	SampleWeather  map[string]entity.WeatherRecord `json:"sample_weather"`
	FuelPrices     *entity.FuelPriceRecord         `json:"fuel_prices"`
	WeatherSummary DataWeatherSummary              `json:"weather_summary"`
	DistrictsList  []string                        `json:"districts_list"`
	Timestamp      string                          `json:"timestamp"`
}
