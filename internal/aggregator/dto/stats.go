package dto

import (
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/ratelimit"
)

// BannerResponse is the API front page served at the root path.
type BannerResponse struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Description      string            `json:"description"`
	Features         map[string]string `json:"features"`
	Endpoints        map[string]string `json:"endpoints"`
	DistrictsCovered []string          `json:"districts_covered"`
	Timestamp        string            `json:"timestamp"`
}

// APIStatus flags which external collaborators are configured.
type APIStatus struct {
	Weather     bool `json:"weather"`
	Twitter     bool `json:"twitter"`
	FuelScraper bool `json:"fuel_scraper"`
}

type DistrictsInfo struct {
	Total int      `json:"total"`
	List  []string `json:"list"`
}

// StatisticsResponse is the store-wide aggregate: row counts, category and
// severity breakdowns, and the fuel summary when fuel data exists.
type StatisticsResponse struct {
	Timestamp        string            `json:"timestamp"`
	StorageType      string            `json:"storage_type"`
	TotalNews        int               `json:"total_news"`
	NewsByCategory   map[string]int    `json:"news_by_category"`
	TotalTweets      int               `json:"total_tweets"`
	TotalWeather     int               `json:"total_weather"`
	ActiveAlerts     int               `json:"active_alerts"`
	AlertsBySeverity map[string]int    `json:"alerts_by_severity"`
	TotalFuelPrices  int               `json:"total_fuel_prices"`
	FuelStats        *entity.FuelStats `json:"fuel_stats,omitempty"`
	APIs             APIStatus         `json:"apis"`
	Districts        DistrictsInfo     `json:"districts"`
}

type HealthDataSummary struct {
	TotalNews       int `json:"total_news"`
	TotalTweets     int `json:"total_tweets"`
	TotalWeather    int `json:"total_weather"`
	TotalFuelPrices int `json:"total_fuel_prices"`
	ActiveAlerts    int `json:"active_alerts"`
}

type DistrictsMonitored struct {
	Count int      `json:"count"`
	List  []string `json:"list"`
}

type HealthResponse struct {
	Status                string                            `json:"status"`
	Storage               string                            `json:"storage"`
	UptimeSeconds         int64                             `json:"uptime_seconds"`
	Timestamp             string                            `json:"timestamp"`
	FileStatus            map[string]entity.TableFileStatus `json:"file_status"`
	DistrictWeatherStatus map[string]bool                   `json:"district_weather_status"`
	DataSummary           HealthDataSummary                 `json:"data_summary"`
	APIsConfigured        APIStatus                         `json:"apis_configured"`
	DistrictsMonitored    DistrictsMonitored                `json:"districts_monitored"`
}

type TwitterStatsResponse struct {
	Stats     ratelimit.UsageStats `json:"stats"`
	Timestamp string               `json:"timestamp"`
}

type ClassifyRequest struct {
	Text string `json:"text"`
}

type ClassifyResponse struct {
	entity.Classification
	Timestamp string `json:"timestamp"`
}

// LocationEntry is one gazetteer row. Coordinates are only pinned for the
// monitored districts.
type LocationEntry struct {
	Name string   `json:"name"`
	Type string   `json:"type"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
}

type LocationsResponse struct {
	Count     int             `json:"count"`
	Locations []LocationEntry `json:"locations"`
	Timestamp string          `json:"timestamp"`
}

type BackupResponse struct {
	Success   bool   `json:"success"`
	BackupDir string `json:"backup_dir"`
	Timestamp string `json:"timestamp"`
}
