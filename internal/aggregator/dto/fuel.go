package dto

import (
	"golang-lanka-watch/internal/entity"
)

type FuelLatestResponse struct {
	Data      *entity.FuelPriceRecord `json:"data"`
	Timestamp string                  `json:"timestamp"`
}

type FuelStatsResponse struct {
	Stats     *entity.FuelStats `json:"stats"`
	Timestamp string            `json:"timestamp"`
}

type FuelTrendResponse struct {
	Trend     *entity.FuelTrend `json:"trend"`
	Timestamp string            `json:"timestamp"`
}

// FuelScrapeResponse reports a manually triggered scrape. PriceChanges is
// keyed by grade and compares the two most recent sheets.
type FuelScrapeResponse struct {
	Success      bool                              `json:"success"`
	Message      string                            `json:"message"`
	RecordID     string                            `json:"record_id"`
	LatestDate   string                            `json:"latest_date"`
	PriceChanges map[string]entity.FuelPriceChange `json:"price_changes"`
	Timestamp    string                            `json:"timestamp"`
}

// FuelTrendSummary is the fitted movement of one grade over the analysis
// window.
type FuelTrendSummary struct {
	CurrentPrice float64 `json:"current_price"`
	Trend        string  `json:"trend"`
	SlopePerDay  float64 `json:"slope_per_day"`
	Volatility   float64 `json:"volatility"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	Change30d    float64 `json:"change_30d"`
}

// FuelRecommendation is an operational suggestion derived from a trend.
type FuelRecommendation struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Impact  string `json:"impact"`
	Action  string `json:"action"`
}

type FuelAnalysis struct {
	Trends          map[string]FuelTrendSummary `json:"trends"`
	Volatility      map[string]float64          `json:"volatility"`
	Recommendations []FuelRecommendation        `json:"recommendations"`
}

type FuelPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type FuelAnalyzeResponse struct {
	Analysis   FuelAnalysis `json:"analysis"`
	DataPoints int          `json:"data_points"`
	Period     FuelPeriod   `json:"period"`
	Timestamp  string       `json:"timestamp"`
}
