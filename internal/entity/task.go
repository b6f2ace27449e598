package entity

// TaskType identifies a scheduled collector task.
type TaskType string

const (
	TaskCollectNews       TaskType = "collect_news"
	TaskCollectWeather    TaskType = "collect_weather"
	TaskCollectTweets     TaskType = "collect_tweets"
	TaskCollectFuelPrices TaskType = "collect_fuel_prices"
	TaskGenerateAlerts    TaskType = "generate_alerts"
	TaskCleanupData       TaskType = "cleanup_data"
)

// Task run status values used in logs and metrics.
const (
	TaskStatusSuccess = "success"
	TaskStatusFailed  = "failed"
)

// CleanupSummary reports what a retention pass changed.
type CleanupSummary struct {
	WeatherRemoved    int `json:"weather_removed"`
	TweetsRemoved     int `json:"tweets_removed"`
	AlertsDeactivated int `json:"alerts_deactivated"`
}

// TableFileStatus describes the on-disk state of one table file.
type TableFileStatus struct {
	Exists   bool `json:"exists"`
	Readable bool `json:"readable"`
	Lines    int  `json:"lines"`
}
