package config

import (
	"time"

	"golang-lanka-watch/pkg/config"
)

// Scheduler holds the collector scheduling configuration.
type Scheduler struct {
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	RunAllOnStart bool          `mapstructure:"run_all_on_start"`
	RetentionDays int           `mapstructure:"retention_days"`
	BackupOnClean bool          `mapstructure:"backup_on_clean"`

	NewsInterval      time.Duration `mapstructure:"news_interval"`
	WeatherInterval   time.Duration `mapstructure:"weather_interval"`
	TwitterInterval   time.Duration `mapstructure:"twitter_interval"`
	FuelInterval      time.Duration `mapstructure:"fuel_interval"`
	AlertsInterval    time.Duration `mapstructure:"alerts_interval"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	CleanupCron       string        `mapstructure:"cleanup_cron"`
	FuelCron          string        `mapstructure:"fuel_cron"`
}

// News holds news collection configuration.
type News struct {
	AdaDeranaBaseURL string   `mapstructure:"adaderana_base_url"`
	RSSFeeds         []string `mapstructure:"rss_feeds"`
	MaxPerRun        int      `mapstructure:"max_per_run"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
}

// Weather holds OpenWeatherMap configuration.
type Weather struct {
	APIKey    string   `mapstructure:"api_key"`
	BaseURL   string   `mapstructure:"base_url"`
	Districts []string `mapstructure:"districts"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// Twitter holds Twitter API configuration with its usage quotas.
type Twitter struct {
	BearerToken  string        `mapstructure:"bearer_token"`
	Queries      []string      `mapstructure:"queries"`
	MaxPerRun    int           `mapstructure:"max_per_run"`
	MonthlyLimit int           `mapstructure:"monthly_limit"`
	DailyLimit   int           `mapstructure:"daily_limit"`
	MinInterval  time.Duration `mapstructure:"min_interval"`
	UsageFile    string        `mapstructure:"usage_file"`
}

// Fuel holds Ceypetco scraper configuration.
type Fuel struct {
	CeypetcoURL    string        `mapstructure:"ceypetco_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Classifier selects the classification strategy.
type Classifier struct {
	Provider string `mapstructure:"provider"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the aggregator service.
type Config struct {
	App        config.App     `mapstructure:"app"`
	Logger     config.Logger  `mapstructure:"logger"`
	API        config.API     `mapstructure:"api"`
	Storage    config.Storage `mapstructure:"storage"`
	Scheduler  Scheduler      `mapstructure:"scheduler"`
	News       News           `mapstructure:"news"`
	Weather    Weather        `mapstructure:"weather"`
	Twitter    Twitter        `mapstructure:"twitter"`
	Fuel       Fuel           `mapstructure:"fuel"`
	Gemini     Gemini         `mapstructure:"gemini"`
	Classifier Classifier     `mapstructure:"classifier"`
	Telegram   Telegram       `mapstructure:"telegram"`
}

// Load loads the aggregator configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
