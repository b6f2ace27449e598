package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"golang-lanka-watch/internal/aggregator/config"
	"golang-lanka-watch/internal/aggregator/dto"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/utils"
)

const (
	openWeatherGeoURL     = "http://api.openweathermap.org/geo/1.0/direct"
	openWeatherOneCallURL = "https://api.openweathermap.org/data/3.0/onecall"
)

// DistrictWeather pairs a storable observation with the severity of current
// conditions. The severity drives severe weather alerts and is not
// persisted with the record.
type DistrictWeather struct {
	Record          entity.WeatherRecord
	CurrentSeverity string
}

type OpenWeatherRepository interface {
	IsConfigured() bool
	GetDistrictWeather(ctx context.Context, district string) (*DistrictWeather, error)
	// GetAllDistrictsWeather fetches every configured district, skipping
	// the ones whose current conditions cannot be fetched.
	GetAllDistrictsWeather(ctx context.Context) ([]DistrictWeather, error)
	// GetCurrentWeather fetches current conditions only, without forecast
	// or provider alerts.
	GetCurrentWeather(ctx context.Context, location string) (*entity.WeatherRecord, error)
	// GetCurrentByCoordinates is GetCurrentWeather for a point, naming the
	// location from the provider response.
	GetCurrentByCoordinates(ctx context.Context, lat, lon float64) (*entity.WeatherRecord, error)
	GetForecast(ctx context.Context, location string) ([]entity.ForecastEntry, error)
	GetForecastByCoordinates(ctx context.Context, lat, lon float64) ([]entity.ForecastEntry, error)
	GetWeatherAlerts(ctx context.Context, location string) ([]entity.WeatherAlert, error)
}

type openWeatherRepository struct {
	apiKey     string
	baseURL    string
	districts  []string
	httpClient *http.Client
	limiter    *rate.Limiter
	geoCache   *cache.Cache
	logger     *logger.Logger
}

func NewOpenWeatherRepository(cfg *config.Config, log *logger.Logger) OpenWeatherRepository {
	ttl := cfg.Weather.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &openWeatherRepository{
		apiKey:     cfg.Weather.APIKey,
		baseURL:    cfg.Weather.BaseURL,
		districts:  cfg.Weather.Districts,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(1200*time.Millisecond), 1),
		geoCache:   cache.New(ttl, ttl),
		logger:     log,
	}
}

func (r *openWeatherRepository) IsConfigured() bool {
	return r.apiKey != ""
}

func (r *openWeatherRepository) GetDistrictWeather(ctx context.Context, district string) (*DistrictWeather, error) {
	record, severity, err := r.fetchCurrent(ctx, placeQuery(district), district)
	if err != nil {
		return nil, err
	}

	forecast, err := r.GetForecast(ctx, district)
	if err != nil {
		r.logger.Warn("failed to get forecast",
			logger.StringField("district", district), logger.ErrorField(err))
	}
	record.Forecast = forecast

	alerts, err := r.GetWeatherAlerts(ctx, district)
	if err != nil {
		r.logger.Warn("failed to get weather alerts",
			logger.StringField("district", district), logger.ErrorField(err))
	}
	record.Alerts = alerts

	return &DistrictWeather{Record: *record, CurrentSeverity: severity}, nil
}

func (r *openWeatherRepository) GetCurrentWeather(ctx context.Context, location string) (*entity.WeatherRecord, error) {
	record, _, err := r.fetchCurrent(ctx, placeQuery(location), location)
	return record, err
}

func (r *openWeatherRepository) GetCurrentByCoordinates(ctx context.Context, lat, lon float64) (*entity.WeatherRecord, error) {
	record, _, err := r.fetchCurrent(ctx, coordinateQuery(lat, lon), "")
	return record, err
}

// fetchCurrent resolves current conditions for either lookup style. An empty
// location falls back to the name reported by the provider.
func (r *openWeatherRepository) fetchCurrent(ctx context.Context, query, location string) (*entity.WeatherRecord, string, error) {
	var current dto.OpenWeatherCurrentResponse
	currentURL := fmt.Sprintf("%s/weather?%s&appid=%s&units=metric", r.baseURL, query, r.apiKey)
	if err := r.getJSON(ctx, currentURL, &current); err != nil {
		if location == "" {
			location = "current location"
		}
		return nil, "", fmt.Errorf("failed to get current weather for %s: %w", location, err)
	}
	if location == "" {
		location = current.Name
	}

	record := entity.WeatherRecord{
		Location:    location,
		Temperature: current.Main.Temp,
		FeelsLike:   current.Main.FeelsLike,
		Humidity:    current.Main.Humidity,
		Weather:     conditionMain(current.Weather),
		Description: conditionDescription(current.Weather),
		WindSpeed:   current.Wind.Speed,
		Rain:        current.Rain.OneHour,
		Timestamp:   time.Unix(current.Dt, 0),
	}
	severity := weatherSeverity(record.Weather, conditionID(current.Weather),
		record.Rain, current.Snow.OneHour, record.WindSpeed)
	return &record, severity, nil
}

func (r *openWeatherRepository) GetAllDistrictsWeather(ctx context.Context) ([]DistrictWeather, error) {
	results := make([]DistrictWeather, 0, len(r.districts))
	for _, district := range r.districts {
		if !utils.ShouldContinue(ctx, r.logger) {
			break
		}
		dw, err := r.GetDistrictWeather(ctx, district)
		if err != nil {
			r.logger.Warn("skipping district",
				logger.StringField("district", district), logger.ErrorField(err))
			continue
		}
		results = append(results, *dw)
	}
	return results, nil
}

func (r *openWeatherRepository) GetForecast(ctx context.Context, location string) ([]entity.ForecastEntry, error) {
	return r.fetchForecast(ctx, placeQuery(location))
}

func (r *openWeatherRepository) GetForecastByCoordinates(ctx context.Context, lat, lon float64) ([]entity.ForecastEntry, error) {
	return r.fetchForecast(ctx, coordinateQuery(lat, lon))
}

func (r *openWeatherRepository) fetchForecast(ctx context.Context, query string) ([]entity.ForecastEntry, error) {
	var resp dto.OpenWeatherForecastResponse
	forecastURL := fmt.Sprintf("%s/forecast?%s&appid=%s&units=metric", r.baseURL, query, r.apiKey)
	if err := r.getJSON(ctx, forecastURL, &resp); err != nil {
		return nil, err
	}

	items := resp.List
	if len(items) > 16 {
		items = items[:16]
	}
	forecast := make([]entity.ForecastEntry, 0, len(items))
	for _, item := range items {
		forecast = append(forecast, entity.ForecastEntry{
			Time:          time.Unix(item.Dt, 0).Format(time.RFC3339),
			Temperature:   item.Main.Temp,
			FeelsLike:     item.Main.FeelsLike,
			Humidity:      item.Main.Humidity,
			Weather:       conditionMain(item.Weather),
			Description:   conditionDescription(item.Weather),
			WindSpeed:     item.Wind.Speed,
			Precipitation: item.Pop * 100,
			Rain:          item.Rain.ThreeHour,
		})
	}
	return forecast, nil
}

func (r *openWeatherRepository) GetWeatherAlerts(ctx context.Context, location string) ([]entity.WeatherAlert, error) {
	lat, lon, err := r.geocode(ctx, location)
	if err != nil {
		return nil, err
	}

	var resp dto.OpenWeatherOneCallResponse
	oneCallURL := fmt.Sprintf("%s?lat=%f&lon=%f&exclude=minutely,daily&appid=%s",
		openWeatherOneCallURL, lat, lon, r.apiKey)
	if err := r.getJSON(ctx, oneCallURL, &resp); err != nil {
		return nil, err
	}

	alerts := make([]entity.WeatherAlert, 0, len(resp.Alerts))
	for _, a := range resp.Alerts {
		alert := entity.WeatherAlert{
			Event:       a.Event,
			Description: a.Description,
			Severity:    alertSeverity(a.Event),
		}
		if a.Start > 0 {
			alert.Start = time.Unix(a.Start, 0).Format(time.RFC3339)
		}
		if a.End > 0 {
			alert.End = time.Unix(a.End, 0).Format(time.RFC3339)
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

func (r *openWeatherRepository) geocode(ctx context.Context, district string) (float64, float64, error) {
	if v, ok := r.geoCache.Get(district); ok {
		coords := v.([2]float64)
		return coords[0], coords[1], nil
	}

	var entries []dto.OpenWeatherGeocodeEntry
	geoURL := fmt.Sprintf("%s?q=%s,LK&limit=1&appid=%s",
		openWeatherGeoURL, url.QueryEscape(district), r.apiKey)
	if err := r.getJSON(ctx, geoURL, &entries); err != nil {
		return 0, 0, err
	}
	if len(entries) == 0 {
		return 0, 0, fmt.Errorf("no coordinates found for %s", district)
	}

	r.geoCache.SetDefault(district, [2]float64{entries[0].Lat, entries[0].Lon})
	return entries[0].Lat, entries[0].Lon, nil
}

func (r *openWeatherRepository) getJSON(ctx context.Context, requestURL string, out interface{}) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openweathermap returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, out)
}

func placeQuery(location string) string {
	return fmt.Sprintf("q=%s,LK", url.QueryEscape(location))
}

func coordinateQuery(lat, lon float64) string {
	return fmt.Sprintf("lat=%f&lon=%f", lat, lon)
}

func conditionMain(conditions []dto.OpenWeatherCondition) string {
	if len(conditions) == 0 {
		return ""
	}
	return conditions[0].Main
}

func conditionDescription(conditions []dto.OpenWeatherCondition) string {
	if len(conditions) == 0 {
		return ""
	}
	return conditions[0].Description
}

func conditionID(conditions []dto.OpenWeatherCondition) int {
	if len(conditions) == 0 {
		return 0
	}
	return conditions[0].ID
}

// weatherSeverity grades current conditions. Condition ids 781 and the 90x
// range cover tornados and hurricane-class events, wind thresholds follow
// the Beaufort scale.
func weatherSeverity(weather string, weatherID int, rain, snow, windSpeed float64) string {
	switch weatherID {
	case 781, 900, 901, 902, 903, 904, 905, 906:
		return entity.SeverityHigh
	}

	if windSpeed > 20 {
		return entity.SeverityHigh
	}
	if windSpeed > 15 {
		return entity.SeverityMedium
	}

	if rain > 20 {
		return entity.SeverityHigh
	}
	if rain > 10 {
		return entity.SeverityMedium
	}

	if snow > 10 {
		return entity.SeverityHigh
	}
	if snow > 5 {
		return entity.SeverityMedium
	}

	switch weather {
	case "Thunderstorm", "Squall", "Tornado":
		return entity.SeverityHigh
	case "Rain", "Snow", "Drizzle":
		return entity.SeverityMedium
	}
	return entity.SeverityLow
}

var (
	highSeverityEvents = []string{
		"cyclone", "hurricane", "tsunami", "flood warning",
		"landslide", "tornado", "severe thunderstorm", "extreme",
	}
	mediumSeverityEvents = []string{
		"heavy rain", "thunderstorm", "lightning",
		"strong wind", "storm", "warning", "alert",
	}
	lowSeverityEvents = []string{
		"rain", "cloudy", "fog", "haze", "drizzle", "advisory",
	}
)

func alertSeverity(event string) string {
	lower := strings.ToLower(event)
	for _, kw := range highSeverityEvents {
		if strings.Contains(lower, kw) {
			return entity.SeverityHigh
		}
	}
	for _, kw := range mediumSeverityEvents {
		if strings.Contains(lower, kw) {
			return entity.SeverityMedium
		}
	}
	for _, kw := range lowSeverityEvents {
		if strings.Contains(lower, kw) {
			return entity.SeverityLow
		}
	}
	return entity.SeverityLow
}
