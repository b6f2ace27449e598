package strategy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/metrics"
	"golang-lanka-watch/pkg/telegram"
	"golang-lanka-watch/pkg/utils"
)

// WeatherCollectorStrategy stores an observation per district and raises
// alerts for provider warnings and severe current conditions.
type WeatherCollectorStrategy struct {
	logger      *logger.Logger
	weatherAPI  repository.OpenWeatherRepository
	weatherRepo repository.WeatherRepository
	alertRepo   repository.AlertRepository
	notifier    telegram.Notifier
	metrics     *metrics.Metrics
	clock       clockwork.Clock
}

// NewWeatherCollectorStrategy creates a new instance of WeatherCollectorStrategy.
func NewWeatherCollectorStrategy(weatherAPI repository.OpenWeatherRepository, weatherRepo repository.WeatherRepository, alertRepo repository.AlertRepository, notifier telegram.Notifier, m *metrics.Metrics, clock clockwork.Clock, log *logger.Logger) *WeatherCollectorStrategy {
	return &WeatherCollectorStrategy{
		logger:      log,
		weatherAPI:  weatherAPI,
		weatherRepo: weatherRepo,
		alertRepo:   alertRepo,
		notifier:    notifier,
		metrics:     m,
		clock:       clock,
	}
}

// GetType returns the task type this strategy handles.
func (s *WeatherCollectorStrategy) GetType() entity.TaskType {
	return entity.TaskCollectWeather
}

// Execute fetches weather for every configured district.
func (s *WeatherCollectorStrategy) Execute(ctx context.Context) (string, error) {
	if !s.weatherAPI.IsConfigured() {
		s.logger.Warn("Weather collection skipped, no API key")
		return SKIPPED, nil
	}

	districts, err := s.weatherAPI.GetAllDistrictsWeather(ctx)
	if err != nil {
		return FAILED, err
	}

	alerts := 0
	stored := make([]entity.WeatherRecord, 0, len(districts))
	for i := range districts {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		district := districts[i]
		record := district.Record

		if _, err := s.weatherRepo.Insert(ctx, &record); err != nil {
			s.logger.Error("Failed to store weather",
				logger.StringField("location", record.Location), logger.ErrorField(err))
			continue
		}
		s.metrics.RecordsInserted.WithLabelValues("weather").Inc()
		stored = append(stored, record)

		for _, warning := range record.Alerts {
			if warning.Severity == entity.SeverityHigh || warning.Severity == entity.SeverityMedium {
				if s.createWeatherAlert(ctx, record.Location, warning) {
					alerts++
				}
			}
		}
		if district.CurrentSeverity == entity.SeverityHigh {
			if s.createSevereWeatherAlert(ctx, &record) {
				alerts++
			}
		}
	}

	s.logRunSummary(stored)
	s.logger.Info("Weather collection finished",
		logger.IntField("districts", len(stored)), logger.IntField("alerts", alerts))
	return fmt.Sprintf("stored weather for %d districts, created %d alerts", len(stored), alerts), nil
}

// logRunSummary logs the digest of a collection run: the temperature extremes
// plus how many districts carry provider warnings or grade severe on the
// stored observation alone.
func (s *WeatherCollectorStrategy) logRunSummary(records []entity.WeatherRecord) {
	if len(records) == 0 {
		return
	}
	hottest, coldest := &records[0], &records[0]
	withAlerts, severe := 0, 0
	for i := range records {
		record := &records[i]
		if record.Temperature > hottest.Temperature {
			hottest = record
		}
		if record.Temperature < coldest.Temperature {
			coldest = record
		}
		if len(record.Alerts) > 0 {
			withAlerts++
		}
		if record.SeverityLevel() == entity.SeverityHigh {
			severe++
		}
	}
	s.logger.Info("Weather summary",
		logger.StringField("hottest", fmt.Sprintf("%s (%v°C)", hottest.Location, hottest.Temperature)),
		logger.StringField("coldest", fmt.Sprintf("%s (%v°C)", coldest.Location, coldest.Temperature)),
		logger.IntField("districts_with_alerts", withAlerts),
		logger.IntField("severe_districts", severe))
}

func (s *WeatherCollectorStrategy) createWeatherAlert(ctx context.Context, location string, warning entity.WeatherAlert) bool {
	event := warning.Event
	if event == "" {
		event = "Severe Weather"
	}
	description := warning.Description
	if description == "" {
		description = "Severe weather conditions"
	}
	severity := warning.Severity
	if severity == "" {
		severity = entity.SeverityMedium
	}

	alert := entity.Alert{
		Title:       fmt.Sprintf("Weather Alert: %s", event),
		Description: description,
		Category:    "weather",
		Subcategory: weatherEventSubcategory(warning.Event),
		Location:    location,
		Severity:    severity,
		Source:      entity.AlertSourceWeather,
		SourceID:    fmt.Sprintf("weather_%d", s.clock.Now().Unix()),
		StartTime:   s.clock.Now(),
		EndTime:     s.clock.Now().Add(24 * time.Hour),
	}
	return s.insertAndNotify(ctx, &alert)
}

func (s *WeatherCollectorStrategy) createSevereWeatherAlert(ctx context.Context, record *entity.WeatherRecord) bool {
	condition := record.Weather
	if condition == "" {
		condition = "Severe Conditions"
	}
	description := record.Description
	if description == "" {
		description = "Severe weather conditions"
	}

	alert := entity.Alert{
		Title: fmt.Sprintf("Severe Weather Alert: %s", condition),
		Description: fmt.Sprintf("%s in %s. Temp: %v°C, Wind: %v m/s",
			description, record.Location, record.Temperature, record.WindSpeed),
		Category:    "weather",
		Subcategory: weatherEventSubcategory(record.Weather),
		Location:    record.Location,
		Severity:    entity.SeverityHigh,
		Source:      entity.AlertSourceWeather,
		SourceID:    fmt.Sprintf("weather_severe_%s_%d", record.Location, s.clock.Now().Unix()),
		StartTime:   s.clock.Now(),
		EndTime:     s.clock.Now().Add(12 * time.Hour),
	}
	return s.insertAndNotify(ctx, &alert)
}

func (s *WeatherCollectorStrategy) insertAndNotify(ctx context.Context, alert *entity.Alert) bool {
	if _, err := s.alertRepo.Insert(ctx, alert); err != nil {
		s.logger.Error("Failed to create weather alert", logger.ErrorField(err))
		return false
	}
	s.metrics.RecordsInserted.WithLabelValues("alerts").Inc()
	s.metrics.AlertsCreated.WithLabelValues(alert.Severity).Inc()
	if s.notifier.Enabled() {
		if err := s.notifier.SendMessage(telegram.FormatAlertMessage(alert)); err != nil {
			s.logger.Error("Failed to send alert notification", logger.ErrorField(err))
		}
	}
	return true
}

// weatherEventSubcategory buckets a provider event name into the alert
// subcategories used across the data set.
func weatherEventSubcategory(event string) string {
	lower := strings.ToLower(event)

	contains := func(words ...string) bool {
		for _, word := range words {
			if strings.Contains(lower, word) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("flood", "inundat"):
		return "floods"
	case contains("rain", "shower", "precipitation"):
		return "rainfall_alerts"
	case contains("cyclone", "storm", "hurricane"):
		return "cyclones"
	case contains("landslide", "mudslide"):
		return "land_slides"
	case contains("heat", "hot", "temperature"):
		return "heatwaves"
	case contains("earthquake", "tremor"):
		return "earthquakes"
	default:
		return "weather_general"
	}
}
