package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/aggregator/config"
	"golang-lanka-watch/internal/aggregator/dto"
	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/utils"
)

// weatherCacheMaxAge bounds how stale a stored observation may be before a
// plain lookup goes back to the provider.
const weatherCacheMaxAge = 30 * time.Minute

// WeatherQuery carries the options shared by the weather lookups. Location
// is expected to be filled by the caller, defaults included.
type WeatherQuery struct {
	Location        string
	Refresh         bool
	IncludeForecast bool
	IncludeAlerts   bool
}

// WeatherService serves weather reads, preferring stored observations and
// falling back to the provider when they are missing or stale.
type WeatherService interface {
	IsConfigured() bool
	MonitoredDistricts() []string
	Current(ctx context.Context, query WeatherQuery) (*dto.WeatherResponse, error)
	Districts(ctx context.Context, limit int, refresh bool) (*dto.DistrictsWeatherResponse, error)
	RefreshAll(ctx context.Context, delay float64) (*dto.RefreshAllResponse, error)
	Summary(ctx context.Context) (*dto.WeatherSummaryResponse, error)
	District(ctx context.Context, name string, query WeatherQuery) (*dto.DistrictDetailResponse, error)
	MapData(ctx context.Context) (*dto.WeatherMapResponse, error)
	Debug(ctx context.Context) (*dto.WeatherDebugResponse, error)
	ByCoordinates(ctx context.Context, lat, lon float64) (*dto.CurrentWeatherResponse, error)
}

func NewWeatherService(cfg *config.Config, weatherAPI repository.OpenWeatherRepository, weatherRepo repository.WeatherRepository, clock clockwork.Clock, logger *logger.Logger) WeatherService {
	return &weatherService{
		weatherAPI:  weatherAPI,
		weatherRepo: weatherRepo,
		apiKey:      cfg.Weather.APIKey,
		districts:   cfg.Weather.Districts,
		clock:       clock,
		logger:      logger,
	}
}

type weatherService struct {
	weatherAPI  repository.OpenWeatherRepository
	weatherRepo repository.WeatherRepository
	apiKey      string
	districts   []string
	clock       clockwork.Clock
	logger      *logger.Logger
}

func (s *weatherService) IsConfigured() bool {
	return s.weatherAPI.IsConfigured()
}

func (s *weatherService) MonitoredDistricts() []string {
	districts := make([]string, len(s.districts))
	copy(districts, s.districts)
	return districts
}

func (s *weatherService) Current(ctx context.Context, query WeatherQuery) (*dto.WeatherResponse, error) {
	if !s.weatherAPI.IsConfigured() {
		return nil, ErrWeatherNotConfigured
	}

	if !query.Refresh {
		if cached := s.cachedCurrent(ctx, query.Location); cached != nil {
			resp := &dto.WeatherResponse{WeatherRecord: *cached, Source: "csv_cache"}
			if query.IncludeForecast {
				resp.HourlyForecast = utils.Head(cached.Forecast, 24)
			}
			return resp, nil
		}
	}

	record, err := s.weatherAPI.GetCurrentWeather(ctx, query.Location)
	if err != nil {
		s.logger.Error("Failed to fetch current weather",
			logger.StringField("location", query.Location), logger.ErrorField(err))
		return nil, ErrWeatherUnavailable
	}

	var forecast []entity.ForecastEntry
	if query.IncludeForecast {
		if forecast, err = s.weatherAPI.GetForecast(ctx, query.Location); err != nil {
			s.logger.Warn("Failed to fetch forecast",
				logger.StringField("location", query.Location), logger.ErrorField(err))
		}
	}
	var alerts []entity.WeatherAlert
	if query.IncludeAlerts {
		if alerts, err = s.weatherAPI.GetWeatherAlerts(ctx, query.Location); err != nil {
			s.logger.Warn("Failed to fetch weather alerts",
				logger.StringField("location", query.Location), logger.ErrorField(err))
		}
	}

	stored := *record
	stored.Forecast = forecast
	stored.Alerts = alerts
	if _, err := s.weatherRepo.Insert(ctx, &stored); err != nil {
		s.logger.Error("Failed to store weather record",
			logger.StringField("location", query.Location), logger.ErrorField(err))
		return nil, err
	}

	resp := &dto.WeatherResponse{WeatherRecord: stored, Source: "api_fresh"}
	if query.IncludeForecast {
		resp.HourlyForecast = utils.Head(forecast, 24)
	}
	return resp, nil
}

// cachedCurrent returns the stored observation for a location when it is
// fresh enough to serve without calling the provider.
func (s *weatherService) cachedCurrent(ctx context.Context, location string) *entity.WeatherRecord {
	stored, err := s.weatherRepo.GetLatest(ctx, location, 1)
	if err != nil || len(stored) == 0 {
		return nil
	}
	if s.clock.Since(stored[0].Timestamp) > weatherCacheMaxAge {
		return nil
	}
	return &stored[0]
}

func (s *weatherService) Districts(ctx context.Context, limit int, refresh bool) (*dto.DistrictsWeatherResponse, error) {
	if !s.weatherAPI.IsConfigured() {
		return nil, ErrWeatherNotConfigured
	}
	if limit <= 0 || limit > len(s.districts) {
		limit = len(s.districts)
	}

	entries := make([]dto.DistrictWeatherEntry, 0, limit)
	for _, district := range s.districts[:limit] {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		if refresh {
			record, err := s.weatherAPI.GetCurrentWeather(ctx, district)
			if err != nil {
				s.logger.Warn("Failed to refresh district weather",
					logger.StringField("district", district), logger.ErrorField(err))
				continue
			}
			if _, err := s.weatherRepo.Insert(ctx, record); err != nil {
				s.logger.Error("Failed to store district weather",
					logger.StringField("district", district), logger.ErrorField(err))
				continue
			}
			entries = append(entries, dto.DistrictWeatherEntry{
				District: district, Weather: *record, Source: "api_fresh",
			})
			continue
		}

		stored, err := s.weatherRepo.GetLatest(ctx, district, 1)
		if err != nil || len(stored) == 0 {
			continue
		}
		entries = append(entries, dto.DistrictWeatherEntry{
			District: district, Weather: stored[0], Source: "csv_cache",
		})
	}

	return &dto.DistrictsWeatherResponse{
		Count:          len(entries),
		TotalDistricts: len(s.districts),
		Districts:      entries,
		Note:           fmt.Sprintf("Showing %d/%d districts. Use ?refresh=true to update.", len(entries), len(s.districts)),
		Timestamp:      timestamp(s.clock),
	}, nil
}

func (s *weatherService) RefreshAll(ctx context.Context, delay float64) (*dto.RefreshAllResponse, error) {
	if !s.weatherAPI.IsConfigured() {
		return nil, ErrWeatherNotConfigured
	}
	if delay <= 0 {
		delay = 2.0
	}

	collected := make([]dto.RefreshedDistrict, 0, len(s.districts))
	failed := make([]string, 0)
	for _, district := range s.districts {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		record, err := s.weatherAPI.GetCurrentWeather(ctx, district)
		if err != nil {
			s.logger.Warn("Failed to refresh district weather",
				logger.StringField("district", district), logger.ErrorField(err))
			failed = append(failed, district)
			continue
		}
		if _, err := s.weatherRepo.Insert(ctx, record); err != nil {
			s.logger.Error("Failed to store district weather",
				logger.StringField("district", district), logger.ErrorField(err))
			failed = append(failed, district)
			continue
		}
		collected = append(collected, dto.RefreshedDistrict{
			District:    district,
			Temperature: record.Temperature,
			Weather:     record.Weather,
		})
	}

	return &dto.RefreshAllResponse{
		Success:   true,
		Message:   fmt.Sprintf("Refreshed %d out of %d districts", len(collected), len(s.districts)),
		Collected: collected,
		Failed:    failed,
		TotalTime: fmt.Sprintf("%g seconds estimated", float64(len(s.districts))*delay),
		Timestamp: timestamp(s.clock),
	}, nil
}

func (s *weatherService) Summary(ctx context.Context) (*dto.WeatherSummaryResponse, error) {
	if !s.weatherAPI.IsConfigured() {
		return nil, ErrWeatherNotConfigured
	}

	summary := dto.WeatherSummary{
		TotalDistricts: len(s.districts),
		Districts:      make(map[string]dto.DistrictConditions),
		Statistics:     make(map[string]dto.RangeStat),
	}
	var temps, humidity, winds []float64
	for _, district := range s.districts {
		stored, err := s.weatherRepo.GetLatest(ctx, district, 1)
		if err != nil || len(stored) == 0 {
			continue
		}
		rec := stored[0]
		summary.DistrictsWithData++
		if len(rec.Alerts) > 0 {
			summary.DistrictsWithAlerts++
		}
		summary.Districts[district] = dto.DistrictConditions{
			Temperature: rec.Temperature,
			Weather:     rec.Weather,
			Humidity:    rec.Humidity,
			WindSpeed:   rec.WindSpeed,
			AlertsCount: len(rec.Alerts),
		}
		temps = append(temps, rec.Temperature)
		humidity = append(humidity, rec.Humidity)
		winds = append(winds, rec.WindSpeed)
	}
	if len(temps) > 0 {
		summary.Statistics["temperature"] = rangeStat(temps)
		summary.Statistics["humidity"] = rangeStat(humidity)
		summary.Statistics["wind_speed"] = rangeStat(winds)
	}

	return &dto.WeatherSummaryResponse{
		Summary:       summary,
		DistrictsList: s.MonitoredDistricts(),
		Timestamp:     timestamp(s.clock),
	}, nil
}

func (s *weatherService) District(ctx context.Context, name string, query WeatherQuery) (*dto.DistrictDetailResponse, error) {
	if !s.weatherAPI.IsConfigured() {
		return nil, ErrWeatherNotConfigured
	}
	if !utils.ContainsString(s.districts, name) {
		return nil, ErrUnknownDistrict
	}
	coords := DistrictCoordinates(name)

	if !query.Refresh {
		stored, err := s.weatherRepo.GetLatest(ctx, name, 1)
		if err == nil && len(stored) > 0 {
			return &dto.DistrictDetailResponse{
				District:    name,
				Coordinates: coords,
				Source:      "csv_cache",
				Data:        stored[0],
				Timestamp:   timestamp(s.clock),
			}, nil
		}
	}

	record, err := s.weatherAPI.GetCurrentWeather(ctx, name)
	if err != nil {
		s.logger.Error("Failed to fetch district weather",
			logger.StringField("district", name), logger.ErrorField(err))
		return nil, ErrWeatherUnavailable
	}

	var forecast []entity.ForecastEntry
	if query.IncludeForecast {
		if forecast, err = s.weatherAPI.GetForecast(ctx, name); err != nil {
			s.logger.Warn("Failed to fetch forecast",
				logger.StringField("district", name), logger.ErrorField(err))
		}
	}
	var alerts []entity.WeatherAlert
	if query.IncludeAlerts {
		if alerts, err = s.weatherAPI.GetWeatherAlerts(ctx, name); err != nil {
			s.logger.Warn("Failed to fetch weather alerts",
				logger.StringField("district", name), logger.ErrorField(err))
		}
	}
	if forecast == nil {
		forecast = []entity.ForecastEntry{}
	}
	if alerts == nil {
		alerts = []entity.WeatherAlert{}
	}

	stored := *record
	stored.Forecast = forecast
	stored.Alerts = alerts
	if _, err := s.weatherRepo.Insert(ctx, &stored); err != nil {
		s.logger.Error("Failed to store district weather",
			logger.StringField("district", name), logger.ErrorField(err))
		return nil, err
	}

	return &dto.DistrictDetailResponse{
		District:    name,
		Coordinates: coords,
		Source:      "api_fresh",
		Data: dto.FreshWeather{
			Current:  record,
			Forecast: utils.Head(forecast, 8),
			Alerts:   alerts,
		},
		Timestamp: timestamp(s.clock),
	}, nil
}

func (s *weatherService) MapData(ctx context.Context) (*dto.WeatherMapResponse, error) {
	mapData := make([]dto.MapDistrict, 0, len(s.districts))
	for _, district := range s.districts {
		entry := dto.MapDistrict{
			Name:        district,
			Coordinates: DistrictCoordinates(district),
			Source:      "no_data",
		}
		stored, err := s.weatherRepo.GetLatest(ctx, district, 1)
		if err == nil && len(stored) > 0 {
			rec := stored[0]
			ts := rec.Timestamp
			entry.Weather = &dto.MapConditions{
				Temperature: rec.Temperature,
				Condition:   rec.Weather,
				Description: rec.Description,
				Humidity:    rec.Humidity,
				WindSpeed:   rec.WindSpeed,
				Rain:        rec.Rain,
			}
			entry.AlertsCount = len(rec.Alerts)
			entry.Updated = &ts
			entry.Source = "cache"
		}
		mapData = append(mapData, entry)
	}

	return &dto.WeatherMapResponse{
		MapData:        mapData,
		TotalDistricts: len(mapData),
		Note:           fmt.Sprintf("Showing %d districts. Use /api/weather/refresh-all to update.", len(mapData)),
		Timestamp:      timestamp(s.clock),
	}, nil
}

func (s *weatherService) Debug(ctx context.Context) (*dto.WeatherDebugResponse, error) {
	if !s.weatherAPI.IsConfigured() {
		return nil, ErrWeatherNotConfigured
	}

	status := "working"
	record, err := s.weatherAPI.GetCurrentWeather(ctx, "Colombo")
	if err != nil {
		s.logger.Warn("Weather debug check failed", logger.ErrorField(err))
		status = "failed"
		record = nil
	}

	return &dto.WeatherDebugResponse{
		Status:              status,
		TestLocation:        "Colombo",
		Result:              record,
		APIKeyConfigured:    len(s.apiKey) > 10,
		APIKeyLength:        len(s.apiKey),
		DistrictsConfigured: len(s.districts),
		DistrictsList:       s.MonitoredDistricts(),
		Timestamp:           timestamp(s.clock),
	}, nil
}

func (s *weatherService) ByCoordinates(ctx context.Context, lat, lon float64) (*dto.CurrentWeatherResponse, error) {
	if !s.weatherAPI.IsConfigured() {
		return nil, ErrWeatherNotConfigured
	}

	record, err := s.weatherAPI.GetCurrentByCoordinates(ctx, lat, lon)
	if err != nil {
		s.logger.Error("Failed to fetch weather by coordinates", logger.ErrorField(err))
		return nil, ErrWeatherUnavailable
	}

	forecast, err := s.weatherAPI.GetForecastByCoordinates(ctx, lat, lon)
	if err != nil {
		s.logger.Warn("Failed to fetch forecast by coordinates", logger.ErrorField(err))
	}
	if forecast == nil {
		forecast = []entity.ForecastEntry{}
	}

	var alerts []entity.WeatherAlert
	if record.Location != "" {
		if alerts, err = s.weatherAPI.GetWeatherAlerts(ctx, record.Location); err != nil {
			s.logger.Warn("Failed to fetch weather alerts",
				logger.StringField("location", record.Location), logger.ErrorField(err))
		}
	}
	if alerts == nil {
		alerts = []entity.WeatherAlert{}
	}

	return &dto.CurrentWeatherResponse{
		Current:        record,
		HourlyForecast: utils.Head(forecast, 24),
		Alerts:         alerts,
		Timestamp:      timestamp(s.clock),
	}, nil
}

// rangeStat summarises a sample with a one decimal average.
func rangeStat(values []float64) dto.RangeStat {
	minValue, maxValue := values[0], values[0]
	sum := 0.0
	for _, v := range values {
		sum += v
		if v < minValue {
			minValue = v
		}
		if v > maxValue {
			maxValue = v
		}
	}
	return dto.RangeStat{
		Average: math.Round(sum/float64(len(values))*10) / 10,
		Min:     minValue,
		Max:     maxValue,
	}
}

// districtCoordinates holds map pins for the monitored districts.
var districtCoordinates = map[string]dto.Coordinates{
	"Colombo":      {Lat: 6.9271, Lon: 79.8612},
	"Gampaha":      {Lat: 7.0917, Lon: 79.9997},
	"Kalutara":     {Lat: 6.5896, Lon: 79.9573},
	"Kandy":        {Lat: 7.2906, Lon: 80.6337},
	"Matale":       {Lat: 7.4675, Lon: 80.6234},
	"Nuwara Eliya": {Lat: 6.9497, Lon: 80.7891},
	"Galle":        {Lat: 6.0535, Lon: 80.2210},
	"Matara":       {Lat: 5.9485, Lon: 80.5353},
	"Jaffna":       {Lat: 9.6615, Lon: 80.0255},
	"Batticaloa":   {Lat: 7.7172, Lon: 81.6996},
}

// DistrictCoordinates returns the map pin for a district, falling back to
// Colombo for names without one.
func DistrictCoordinates(district string) dto.Coordinates {
	if coords, ok := districtCoordinates[district]; ok {
		return coords
	}
	return districtCoordinates["Colombo"]
}
