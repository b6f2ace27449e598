package service

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/aggregator/classifier"
	"golang-lanka-watch/internal/aggregator/dto"
	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/pkg/logger"
)

const storageType = "csv_files"

// StatsService serves the operational endpoints: store-wide statistics,
// health, exports, the location catalogue and backups.
type StatsService interface {
	Statistics(ctx context.Context) (*dto.StatisticsResponse, error)
	Health(ctx context.Context) (*dto.HealthResponse, error)
	// Export resolves an export type to the file to stream and its download
	// name. Missing files surface as fs.ErrNotExist.
	Export(dataType string) (path string, filename string, err error)
	Locations() *dto.LocationsResponse
	Backup(ctx context.Context) (*dto.BackupResponse, error)
}

func NewStatsService(
	newsRepo repository.NewsRepository,
	weatherRepo repository.WeatherRepository,
	tweetRepo repository.TweetRepository,
	alertRepo repository.AlertRepository,
	fuelRepo repository.FuelPriceRepository,
	maintenanceRepo repository.MaintenanceRepository,
	weatherAPI repository.OpenWeatherRepository,
	twitterRepo repository.TwitterRepository,
	districts []string,
	clock clockwork.Clock,
	logger *logger.Logger,
) StatsService {
	return &statsService{
		newsRepo:        newsRepo,
		weatherRepo:     weatherRepo,
		tweetRepo:       tweetRepo,
		alertRepo:       alertRepo,
		fuelRepo:        fuelRepo,
		maintenanceRepo: maintenanceRepo,
		weatherAPI:      weatherAPI,
		twitterRepo:     twitterRepo,
		districts:       districts,
		clock:           clock,
		started:         clock.Now(),
		logger:          logger,
	}
}

type statsService struct {
	newsRepo        repository.NewsRepository
	weatherRepo     repository.WeatherRepository
	tweetRepo       repository.TweetRepository
	alertRepo       repository.AlertRepository
	fuelRepo        repository.FuelPriceRepository
	maintenanceRepo repository.MaintenanceRepository
	weatherAPI      repository.OpenWeatherRepository
	twitterRepo     repository.TwitterRepository
	districts       []string
	clock           clockwork.Clock
	started         time.Time
	logger          *logger.Logger
}

func (s *statsService) Statistics(ctx context.Context) (*dto.StatisticsResponse, error) {
	totalNews, err := s.newsRepo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count news", logger.ErrorField(err))
		return nil, err
	}
	newsByCategory, err := s.newsRepo.CountByCategory(ctx)
	if err != nil {
		s.logger.Error("Failed to count news by category", logger.ErrorField(err))
		return nil, err
	}
	totalTweets, err := s.tweetRepo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count tweets", logger.ErrorField(err))
		return nil, err
	}
	totalWeather, err := s.weatherRepo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count weather records", logger.ErrorField(err))
		return nil, err
	}
	activeAlerts, err := s.alertRepo.CountActive(ctx)
	if err != nil {
		s.logger.Error("Failed to count active alerts", logger.ErrorField(err))
		return nil, err
	}
	alertsBySeverity, err := s.alertRepo.CountBySeverity(ctx)
	if err != nil {
		s.logger.Error("Failed to count alerts by severity", logger.ErrorField(err))
		return nil, err
	}
	fuelStats, err := s.fuelRepo.GetStats(ctx)
	if err != nil {
		s.logger.Error("Failed to get fuel price stats", logger.ErrorField(err))
		return nil, err
	}

	resp := &dto.StatisticsResponse{
		Timestamp:        timestamp(s.clock),
		StorageType:      storageType,
		TotalNews:        totalNews,
		NewsByCategory:   newsByCategory,
		TotalTweets:      totalTweets,
		TotalWeather:     totalWeather,
		ActiveAlerts:     activeAlerts,
		AlertsBySeverity: alertsBySeverity,
		APIs: dto.APIStatus{
			Weather:     s.weatherAPI.IsConfigured(),
			Twitter:     s.twitterRepo.IsConfigured(),
			FuelScraper: true,
		},
		Districts: dto.DistrictsInfo{Total: len(s.districts), List: s.districts},
	}
	if fuelStats != nil {
		resp.TotalFuelPrices = fuelStats.TotalRecords
		resp.FuelStats = fuelStats
	}
	return resp, nil
}

func (s *statsService) Health(ctx context.Context) (*dto.HealthResponse, error) {
	totalNews, err := s.newsRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalTweets, err := s.tweetRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalWeather, err := s.weatherRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	activeAlerts, err := s.alertRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	fuelStats, err := s.fuelRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	totalFuel := 0
	if fuelStats != nil {
		totalFuel = fuelStats.TotalRecords
	}

	districtStatus := make(map[string]bool, len(s.districts))
	for _, district := range s.districts {
		stored, err := s.weatherRepo.GetLatest(ctx, district, 1)
		districtStatus[district] = err == nil && len(stored) > 0
	}

	return &dto.HealthResponse{
		Status:                "healthy",
		Storage:               storageType,
		UptimeSeconds:         int64(s.clock.Since(s.started).Seconds()),
		Timestamp:             timestamp(s.clock),
		FileStatus:            s.maintenanceRepo.TableStatuses(),
		DistrictWeatherStatus: districtStatus,
		DataSummary: dto.HealthDataSummary{
			TotalNews:       totalNews,
			TotalTweets:     totalTweets,
			TotalWeather:    totalWeather,
			TotalFuelPrices: totalFuel,
			ActiveAlerts:    activeAlerts,
		},
		APIsConfigured: dto.APIStatus{
			Weather:     s.weatherAPI.IsConfigured(),
			Twitter:     s.twitterRepo.IsConfigured(),
			FuelScraper: true,
		},
		DistrictsMonitored: dto.DistrictsMonitored{Count: len(s.districts), List: s.districts},
	}, nil
}

func (s *statsService) Export(dataType string) (string, string, error) {
	path, filename, err := s.maintenanceRepo.ExportFile(dataType)
	if err != nil {
		return "", "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", "", err
	}
	return path, filename, nil
}

func (s *statsService) Locations() *dto.LocationsResponse {
	entries := make([]dto.LocationEntry, 0, len(s.districts))
	seen := make(map[string]bool, len(s.districts))
	for _, district := range s.districts {
		coords := DistrictCoordinates(district)
		lat, lon := coords.Lat, coords.Lon
		entries = append(entries, dto.LocationEntry{
			Name: district,
			Type: "district",
			Lat:  &lat,
			Lon:  &lon,
		})
		seen[district] = true
	}
	for _, name := range classifier.Locations() {
		if seen[name] {
			continue
		}
		entry := dto.LocationEntry{Name: name, Type: "city"}
		if strings.HasSuffix(name, "Province") {
			entry.Type = "province"
		}
		entries = append(entries, entry)
	}

	return &dto.LocationsResponse{
		Count:     len(entries),
		Locations: entries,
		Timestamp: timestamp(s.clock),
	}
}

func (s *statsService) Backup(ctx context.Context) (*dto.BackupResponse, error) {
	dir, err := s.maintenanceRepo.CreateBackup(ctx)
	if err != nil {
		s.logger.Error("Backup failed", logger.ErrorField(err))
		return nil, err
	}
	return &dto.BackupResponse{Success: true, BackupDir: dir, Timestamp: timestamp(s.clock)}, nil
}
