package service

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/aggregator/dto"
	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/utils"
)

// unknownLocation is the name used when coordinates cannot be resolved.
const unknownLocation = "Unknown"

// DataService serves the combined views that join several tables for one
// response.
type DataService interface {
	// CurrentLocation gathers everything relevant to one position: weather,
	// nearby news, alerts, tweets and the latest fuel prices.
	CurrentLocation(ctx context.Context, req *dto.CurrentLocationRequest) (*dto.CurrentLocationResponse, error)
	Summary(ctx context.Context) (*dto.DataSummaryResponse, error)
}

func NewDataService(
	newsRepo repository.NewsRepository,
	weatherRepo repository.WeatherRepository,
	tweetRepo repository.TweetRepository,
	alertRepo repository.AlertRepository,
	fuelRepo repository.FuelPriceRepository,
	weatherAPI repository.OpenWeatherRepository,
	districts []string,
	clock clockwork.Clock,
	logger *logger.Logger,
) DataService {
	return &dataService{
		newsRepo:    newsRepo,
		weatherRepo: weatherRepo,
		tweetRepo:   tweetRepo,
		alertRepo:   alertRepo,
		fuelRepo:    fuelRepo,
		weatherAPI:  weatherAPI,
		districts:   districts,
		clock:       clock,
		logger:      logger,
	}
}

type dataService struct {
	newsRepo    repository.NewsRepository
	weatherRepo repository.WeatherRepository
	tweetRepo   repository.TweetRepository
	alertRepo   repository.AlertRepository
	fuelRepo    repository.FuelPriceRepository
	weatherAPI  repository.OpenWeatherRepository
	districts   []string
	clock       clockwork.Clock
	logger      *logger.Logger
}

// resolvedLocation carries the location identity plus the current weather
// fetched as a side effect of reverse lookups, so it is not fetched twice.
type resolvedLocation struct {
	info     dto.LocationInfo
	current  *entity.WeatherRecord
	lat, lon float64
	byCoords bool
}

func (s *dataService) CurrentLocation(ctx context.Context, req *dto.CurrentLocationRequest) (*dto.CurrentLocationResponse, error) {
	loc, err := s.resolveLocation(ctx, req)
	if err != nil {
		return nil, err
	}

	data := dto.CurrentLocationData{}
	if s.weatherAPI.IsConfigured() {
		data.Weather = s.locationWeather(ctx, loc)
	}

	news, err := s.newsRepo.GetRecent(ctx, repository.NewsFilter{
		Limit: 10, Hours: 24, Location: loc.info.Name,
	})
	if err != nil {
		s.logger.Error("Failed to get news for location", logger.ErrorField(err))
		return nil, err
	}
	data.NewsCount = len(news)
	data.News = headOrEmpty(news, 5)

	alerts, err := s.alertRepo.GetActive(ctx, repository.AlertFilter{
		Location: loc.info.Name, Hours: 24,
	})
	if err != nil {
		s.logger.Error("Failed to get alerts for location", logger.ErrorField(err))
		return nil, err
	}
	data.AlertsCount = len(alerts)
	data.Alerts = alerts
	if data.Alerts == nil {
		data.Alerts = []entity.Alert{}
	}

	tweets, err := s.tweetRepo.GetRecent(ctx, repository.TweetFilter{Limit: 10, Hours: 24})
	if err != nil {
		s.logger.Error("Failed to get tweets for location", logger.ErrorField(err))
		return nil, err
	}
	if loc.info.Name != unknownLocation {
		needle := strings.ToLower(loc.info.Name)
		matched := make([]entity.Tweet, 0, len(tweets))
		for _, tweet := range tweets {
			if strings.Contains(strings.ToLower(tweet.Text), needle) {
				matched = append(matched, tweet)
			}
		}
		tweets = matched
	} else {
		tweets = utils.Head(tweets, 5)
	}
	data.TweetsCount = len(tweets)
	data.Tweets = headOrEmpty(tweets, 5)

	fuelLatest, err := s.fuelRepo.GetLatest(ctx)
	if err != nil {
		s.logger.Error("Failed to get latest fuel prices", logger.ErrorField(err))
		return nil, err
	}
	data.FuelPrices = fuelLatest

	return &dto.CurrentLocationResponse{
		Success:      true,
		LocationInfo: loc.info,
		Data:         data,
		Timestamp:    timestamp(s.clock),
	}, nil
}

func (s *dataService) resolveLocation(ctx context.Context, req *dto.CurrentLocationRequest) (*resolvedLocation, error) {
	switch {
	case req.District != "":
		return &resolvedLocation{info: dto.LocationInfo{
			Name: req.District, Type: "district", Source: "user_selected",
		}}, nil
	case req.City != "":
		return &resolvedLocation{info: dto.LocationInfo{
			Name: req.City, Type: "city", Source: "user_selected",
		}}, nil
	case req.Latitude != nil && req.Longitude != nil:
		lat, lon := *req.Latitude, *req.Longitude
		loc := &resolvedLocation{byCoords: true, lat: lat, lon: lon}
		name := unknownLocation
		if s.weatherAPI.IsConfigured() {
			record, err := s.weatherAPI.GetCurrentByCoordinates(ctx, lat, lon)
			if err != nil {
				s.logger.Warn("Failed to resolve location from coordinates", logger.ErrorField(err))
			} else {
				loc.current = record
				if record.Location != "" {
					name = record.Location
				}
			}
		}
		loc.info = dto.LocationInfo{
			Name:        name,
			Type:        "gps",
			Source:      "gps",
			Coordinates: &dto.LatLng{Latitude: lat, Longitude: lon},
		}
		return loc, nil
	}
	return nil, ErrLocationRequired
}

// locationWeather fetches current conditions and a short forecast for the
// resolved location, returning nil when neither can be fetched.
func (s *dataService) locationWeather(ctx context.Context, loc *resolvedLocation) *dto.LocationWeather {
	current := loc.current
	var forecast []entity.ForecastEntry
	var err error

	if loc.byCoords {
		if current == nil {
			return nil
		}
		if forecast, err = s.weatherAPI.GetForecastByCoordinates(ctx, loc.lat, loc.lon); err != nil {
			s.logger.Warn("Failed to fetch forecast by coordinates", logger.ErrorField(err))
		}
	} else {
		if current, err = s.weatherAPI.GetCurrentWeather(ctx, loc.info.Name); err != nil {
			s.logger.Warn("Failed to fetch weather for location",
				logger.StringField("location", loc.info.Name), logger.ErrorField(err))
			return nil
		}
		if forecast, err = s.weatherAPI.GetForecast(ctx, loc.info.Name); err != nil {
			s.logger.Warn("Failed to fetch forecast for location",
				logger.StringField("location", loc.info.Name), logger.ErrorField(err))
		}
	}

	return &dto.LocationWeather{Current: current, Forecast: headOrEmpty(forecast, 8)}
}

func (s *dataService) Summary(ctx context.Context) (*dto.DataSummaryResponse, error) {
	news, err := s.newsRepo.GetRecent(ctx, repository.NewsFilter{Limit: 100, Hours: 24})
	if err != nil {
		s.logger.Error("Failed to get recent news", logger.ErrorField(err))
		return nil, err
	}
	alerts, err := s.alertRepo.GetActive(ctx, repository.AlertFilter{})
	if err != nil {
		s.logger.Error("Failed to get active alerts", logger.ErrorField(err))
		return nil, err
	}
	tweets, err := s.tweetRepo.GetRecent(ctx, repository.TweetFilter{Limit: 100, Hours: 24})
	if err != nil {
		s.logger.Error("Failed to get recent tweets", logger.ErrorField(err))
		return nil, err
	}
	fuelLatest, err := s.fuelRepo.GetLatest(ctx)
	if err != nil {
		s.logger.Error("Failed to get latest fuel prices", logger.ErrorField(err))
		return nil, err
	}

	sampleWeather := make(map[string]entity.WeatherRecord)
	sampleDistricts := make([]string, 0, len(s.districts))
	for _, district := range s.districts {
		stored, err := s.weatherRepo.GetLatest(ctx, district, 1)
		if err != nil || len(stored) == 0 {
			continue
		}
		sampleWeather[district] = stored[0]
		sampleDistricts = append(sampleDistricts, district)
	}

	newsByCategory := make(map[string]int)
	for _, item := range news {
		newsByCategory[item.Category]++
	}
	alertsBySeverity := make(map[string]int)
	for _, alert := range alerts {
		alertsBySeverity[alert.Severity]++
	}

	return &dto.DataSummaryResponse{
		Summary: dto.DataSummaryCounts{
			TotalNews24h:              len(news),
			TotalAlertsActive:         len(alerts),
			TotalTweets24h:            len(tweets),
			WeatherDistrictsMonitored: len(sampleWeather),
			FuelPricesAvailable:       fuelLatest != nil,
		},
		Distribution: dto.DataDistribution{
			NewsByCategory:   newsByCategory,
			AlertsBySeverity: alertsBySeverity,
		},
		SampleWeather: sampleWeather,
		FuelPrices:    fuelLatest,
		WeatherSummary: dto.DataWeatherSummary{
			DistrictsMonitored: len(sampleWeather),
			TotalDistricts:     len(s.districts),
			SampleDistricts:    sampleDistricts,
		},
		DistrictsList: s.districts,
		Timestamp:     timestamp(s.clock),
	}, nil
}

// headOrEmpty caps a list and guarantees a non nil slice so responses render
// [] instead of null.
func headOrEmpty[T any](items []T, n int) []T {
	out := utils.Head(items, n)
	if out == nil {
		out = []T{}
	}
	return out
}
