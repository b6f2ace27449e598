package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/aggregator/dto"
	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/utils"
)

const fuelDateLayout = "2006-01-02"

// analyzedFuelGrades are the consumer grades the analysis endpoint fits
// trends for.
var analyzedFuelGrades = []string{"petrol_95", "auto_diesel", "kerosene"}

// FuelService serves fuel price reads, on demand scrapes and the trend
// analysis built on top of the stored sheets.
type FuelService interface {
	Latest(ctx context.Context) (*dto.FuelLatestResponse, error)
	// History returns up to limit sheets from the last days days.
	History(ctx context.Context, limit, days int) (*dto.ListResponse, error)
	Stats(ctx context.Context) (*dto.FuelStatsResponse, error)
	All(ctx context.Context) (*dto.ListResponse, error)
	// ScrapeNow scrapes the Ceypetco page, stores the newest sheet and
	// reports the per grade movement against the previous one.
	ScrapeNow(ctx context.Context) (*dto.FuelScrapeResponse, error)
	Analyze(ctx context.Context) (*dto.FuelAnalyzeResponse, error)
	Trend(ctx context.Context, fuelType string, days int) (*dto.FuelTrendResponse, error)
}

func NewFuelService(fuelRepo repository.FuelPriceRepository, fuelSource repository.FuelSourceRepository, clock clockwork.Clock, logger *logger.Logger) FuelService {
	return &fuelService{
		fuelRepo:   fuelRepo,
		fuelSource: fuelSource,
		clock:      clock,
		logger:     logger,
	}
}

type fuelService struct {
	fuelRepo   repository.FuelPriceRepository
	fuelSource repository.FuelSourceRepository
	clock      clockwork.Clock
	logger     *logger.Logger
}

func (s *fuelService) Latest(ctx context.Context) (*dto.FuelLatestResponse, error) {
	latest, err := s.fuelRepo.GetLatest(ctx)
	if err != nil {
		s.logger.Error("Failed to get latest fuel prices", logger.ErrorField(err))
		return nil, err
	}
	if latest == nil {
		return nil, ErrNoFuelData
	}
	return &dto.FuelLatestResponse{Data: latest, Timestamp: timestamp(s.clock)}, nil
}

func (s *fuelService) History(ctx context.Context, limit, days int) (*dto.ListResponse, error) {
	var startDate *time.Time
	if days > 0 {
		from := s.clock.Now().AddDate(0, 0, -days)
		startDate = &from
	}
	history, err := s.fuelRepo.GetHistory(ctx, limit, startDate)
	if err != nil {
		s.logger.Error("Failed to get fuel price history", logger.ErrorField(err))
		return nil, err
	}
	return &dto.ListResponse{Count: len(history), Data: history, Timestamp: timestamp(s.clock)}, nil
}

func (s *fuelService) Stats(ctx context.Context) (*dto.FuelStatsResponse, error) {
	stats, err := s.fuelRepo.GetStats(ctx)
	if err != nil {
		s.logger.Error("Failed to get fuel price stats", logger.ErrorField(err))
		return nil, err
	}
	return &dto.FuelStatsResponse{Stats: stats, Timestamp: timestamp(s.clock)}, nil
}

func (s *fuelService) All(ctx context.Context) (*dto.ListResponse, error) {
	records, err := s.fuelRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Failed to get fuel price records", logger.ErrorField(err))
		return nil, err
	}
	return &dto.ListResponse{Count: len(records), Data: records, Timestamp: timestamp(s.clock)}, nil
}

func (s *fuelService) ScrapeNow(ctx context.Context) (*dto.FuelScrapeResponse, error) {
	records, err := s.fuelSource.ScrapePrices(ctx)
	if err != nil {
		s.logger.Error("Fuel price scrape failed", logger.ErrorField(err))
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrScrapeFailed
	}

	latest := records[0]
	id, err := s.fuelRepo.Insert(ctx, &latest)
	if err != nil {
		s.logger.Error("Failed to store scraped fuel prices", logger.ErrorField(err))
		return nil, err
	}

	changes := make(map[string]entity.FuelPriceChange)
	if len(records) > 1 {
		for _, change := range entity.ComputeFuelChanges(&records[1], &records[0]) {
			changes[change.FuelType] = change
		}
	}

	return &dto.FuelScrapeResponse{
		Success:      true,
		Message:      fmt.Sprintf("Fuel prices scraped and stored (ID: %s)", id),
		RecordID:     id,
		LatestDate:   latest.Date.Format(fuelDateLayout),
		PriceChanges: changes,
		Timestamp:    timestamp(s.clock),
	}, nil
}

func (s *fuelService) Analyze(ctx context.Context) (*dto.FuelAnalyzeResponse, error) {
	history, err := s.fuelRepo.GetHistory(ctx, 60, nil)
	if err != nil {
		s.logger.Error("Failed to get fuel price history", logger.ErrorField(err))
		return nil, err
	}
	if len(history) < 2 {
		return nil, ErrInsufficientData
	}

	series := make([]entity.FuelPriceRecord, len(history))
	copy(series, history)
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	trends := make(map[string]dto.FuelTrendSummary)
	for _, grade := range analyzedFuelGrades {
		var prices []float64
		for _, rec := range series {
			if price := rec.Price(grade); price != nil {
				prices = append(prices, *price)
			}
		}
		if len(prices) < 2 {
			continue
		}

		first, last := prices[0], prices[len(prices)-1]
		change := 0.0
		if first > 0 {
			change = roundTo((last-first)/first*100, 2)
		}
		slope := leastSquaresSlope(prices)
		trends[grade] = dto.FuelTrendSummary{
			CurrentPrice: last,
			Trend:        slopeTrend(slope),
			SlopePerDay:  roundTo(slope, 3),
			Volatility:   roundTo(sampleStdDev(prices), 2),
			MinPrice:     minOf(prices),
			MaxPrice:     maxOf(prices),
			Change30d:    change,
		}
	}

	recommendations := []dto.FuelRecommendation{}
	if t, ok := trends["petrol_95"]; ok && (t.Trend == "strong_up" || t.Trend == "up") {
		recommendations = append(recommendations, dto.FuelRecommendation{
			Type:    "warning",
			Message: "Petrol prices are rising. Consider optimizing fuel consumption and transportation routes.",
			Impact:  "high",
			Action:  "Review fuel efficiency strategies",
		})
	}
	if t, ok := trends["auto_diesel"]; ok && t.Trend == "strong_up" {
		recommendations = append(recommendations, dto.FuelRecommendation{
			Type:    "alert",
			Message: "Diesel prices increasing significantly. This affects transportation and logistics costs.",
			Impact:  "high",
			Action:  "Consider fuel surcharges or alternative logistics",
		})
	}

	return &dto.FuelAnalyzeResponse{
		Analysis: dto.FuelAnalysis{
			Trends:          trends,
			Volatility:      map[string]float64{},
			Recommendations: recommendations,
		},
		DataPoints: len(history),
		Period: dto.FuelPeriod{
			Start: series[0].Date.Format(fuelDateLayout),
			End:   series[len(series)-1].Date.Format(fuelDateLayout),
		},
		Timestamp: timestamp(s.clock),
	}, nil
}

func (s *fuelService) Trend(ctx context.Context, fuelType string, days int) (*dto.FuelTrendResponse, error) {
	if !utils.ContainsString(entity.FuelTypes(), fuelType) {
		return nil, ErrInvalidFuelType
	}
	trend, err := s.fuelRepo.GetTrend(ctx, fuelType, days)
	if err != nil {
		s.logger.Error("Failed to get fuel price trend",
			logger.StringField("fuel_type", fuelType), logger.ErrorField(err))
		return nil, err
	}
	if trend == nil {
		return nil, ErrNoTrendData
	}
	return &dto.FuelTrendResponse{Trend: trend, Timestamp: timestamp(s.clock)}, nil
}

// slopeTrend buckets a fitted slope into the five trend labels. The strong
// bands kick in above half a rupee per sheet.
func slopeTrend(slope float64) string {
	switch {
	case slope > 0.5:
		return "strong_up"
	case slope > 0.1:
		return "up"
	case slope < -0.5:
		return "strong_down"
	case slope < -0.1:
		return "down"
	}
	return "stable"
}

// leastSquaresSlope fits price against observation index.
func leastSquaresSlope(prices []float64) float64 {
	n := float64(len(prices))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range prices {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// sampleStdDev is the n-1 normalized standard deviation.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)-1))
}

func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}
