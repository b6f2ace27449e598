package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
)

var fuelHeader = []string{
	"id", "date", "date_str", "petrol_95", "petrol_92", "auto_diesel",
	"super_diesel", "kerosene", "industrial_kerosene", "furnace_800",
	"furnace_1500_high", "furnace_1500_low", "location", "source",
	"scraped_at", "recorded_at",
}

// statGrades are the key grades summarized by GetStats price ranges.
var statGrades = []string{"petrol_95", "auto_diesel", "kerosene"}

// currentPriceGrades are the grades reported as the current sheet.
var currentPriceGrades = []string{
	"petrol_95", "petrol_92", "auto_diesel", "super_diesel", "kerosene",
}

type FuelPriceRepository interface {
	// Insert dedups on the trimmed date_str: a sheet for an already stored
	// display date returns the existing id without writing.
	Insert(ctx context.Context, record *entity.FuelPriceRecord) (string, error)
	// GetLatest returns the sheet with the maximum parsed date, nil when
	// the table is empty.
	GetLatest(ctx context.Context) (*entity.FuelPriceRecord, error)
	// GetHistory returns sheets newest first, optionally from startDate on.
	// A zero limit keeps the default of 30.
	GetHistory(ctx context.Context, limit int, startDate *time.Time) ([]entity.FuelPriceRecord, error)
	// GetAll returns every sheet oldest first.
	GetAll(ctx context.Context) ([]entity.FuelPriceRecord, error)
	GetTrend(ctx context.Context, fuelType string, days int) (*entity.FuelTrend, error)
	GetStats(ctx context.Context) (*entity.FuelStats, error)
}

type fuelPriceRepository struct {
	mu    sync.Mutex
	table *csvTable
	clock clockwork.Clock
	ids   *idGenerator
}

func NewFuelPriceRepository(dataDir string, clock clockwork.Clock, log *logger.Logger) (FuelPriceRepository, error) {
	table, err := newCSVTable(dataDir, "fuel_prices.csv", fuelHeader, log)
	if err != nil {
		return nil, err
	}
	return &fuelPriceRepository{
		table: table,
		clock: clock,
		ids:   newIDGenerator(clock),
	}, nil
}

func (r *fuelPriceRepository) Insert(ctx context.Context, record *entity.FuelPriceRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dateStr := strings.TrimSpace(record.DateStr)
	if dateStr != "" {
		for _, row := range r.table.readAll() {
			if strings.TrimSpace(row[2]) == dateStr {
				return row[0], nil
			}
		}
	}

	if record.ID == "" {
		record.ID = r.ids.Next()
	}
	now := r.clock.Now()
	if record.Date.IsZero() {
		record.Date = now
	}
	if record.ScrapedAt.IsZero() {
		record.ScrapedAt = now
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = now
	}

	if err := r.table.appendRow(encodeFuelPrice(record)); err != nil {
		return "", err
	}
	return record.ID, nil
}

func (r *fuelPriceRepository) GetLatest(ctx context.Context) (*entity.FuelPriceRecord, error) {
	records := r.decodeAll()
	if len(records) == 0 {
		return nil, nil
	}
	latest := records[0]
	for _, rec := range records[1:] {
		if rec.Date.After(latest.Date) {
			latest = rec
		}
	}
	return &latest, nil
}

func (r *fuelPriceRepository) GetHistory(ctx context.Context, limit int, startDate *time.Time) ([]entity.FuelPriceRecord, error) {
	if limit <= 0 {
		limit = 30
	}

	records := r.decodeAll()
	if startDate != nil {
		filtered := records[:0]
		for _, rec := range records {
			if !rec.Date.Before(*startDate) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (r *fuelPriceRepository) GetAll(ctx context.Context) ([]entity.FuelPriceRecord, error) {
	records := r.decodeAll()
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

func (r *fuelPriceRepository) GetTrend(ctx context.Context, fuelType string, days int) (*entity.FuelTrend, error) {
	var cutoff time.Time
	if days > 0 {
		cutoff = r.clock.Now().AddDate(0, 0, -days)
	}

	var series []entity.FuelPriceRecord
	for _, rec := range r.decodeAll() {
		if rec.Price(fuelType) == nil {
			continue
		}
		if days > 0 && rec.Date.Before(cutoff) {
			continue
		}
		series = append(series, rec)
	}
	if len(series) == 0 {
		return nil, nil
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	trend := &entity.FuelTrend{
		FuelType:   fuelType,
		DataPoints: len(series),
		StartDate:  formatDate(series[0].Date),
		EndDate:    formatDate(series[len(series)-1].Date),
		Prices:     make([]entity.FuelTrendPoint, 0, len(series)),
	}
	prices := make([]float64, 0, len(series))
	for _, rec := range series {
		price := *rec.Price(fuelType)
		prices = append(prices, price)
		trend.Prices = append(trend.Prices, entity.FuelTrendPoint{
			Date:    formatDate(rec.Date),
			DateStr: rec.DateStr,
			Price:   price,
		})
	}

	if len(prices) > 1 {
		slope := leastSquaresSlope(prices)
		first := prices[0]
		last := prices[len(prices)-1]
		pct := 0.0
		if first > 0 {
			pct = (last - first) / first * 100
		}
		direction := "stable"
		if slope > 0 {
			direction = "up"
		} else if slope < 0 {
			direction = "down"
		}
		trend.Analysis = &entity.FuelTrendAnalysis{
			SlopePerDay:      slope,
			PercentageChange: pct,
			Trend:            direction,
			StartPrice:       first,
			EndPrice:         last,
			AbsoluteChange:   last - first,
		}
	}
	return trend, nil
}

func (r *fuelPriceRepository) GetStats(ctx context.Context) (*entity.FuelStats, error) {
	records, err := r.GetAll(ctx)
	if err != nil || len(records) == 0 {
		return nil, err
	}

	latest := records[len(records)-1]
	stats := &entity.FuelStats{
		TotalRecords: len(records),
		DateRange: entity.FuelDateRange{
			Earliest: formatDate(records[0].Date),
			Latest:   formatDate(latest.Date),
		},
		CurrentPrices: make(map[string]*float64, len(currentPriceGrades)),
		PriceRanges:   make(map[string]entity.FuelPriceRange, len(statGrades)),
	}
	for _, grade := range currentPriceGrades {
		stats.CurrentPrices[grade] = latest.Price(grade)
	}

	for _, grade := range statGrades {
		var values []float64
		for _, rec := range records {
			if p := rec.Price(grade); p != nil {
				values = append(values, *p)
			}
		}
		if len(values) == 0 {
			continue
		}
		rng := entity.FuelPriceRange{
			Min:    values[0],
			Max:    values[0],
			Latest: values[len(values)-1],
		}
		sum := 0.0
		for _, v := range values {
			if v < rng.Min {
				rng.Min = v
			}
			if v > rng.Max {
				rng.Max = v
			}
			sum += v
		}
		rng.Average = sum / float64(len(values))
		stats.PriceRanges[grade] = rng
	}
	return stats, nil
}

// decodeAll parses every row, dropping rows whose date column cannot be
// coerced to a real date.
func (r *fuelPriceRepository) decodeAll() []entity.FuelPriceRecord {
	r.mu.Lock()
	rows := r.table.readAll()
	r.mu.Unlock()

	records := make([]entity.FuelPriceRecord, 0, len(rows))
	for _, row := range rows {
		if rec, ok := decodeFuelPrice(row, r.clock); ok {
			records = append(records, rec)
		}
	}
	return records
}

// leastSquaresSlope fits price against the zero-based observation index.
func leastSquaresSlope(values []float64) float64 {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
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

func encodeFuelPrice(record *entity.FuelPriceRecord) []string {
	return []string{
		record.ID,
		formatDate(record.Date),
		record.DateStr,
		formatOptFloat(record.Petrol95),
		formatOptFloat(record.Petrol92),
		formatOptFloat(record.AutoDiesel),
		formatOptFloat(record.SuperDiesel),
		formatOptFloat(record.Kerosene),
		formatOptFloat(record.IndustrialKerosene),
		formatOptFloat(record.Furnace800),
		formatOptFloat(record.Furnace1500High),
		formatOptFloat(record.Furnace1500Low),
		record.Location,
		record.Source,
		formatTime(record.ScrapedAt),
		formatTime(record.RecordedAt),
	}
}

func decodeFuelPrice(row []string, clock clockwork.Clock) (entity.FuelPriceRecord, bool) {
	date, ok := parseDateCell(row[1])
	if !ok {
		return entity.FuelPriceRecord{}, false
	}

	var warnings []string
	record := entity.FuelPriceRecord{
		ID:                 row[0],
		Date:               date,
		DateStr:            row[2],
		Petrol95:           parseOptFloatCell(row[3], "petrol_95", &warnings),
		Petrol92:           parseOptFloatCell(row[4], "petrol_92", &warnings),
		AutoDiesel:         parseOptFloatCell(row[5], "auto_diesel", &warnings),
		SuperDiesel:        parseOptFloatCell(row[6], "super_diesel", &warnings),
		Kerosene:           parseOptFloatCell(row[7], "kerosene", &warnings),
		IndustrialKerosene: parseOptFloatCell(row[8], "industrial_kerosene", &warnings),
		Furnace800:         parseOptFloatCell(row[9], "furnace_800", &warnings),
		Furnace1500High:    parseOptFloatCell(row[10], "furnace_1500_high", &warnings),
		Furnace1500Low:     parseOptFloatCell(row[11], "furnace_1500_low", &warnings),
		Location:           row[12],
		Source:             row[13],
		ScrapedAt:          parseTimeCell(row[14], "scraped_at", clock, &warnings),
		RecordedAt:         parseTimeCell(row[15], "recorded_at", clock, &warnings),
	}
	record.DecodeWarnings = warnings
	return record, true
}
