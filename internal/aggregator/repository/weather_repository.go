package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
)

var weatherHeader = []string{
	"id", "location", "temperature", "feels_like", "humidity",
	"weather", "description", "wind_speed", "rain", "alerts",
	"forecast", "timestamp",
}

type WeatherRepository interface {
	Insert(ctx context.Context, record *entity.WeatherRecord) (string, error)
	// GetLatest returns records sorted newest first, optionally restricted
	// to one location by exact match. A zero limit keeps the default of 10.
	GetLatest(ctx context.Context, location string, limit int) ([]entity.WeatherRecord, error)
	// LatestPerLocation keeps only the newest record for each location,
	// sorted by location name.
	LatestPerLocation(ctx context.Context) ([]entity.WeatherRecord, error)
	Count(ctx context.Context) (int, error)
	// PruneOlderThan hard-deletes rows with a timestamp before the cutoff
	// and reports how many were removed.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

type weatherRepository struct {
	mu    sync.Mutex
	table *csvTable
	clock clockwork.Clock
	ids   *idGenerator
}

func NewWeatherRepository(dataDir string, clock clockwork.Clock, log *logger.Logger) (WeatherRepository, error) {
	table, err := newCSVTable(dataDir, "weather.csv", weatherHeader, log)
	if err != nil {
		return nil, err
	}
	return &weatherRepository{
		table: table,
		clock: clock,
		ids:   newIDGenerator(clock),
	}, nil
}

func (r *weatherRepository) Insert(ctx context.Context, record *entity.WeatherRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = r.ids.Next()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = r.clock.Now()
	}

	if err := r.table.appendRow(encodeWeather(record)); err != nil {
		return "", err
	}
	return record.ID, nil
}

func (r *weatherRepository) GetLatest(ctx context.Context, location string, limit int) ([]entity.WeatherRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	records := r.decodeAll()
	if location != "" {
		filtered := records[:0]
		for _, rec := range records {
			if rec.Location == location {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (r *weatherRepository) LatestPerLocation(ctx context.Context) ([]entity.WeatherRecord, error) {
	latest := make(map[string]entity.WeatherRecord)
	for _, rec := range r.decodeAll() {
		if current, ok := latest[rec.Location]; !ok || rec.Timestamp.After(current.Timestamp) {
			latest[rec.Location] = rec
		}
	}

	records := make([]entity.WeatherRecord, 0, len(latest))
	for _, rec := range latest {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Location < records[j].Location
	})
	return records, nil
}

func (r *weatherRepository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.table.readAll()), nil
}

func (r *weatherRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.table.readAll()
	kept := make([][]string, 0, len(rows))
	removed := 0
	for _, row := range rows {
		var warnings []string
		ts := parseTimeCell(row[11], "timestamp", r.clock, &warnings)
		if ts.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	if removed == 0 {
		return 0, nil
	}
	if err := r.table.rewrite(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *weatherRepository) decodeAll() []entity.WeatherRecord {
	r.mu.Lock()
	rows := r.table.readAll()
	r.mu.Unlock()

	records := make([]entity.WeatherRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, decodeWeather(row, r.clock))
	}
	return records
}

func encodeWeather(record *entity.WeatherRecord) []string {
	return []string{
		record.ID,
		record.Location,
		formatFloat(record.Temperature),
		formatFloat(record.FeelsLike),
		formatFloat(record.Humidity),
		record.Weather,
		record.Description,
		formatFloat(record.WindSpeed),
		formatFloat(record.Rain),
		encodeJSONList(record.Alerts),
		encodeJSONList(record.Forecast),
		formatTime(record.Timestamp),
	}
}

func decodeWeather(row []string, clock clockwork.Clock) entity.WeatherRecord {
	var warnings []string
	record := entity.WeatherRecord{
		ID:          row[0],
		Location:    row[1],
		Temperature: parseFloatCell(row[2], "temperature", &warnings),
		FeelsLike:   parseFloatCell(row[3], "feels_like", &warnings),
		Humidity:    parseFloatCell(row[4], "humidity", &warnings),
		Weather:     row[5],
		Description: row[6],
		WindSpeed:   parseFloatCell(row[7], "wind_speed", &warnings),
		Rain:        parseFloatCell(row[8], "rain", &warnings),
		Alerts:      decodeJSONList[entity.WeatherAlert](row[9], "alerts", &warnings),
		Forecast:    decodeJSONList[entity.ForecastEntry](row[10], "forecast", &warnings),
		Timestamp:   parseTimeCell(row[11], "timestamp", clock, &warnings),
	}
	record.DecodeWarnings = warnings
	return record
}
