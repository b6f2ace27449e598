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

var newsHeader = []string{
	"id", "title", "summary", "full_text", "link", "source",
	"category", "subcategory", "location", "impact", "severity",
	"keywords", "timestamp", "processed_at",
}

// NewsFilter narrows GetRecent results. Category and severity match
// exactly, location by containment. Zero Hours and Limit fall back to the
// 24 hour window and 50 rows.
type NewsFilter struct {
	Limit    int
	Hours    int
	Category string
	Severity string
	Location string
}

type NewsRepository interface {
	Insert(ctx context.Context, item *entity.NewsItem) (string, error)
	GetRecent(ctx context.Context, filter NewsFilter) ([]entity.NewsItem, error)
	Count(ctx context.Context) (int, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
}

type newsRepository struct {
	mu    sync.Mutex
	table *csvTable
	clock clockwork.Clock
	ids   *idGenerator
}

func NewNewsRepository(dataDir string, clock clockwork.Clock, log *logger.Logger) (NewsRepository, error) {
	table, err := newCSVTable(dataDir, "news.csv", newsHeader, log)
	if err != nil {
		return nil, err
	}
	return &newsRepository{
		table: table,
		clock: clock,
		ids:   newIDGenerator(clock),
	}, nil
}

func (r *newsRepository) Insert(ctx context.Context, item *entity.NewsItem) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = r.ids.Next()
	}
	now := r.clock.Now()
	if item.Timestamp.IsZero() {
		item.Timestamp = now
	}
	if item.ProcessedAt.IsZero() {
		item.ProcessedAt = now
	}

	if err := r.table.appendRow(encodeNews(item)); err != nil {
		return "", err
	}
	return item.ID, nil
}

func (r *newsRepository) GetRecent(ctx context.Context, filter NewsFilter) ([]entity.NewsItem, error) {
	if filter.Hours <= 0 {
		filter.Hours = 24
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	cutoff := r.clock.Now().Add(-time.Duration(filter.Hours) * time.Hour)

	r.mu.Lock()
	rows := r.table.readAll()
	r.mu.Unlock()

	items := make([]entity.NewsItem, 0, len(rows))
	for _, row := range rows {
		item := decodeNews(row, r.clock)
		if item.Timestamp.Before(cutoff) {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Severity != "" && item.Severity != filter.Severity {
			continue
		}
		if filter.Location != "" && !strings.Contains(item.Location, filter.Location) {
			continue
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (r *newsRepository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.table.readAll()), nil
}

func (r *newsRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	r.mu.Lock()
	rows := r.table.readAll()
	r.mu.Unlock()

	counts := make(map[string]int)
	for _, row := range rows {
		if category := strings.TrimSpace(row[6]); category != "" {
			counts[category]++
		}
	}
	return counts, nil
}

func encodeNews(item *entity.NewsItem) []string {
	return []string{
		item.ID,
		item.Title,
		item.Summary,
		item.FullText,
		item.Link,
		item.Source,
		item.Category,
		item.Subcategory,
		item.Location,
		item.Impact,
		item.Severity,
		encodeJSONList(item.Keywords),
		formatTime(item.Timestamp),
		formatTime(item.ProcessedAt),
	}
}

func decodeNews(row []string, clock clockwork.Clock) entity.NewsItem {
	var warnings []string
	item := entity.NewsItem{
		ID:          row[0],
		Title:       row[1],
		Summary:     row[2],
		FullText:    row[3],
		Link:        row[4],
		Source:      row[5],
		Category:    row[6],
		Subcategory: row[7],
		Location:    row[8],
		Impact:      row[9],
		Severity:    row[10],
		Keywords:    decodeJSONList[string](row[11], "keywords", &warnings),
		Timestamp:   parseTimeCell(row[12], "timestamp", clock, &warnings),
		ProcessedAt: parseTimeCell(row[13], "processed_at", clock, &warnings),
	}
	item.DecodeWarnings = warnings
	return item
}
