package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/patrickmn/go-cache"

	"golang-lanka-watch/internal/aggregator/classifier"
	"golang-lanka-watch/internal/aggregator/config"
	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/metrics"
	"golang-lanka-watch/pkg/telegram"
	"golang-lanka-watch/pkg/utils"
)

// NewsCollectorStrategy fetches articles from every news source, classifies
// them and stores the results. High and medium severity items additionally
// raise an alert at collection time.
type NewsCollectorStrategy struct {
	logger     *logger.Logger
	sources    []repository.NewsSourceRepository
	newsRepo   repository.NewsRepository
	alertRepo  repository.AlertRepository
	classifier classifier.Classifier
	notifier   telegram.Notifier
	seenLinks  *cache.Cache
	maxPerRun  int
	metrics    *metrics.Metrics
	clock      clockwork.Clock
}

// NewNewsCollectorStrategy creates a new instance of NewsCollectorStrategy.
func NewNewsCollectorStrategy(cfg *config.Config, sources []repository.NewsSourceRepository, newsRepo repository.NewsRepository, alertRepo repository.AlertRepository, cls classifier.Classifier, notifier telegram.Notifier, m *metrics.Metrics, clock clockwork.Clock, log *logger.Logger) *NewsCollectorStrategy {
	maxPerRun := cfg.News.MaxPerRun
	if maxPerRun <= 0 {
		maxPerRun = 20
	}
	return &NewsCollectorStrategy{
		logger:     log,
		sources:    sources,
		newsRepo:   newsRepo,
		alertRepo:  alertRepo,
		classifier: cls,
		notifier:   notifier,
		seenLinks:  cache.New(24*time.Hour, time.Hour),
		maxPerRun:  maxPerRun,
		metrics:    m,
		clock:      clock,
	}
}

// GetType returns the task type this strategy handles.
func (s *NewsCollectorStrategy) GetType() entity.TaskType {
	return entity.TaskCollectNews
}

// Execute collects from all sources and stores up to maxPerRun items.
func (s *NewsCollectorStrategy) Execute(ctx context.Context) (string, error) {
	var (
		collected []entity.NewsItem
		lastErr   error
	)
	for _, source := range s.sources {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		items, err := source.FetchLatest(ctx, s.maxPerRun)
		if err != nil {
			s.logger.Error("Failed to fetch news",
				logger.StringField("source", source.Name()), logger.ErrorField(err))
			lastErr = err
			continue
		}
		collected = append(collected, items...)
	}
	if len(collected) == 0 && lastErr != nil {
		return FAILED, fmt.Errorf("all news sources failed: %w", lastErr)
	}

	if len(collected) > s.maxPerRun {
		collected = collected[:s.maxPerRun]
	}

	stored, alerts := 0, 0
	for i := range collected {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		item := collected[i]
		if _, seen := s.seenLinks.Get(item.Link); seen {
			continue
		}

		text := fmt.Sprintf("%s %s %s", item.Title, item.Summary, item.FullText)
		classification := s.classifier.Classify(ctx, text)

		item.Category = classification.Category
		item.Subcategory = classification.Subcategory
		item.Location = classification.Location
		item.Impact = classification.Impact
		item.Severity = classification.Severity
		item.Keywords = []string{}
		item.Timestamp = s.clock.Now()

		id, err := s.newsRepo.Insert(ctx, &item)
		if err != nil {
			s.logger.Error("Failed to store news item",
				logger.StringField("title", item.Title), logger.ErrorField(err))
			continue
		}
		s.seenLinks.SetDefault(item.Link, id)
		s.metrics.RecordsInserted.WithLabelValues("news").Inc()
		stored++

		if classification.Severity == entity.SeverityHigh || classification.Severity == entity.SeverityMedium {
			if s.createNewsAlert(ctx, &item) {
				alerts++
			}
		}
	}

	s.logger.Info("News collection finished",
		logger.IntField("stored", stored), logger.IntField("alerts", alerts))
	return fmt.Sprintf("stored %d news items, created %d alerts", stored, alerts), nil
}

func (s *NewsCollectorStrategy) createNewsAlert(ctx context.Context, item *entity.NewsItem) bool {
	description := item.Summary
	if description == "" {
		description = "No description available"
	}

	alert := entity.Alert{
		Title:       item.Title,
		Description: description,
		Category:    item.Category,
		Subcategory: item.Subcategory,
		Location:    item.Location,
		Severity:    item.Severity,
		Source:      entity.AlertSourceNews,
		SourceID:    fmt.Sprintf("news_%d", s.clock.Now().Unix()),
		StartTime:   s.clock.Now(),
		EndTime:     s.clock.Now().Add(24 * time.Hour),
	}
	if _, err := s.alertRepo.Insert(ctx, &alert); err != nil {
		s.logger.Error("Failed to create news alert", logger.ErrorField(err))
		return false
	}
	s.metrics.RecordsInserted.WithLabelValues("alerts").Inc()
	s.metrics.AlertsCreated.WithLabelValues(alert.Severity).Inc()

	if s.notifier.Enabled() {
		if err := s.notifier.SendMessage(telegram.FormatAlertMessage(&alert)); err != nil {
			s.logger.Error("Failed to send alert notification", logger.ErrorField(err))
		}
	}
	return true
}
