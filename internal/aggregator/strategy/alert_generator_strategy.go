package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/metrics"
	"golang-lanka-watch/pkg/utils"
)

// AlertGeneratorStrategy sweeps recent high severity news and raises alerts
// for items that slipped past collection-time alerting. Dedup runs on the
// news id, so the sweep is idempotent for as long as the alert stays active.
type AlertGeneratorStrategy struct {
	logger    *logger.Logger
	newsRepo  repository.NewsRepository
	alertRepo repository.AlertRepository
	metrics   *metrics.Metrics
	clock     clockwork.Clock
}

// NewAlertGeneratorStrategy creates a new instance of AlertGeneratorStrategy.
func NewAlertGeneratorStrategy(newsRepo repository.NewsRepository, alertRepo repository.AlertRepository, m *metrics.Metrics, clock clockwork.Clock, log *logger.Logger) *AlertGeneratorStrategy {
	return &AlertGeneratorStrategy{
		logger:    log,
		newsRepo:  newsRepo,
		alertRepo: alertRepo,
		metrics:   m,
		clock:     clock,
	}
}

// GetType returns the task type this strategy handles.
func (s *AlertGeneratorStrategy) GetType() entity.TaskType {
	return entity.TaskGenerateAlerts
}

// Execute scans the last hour of high severity news.
func (s *AlertGeneratorStrategy) Execute(ctx context.Context) (string, error) {
	recent, err := s.newsRepo.GetRecent(ctx, repository.NewsFilter{
		Limit:    20,
		Hours:    1,
		Severity: entity.SeverityHigh,
	})
	if err != nil {
		return FAILED, err
	}

	created := 0
	for i := range recent {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		news := recent[i]
		sourceID := fmt.Sprintf("news_%s", news.ID)

		existing, err := s.alertRepo.GetActive(ctx, repository.AlertFilter{
			Source:   entity.AlertSourceNews,
			SourceID: sourceID,
		})
		if err != nil {
			s.logger.Error("Failed to check existing alerts", logger.ErrorField(err))
			continue
		}
		if len(existing) > 0 {
			continue
		}

		alert := entity.Alert{
			Title:       news.Title,
			Description: news.Summary,
			Category:    news.Category,
			Subcategory: news.Subcategory,
			Location:    news.Location,
			Severity:    news.Severity,
			Source:      entity.AlertSourceNews,
			SourceID:    sourceID,
			StartTime:   s.clock.Now(),
			EndTime:     s.clock.Now().Add(24 * time.Hour),
		}
		if _, err := s.alertRepo.Insert(ctx, &alert); err != nil {
			s.logger.Error("Failed to create alert",
				logger.StringField("source_id", sourceID), logger.ErrorField(err))
			continue
		}
		s.metrics.RecordsInserted.WithLabelValues("alerts").Inc()
		s.metrics.AlertsCreated.WithLabelValues(alert.Severity).Inc()
		created++
	}

	s.logger.Info("Alert generation finished", logger.IntField("created", created))
	return fmt.Sprintf("generated %d alerts", created), nil
}
