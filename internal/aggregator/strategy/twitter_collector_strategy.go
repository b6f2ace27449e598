package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/aggregator/classifier"
	"golang-lanka-watch/internal/aggregator/config"
	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/metrics"
	"golang-lanka-watch/pkg/ratelimit"
	"golang-lanka-watch/pkg/telegram"
	"golang-lanka-watch/pkg/utils"
)

// TwitterCollectorStrategy fetches recent posts under the free tier quotas,
// classifies them and stores the results. High severity posts raise an alert.
type TwitterCollectorStrategy struct {
	logger      *logger.Logger
	twitterRepo repository.TwitterRepository
	tweetRepo   repository.TweetRepository
	alertRepo   repository.AlertRepository
	classifier  classifier.Classifier
	notifier    telegram.Notifier
	queries     []string
	maxPerRun   int
	metrics     *metrics.Metrics
	clock       clockwork.Clock
}

// NewTwitterCollectorStrategy creates a new instance of TwitterCollectorStrategy.
func NewTwitterCollectorStrategy(cfg *config.Config, twitterRepo repository.TwitterRepository, tweetRepo repository.TweetRepository, alertRepo repository.AlertRepository, cls classifier.Classifier, notifier telegram.Notifier, m *metrics.Metrics, clock clockwork.Clock, log *logger.Logger) *TwitterCollectorStrategy {
	queries := cfg.Twitter.Queries
	if len(queries) == 0 {
		queries = []string{"Sri Lanka"}
	}
	maxPerRun := cfg.Twitter.MaxPerRun
	if maxPerRun <= 0 {
		maxPerRun = 3
	}
	return &TwitterCollectorStrategy{
		logger:      log,
		twitterRepo: twitterRepo,
		tweetRepo:   tweetRepo,
		alertRepo:   alertRepo,
		classifier:  cls,
		notifier:    notifier,
		queries:     queries,
		maxPerRun:   maxPerRun,
		metrics:     m,
		clock:       clock,
	}
}

// GetType returns the task type this strategy handles.
func (s *TwitterCollectorStrategy) GetType() entity.TaskType {
	return entity.TaskCollectTweets
}

// Execute runs each configured query once, within the remaining quota.
func (s *TwitterCollectorStrategy) Execute(ctx context.Context) (string, error) {
	if !s.twitterRepo.IsConfigured() {
		s.logger.Warn("Twitter collection skipped, no bearer token")
		return SKIPPED, nil
	}

	usage := s.twitterRepo.Usage()
	s.logger.Info("Twitter API usage",
		logger.IntField("monthly_used", usage.MonthlyCount),
		logger.IntField("monthly_limit", usage.MonthlyLimit),
		logger.IntField("daily_used", usage.DailyCount),
		logger.IntField("daily_limit", usage.DailyLimit))

	if usage.MonthlyRemaining <= 0 || usage.DailyRemaining <= 0 {
		s.logger.Warn("Twitter quota exhausted, skipping collection")
		return SKIPPED, nil
	}

	stored, alerts := 0, 0
	for _, query := range s.queries {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		tweets, err := s.twitterRepo.SearchRecent(ctx, query, s.maxPerRun)
		if err != nil {
			if errors.Is(err, ratelimit.ErrDailyLimitReached) || errors.Is(err, ratelimit.ErrMonthlyLimitReached) {
				s.logger.Warn("Twitter quota reached mid run", logger.ErrorField(err))
				break
			}
			s.logger.Error("Twitter search failed",
				logger.StringField("query", query), logger.ErrorField(err))
			continue
		}

		for i := range tweets {
			tweet := tweets[i]
			classification := s.classifier.Classify(ctx, tweet.Text)
			tweet.Category = classification.Category
			tweet.Severity = classification.Severity
			tweet.Location = classification.Location

			if _, err := s.tweetRepo.Insert(ctx, &tweet); err != nil {
				s.logger.Error("Failed to store tweet",
					logger.StringField("tweet_id", tweet.ID), logger.ErrorField(err))
				continue
			}
			s.metrics.RecordsInserted.WithLabelValues("tweets").Inc()
			stored++

			if classification.Severity == entity.SeverityHigh {
				if s.createTweetAlert(ctx, &tweet, classification) {
					alerts++
				}
			}
		}
	}

	s.logger.Info("Tweet collection finished",
		logger.IntField("stored", stored), logger.IntField("alerts", alerts))
	return fmt.Sprintf("stored %d tweets, created %d alerts", stored, alerts), nil
}

func (s *TwitterCollectorStrategy) createTweetAlert(ctx context.Context, tweet *entity.Tweet, classification entity.Classification) bool {
	description := tweet.Text
	if runes := []rune(description); len(runes) > 200 {
		description = string(runes[:200])
	}

	alert := entity.Alert{
		Title:       fmt.Sprintf("Social Media Alert: %s", utils.TitleWords(classification.Category)),
		Description: description,
		Category:    classification.Category,
		Subcategory: classification.Subcategory,
		Location:    classification.Location,
		Severity:    classification.Severity,
		Source:      entity.AlertSourceTwitter,
		SourceID:    fmt.Sprintf("tweet_%s", tweet.ID),
		StartTime:   s.clock.Now(),
		EndTime:     s.clock.Now().Add(12 * time.Hour),
	}
	if _, err := s.alertRepo.Insert(ctx, &alert); err != nil {
		s.logger.Error("Failed to create tweet alert", logger.ErrorField(err))
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
