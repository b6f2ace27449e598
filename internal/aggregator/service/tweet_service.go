package service

import (
	"context"

	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/ratelimit"
)

// TweetService exposes read access to collected tweets and the
// Twitter API usage counters.
type TweetService interface {
	Recent(ctx context.Context, filter repository.TweetFilter) ([]entity.Tweet, error)
	Usage() (ratelimit.UsageStats, error)
}

func NewTweetService(tweetRepo repository.TweetRepository, twitterRepo repository.TwitterRepository, logger *logger.Logger) TweetService {
	return &tweetService{
		tweetRepo:   tweetRepo,
		twitterRepo: twitterRepo,
		logger:      logger,
	}
}

type tweetService struct {
	tweetRepo   repository.TweetRepository
	twitterRepo repository.TwitterRepository
	logger      *logger.Logger
}

func (s *tweetService) Recent(ctx context.Context, filter repository.TweetFilter) ([]entity.Tweet, error) {
	tweets, err := s.tweetRepo.GetRecent(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to get recent tweets", logger.ErrorField(err))
		return nil, err
	}
	return tweets, nil
}

func (s *tweetService) Usage() (ratelimit.UsageStats, error) {
	if !s.twitterRepo.IsConfigured() {
		return ratelimit.UsageStats{}, ErrTwitterNotConfigured
	}
	return s.twitterRepo.Usage(), nil
}
