package service

import (
	"context"

	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
)

// NewsService exposes read access to collected news.
type NewsService interface {
	Recent(ctx context.Context, filter repository.NewsFilter) ([]entity.NewsItem, error)
}

func NewNewsService(newsRepo repository.NewsRepository, logger *logger.Logger) NewsService {
	return &newsService{
		newsRepo: newsRepo,
		logger:   logger,
	}
}

type newsService struct {
	newsRepo repository.NewsRepository
	logger   *logger.Logger
}

func (s *newsService) Recent(ctx context.Context, filter repository.NewsFilter) ([]entity.NewsItem, error) {
	items, err := s.newsRepo.GetRecent(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to get recent news", logger.ErrorField(err))
		return nil, err
	}
	return items, nil
}
