package service

import (
	"context"

	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
)

// AlertService exposes read access to active alerts.
type AlertService interface {
	Active(ctx context.Context, filter repository.AlertFilter) ([]entity.Alert, error)
}

func NewAlertService(alertRepo repository.AlertRepository, logger *logger.Logger) AlertService {
	return &alertService{
		alertRepo: alertRepo,
		logger:    logger,
	}
}

type alertService struct {
	alertRepo repository.AlertRepository
	logger    *logger.Logger
}

func (s *alertService) Active(ctx context.Context, filter repository.AlertFilter) ([]entity.Alert, error) {
	alerts, err := s.alertRepo.GetActive(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to get active alerts", logger.ErrorField(err))
		return nil, err
	}
	return alerts, nil
}
