package strategy

import (
	"context"
	"fmt"

	"golang-lanka-watch/internal/aggregator/config"
	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
)

// CleanupStrategy runs the retention pass, optionally snapshotting the data
// files first.
type CleanupStrategy struct {
	logger        *logger.Logger
	maintenance   repository.MaintenanceRepository
	backupOnClean bool
	retentionDays int
}

// NewCleanupStrategy creates a new instance of CleanupStrategy.
func NewCleanupStrategy(cfg *config.Config, maintenance repository.MaintenanceRepository, log *logger.Logger) *CleanupStrategy {
	retentionDays := cfg.Scheduler.RetentionDays
	if retentionDays <= 0 {
		retentionDays = 7
	}
	return &CleanupStrategy{
		logger:        log,
		maintenance:   maintenance,
		backupOnClean: cfg.Scheduler.BackupOnClean,
		retentionDays: retentionDays,
	}
}

// GetType returns the task type this strategy handles.
func (s *CleanupStrategy) GetType() entity.TaskType {
	return entity.TaskCleanupData
}

// Execute prunes aged data. A failed backup never blocks the retention pass.
func (s *CleanupStrategy) Execute(ctx context.Context) (string, error) {
	if s.backupOnClean {
		dir, err := s.maintenance.CreateBackup(ctx)
		if err != nil {
			s.logger.Error("Backup before cleanup failed", logger.ErrorField(err))
		} else {
			s.logger.Info("Backup created", logger.StringField("dir", dir))
		}
	}

	summary, err := s.maintenance.CleanupOldData(ctx, s.retentionDays)
	if err != nil {
		return FAILED, err
	}

	s.logger.Info("Cleanup finished",
		logger.IntField("weather_removed", summary.WeatherRemoved),
		logger.IntField("tweets_removed", summary.TweetsRemoved),
		logger.IntField("alerts_deactivated", summary.AlertsDeactivated))
	return fmt.Sprintf("removed %d weather records, %d tweets, deactivated %d alerts",
		summary.WeatherRemoved, summary.TweetsRemoved, summary.AlertsDeactivated), nil
}
