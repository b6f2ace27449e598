package service

import (
	"context"
	"time"

	"golang-lanka-watch/internal/aggregator/config"
	"golang-lanka-watch/internal/aggregator/strategy"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/metrics"
	"golang-lanka-watch/pkg/utils"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
)

// Default cadences for each collector, applied when the configuration
// leaves an interval unset.
const (
	defaultTickInterval    = time.Second
	defaultNewsInterval    = 5 * time.Minute
	defaultWeatherInterval = 15 * time.Minute
	defaultTwitterInterval = 8 * time.Hour
	defaultFuelInterval    = 15 * 24 * time.Hour
	defaultAlertsInterval  = 10 * time.Minute
	defaultCleanupInterval = time.Hour
)

// SchedulerService drives the collection tasks on their configured cadences.
type SchedulerService interface {
	Start(ctx context.Context)
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(cfg *config.Config, tasks []strategy.Task, m *metrics.Metrics, clock clockwork.Clock, logger *logger.Logger) SchedulerService {
	s := &schedulerService{
		logger:        logger,
		metrics:       m,
		clock:         clock,
		tick:          cfg.Scheduler.TickInterval,
		runAllOnStart: cfg.Scheduler.RunAllOnStart,
		cronParser:    cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
	if s.tick <= 0 {
		s.tick = defaultTickInterval
	}
	for _, task := range tasks {
		s.entries = append(s.entries, &taskEntry{
			task:     task,
			interval: taskInterval(cfg, task.GetType()),
			schedule: s.parseCron(taskCron(cfg, task.GetType()), task.GetType()),
		})
	}
	return s
}

type schedulerService struct {
	logger        *logger.Logger
	metrics       *metrics.Metrics
	clock         clockwork.Clock
	tick          time.Duration
	runAllOnStart bool
	cronParser    cron.Parser
	entries       []*taskEntry
}

// taskEntry tracks one task and when it last ran. A nil schedule means the
// task runs on its fixed interval.
type taskEntry struct {
	task     strategy.Task
	interval time.Duration
	schedule cron.Schedule
	lastRun  time.Time
}

// Start begins the periodic task processing loop. It blocks until the
// context is cancelled.
func (s *schedulerService) Start(ctx context.Context) {
	if s.runAllOnStart {
		for _, entry := range s.entries {
			if !utils.ShouldContinue(ctx, s.logger) {
				return
			}
			s.run(ctx, entry)
		}
	}

	ticker := s.clock.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler service stopping")
			return
		case <-ticker.Chan():
			s.runDueTasks(ctx)
		}
	}
}

// runDueTasks executes every due task, one at a time. Collectors share the
// CSV store, so runs are kept sequential rather than fanned out.
func (s *schedulerService) runDueTasks(ctx context.Context) {
	for _, entry := range s.entries {
		if !utils.ShouldContinue(ctx, s.logger) {
			return
		}
		if s.isDue(entry) {
			s.run(ctx, entry)
		}
	}
}

func (s *schedulerService) isDue(entry *taskEntry) bool {
	if entry.lastRun.IsZero() {
		return true
	}
	now := s.clock.Now()
	if entry.schedule != nil {
		return !now.Before(entry.schedule.Next(entry.lastRun))
	}
	return now.Sub(entry.lastRun) >= entry.interval
}

func (s *schedulerService) run(ctx context.Context, entry *taskEntry) {
	taskType := string(entry.task.GetType())
	start := s.clock.Now()
	entry.lastRun = start

	result, err := entry.task.Execute(ctx)
	elapsed := s.clock.Since(start)
	s.metrics.TaskDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())

	if err != nil {
		s.metrics.TaskRuns.WithLabelValues(taskType, entity.TaskStatusFailed).Inc()
		s.logger.Error("Task execution failed",
			logger.StringField("task", taskType),
			logger.StringField("result", result),
			logger.ErrorField(err),
			logger.Field("duration", elapsed),
		)
		return
	}

	s.metrics.TaskRuns.WithLabelValues(taskType, entity.TaskStatusSuccess).Inc()
	s.logger.Info("Task execution completed",
		logger.StringField("task", taskType),
		logger.StringField("result", result),
		logger.Field("duration", elapsed),
	)
}

// parseCron parses the optional cron expression for a task. An invalid
// expression is logged and the task falls back to its fixed interval.
func (s *schedulerService) parseCron(expr string, taskType entity.TaskType) cron.Schedule {
	if expr == "" {
		return nil
	}
	schedule, err := s.cronParser.Parse(expr)
	if err != nil {
		s.logger.Error("Failed to parse cron expression, falling back to interval",
			logger.StringField("task", string(taskType)),
			logger.StringField("cron", expr),
			logger.ErrorField(err),
		)
		return nil
	}
	return schedule
}

func taskInterval(cfg *config.Config, taskType entity.TaskType) time.Duration {
	configured := map[entity.TaskType]time.Duration{
		entity.TaskCollectNews:       cfg.Scheduler.NewsInterval,
		entity.TaskCollectWeather:    cfg.Scheduler.WeatherInterval,
		entity.TaskCollectTweets:     cfg.Scheduler.TwitterInterval,
		entity.TaskCollectFuelPrices: cfg.Scheduler.FuelInterval,
		entity.TaskGenerateAlerts:    cfg.Scheduler.AlertsInterval,
		entity.TaskCleanupData:       cfg.Scheduler.CleanupInterval,
	}
	if interval, ok := configured[taskType]; ok && interval > 0 {
		return interval
	}

	switch taskType {
	case entity.TaskCollectWeather:
		return defaultWeatherInterval
	case entity.TaskCollectTweets:
		return defaultTwitterInterval
	case entity.TaskCollectFuelPrices:
		return defaultFuelInterval
	case entity.TaskGenerateAlerts:
		return defaultAlertsInterval
	case entity.TaskCleanupData:
		return defaultCleanupInterval
	default:
		return defaultNewsInterval
	}
}

func taskCron(cfg *config.Config, taskType entity.TaskType) string {
	switch taskType {
	case entity.TaskCleanupData:
		return cfg.Scheduler.CleanupCron
	case entity.TaskCollectFuelPrices:
		return cfg.Scheduler.FuelCron
	default:
		return ""
	}
}
