package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-lanka-watch/internal/aggregator/config"
	"golang-lanka-watch/internal/aggregator/strategy"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/metrics"
)

type stubTask struct {
	taskType entity.TaskType
	runs     int
	err      error
}

func (s *stubTask) Execute(ctx context.Context) (string, error) {
	s.runs++
	return "done", s.err
}

func (s *stubTask) GetType() entity.TaskType {
	return s.taskType
}

func newScheduler(t *testing.T, cfg *config.Config, clock clockwork.Clock, tasks ...*stubTask) *schedulerService {
	t.Helper()
	var list []strategy.Task
	for _, task := range tasks {
		list = append(list, task)
	}
	svc := NewSchedulerService(cfg, list, metrics.NewMetricsForTesting(), clock, newServiceLogger(t))
	impl, ok := svc.(*schedulerService)
	require.True(t, ok)
	return impl
}

func TestTaskIntervalDefaults(t *testing.T) {
	cfg := &config.Config{}

	cases := []struct {
		taskType entity.TaskType
		want     time.Duration
	}{
		{entity.TaskCollectNews, 5 * time.Minute},
		{entity.TaskCollectWeather, 15 * time.Minute},
		{entity.TaskCollectTweets, 8 * time.Hour},
		{entity.TaskCollectFuelPrices, 15 * 24 * time.Hour},
		{entity.TaskGenerateAlerts, 10 * time.Minute},
		{entity.TaskCleanupData, time.Hour},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, taskInterval(cfg, tc.taskType), "task %s", tc.taskType)
	}

	cfg.Scheduler.NewsInterval = 90 * time.Second
	assert.Equal(t, 90*time.Second, taskInterval(cfg, entity.TaskCollectNews))
}

func TestTaskCronOnlyForCleanupAndFuel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scheduler.CleanupCron = "0 3 * * *"
	cfg.Scheduler.FuelCron = "0 6 1,15 * *"

	assert.Equal(t, "0 3 * * *", taskCron(cfg, entity.TaskCleanupData))
	assert.Equal(t, "0 6 1,15 * *", taskCron(cfg, entity.TaskCollectFuelPrices))
	assert.Empty(t, taskCron(cfg, entity.TaskCollectNews))
}

func TestParseCronFallsBackOnBadExpression(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	s := newScheduler(t, &config.Config{}, clock)

	assert.Nil(t, s.parseCron("", entity.TaskCleanupData))
	assert.Nil(t, s.parseCron("not a cron", entity.TaskCleanupData))
	assert.NotNil(t, s.parseCron("0 3 * * *", entity.TaskCleanupData))
	assert.NotNil(t, s.parseCron("@daily", entity.TaskCleanupData))
}

func TestIsDueWithInterval(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	cfg := &config.Config{}
	cfg.Scheduler.NewsInterval = 5 * time.Minute

	task := &stubTask{taskType: entity.TaskCollectNews}
	s := newScheduler(t, cfg, clock, task)
	entry := s.entries[0]

	// Never-run tasks are immediately due.
	assert.True(t, s.isDue(entry))

	entry.lastRun = now
	assert.False(t, s.isDue(entry))

	clock.Advance(4 * time.Minute)
	assert.False(t, s.isDue(entry))

	clock.Advance(time.Minute)
	assert.True(t, s.isDue(entry))
}

func TestIsDueWithCronSchedule(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	cfg := &config.Config{}
	cfg.Scheduler.CleanupCron = "0 3 * * *"

	task := &stubTask{taskType: entity.TaskCleanupData}
	s := newScheduler(t, cfg, clock, task)
	entry := s.entries[0]
	require.NotNil(t, entry.schedule)

	entry.lastRun = now
	assert.False(t, s.isDue(entry))

	// Next 03:00 arrives.
	clock.Advance(15 * time.Hour)
	assert.True(t, s.isDue(entry))
}

func TestRunDueTasksExecutesSequentially(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)

	failing := &stubTask{taskType: entity.TaskCollectNews, err: errors.New("feed down")}
	healthy := &stubTask{taskType: entity.TaskGenerateAlerts}
	s := newScheduler(t, &config.Config{}, clock, failing, healthy)

	ctx := context.Background()
	s.runDueTasks(ctx)

	// A failing task does not stop the ones behind it.
	assert.Equal(t, 1, failing.runs)
	assert.Equal(t, 1, healthy.runs)

	// Nothing is due again on the next pass.
	s.runDueTasks(ctx)
	assert.Equal(t, 1, failing.runs)
	assert.Equal(t, 1, healthy.runs)
}

func TestRunDueTasksStopsOnCancelledContext(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	task := &stubTask{taskType: entity.TaskCollectNews}
	s := newScheduler(t, &config.Config{}, clock, task)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.runDueTasks(ctx)
	assert.Equal(t, 0, task.runs)
}
