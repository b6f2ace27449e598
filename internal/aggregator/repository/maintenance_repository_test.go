package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/utils"
)

type maintenanceFixture struct {
	dir       string
	backupDir string
	repo      MaintenanceRepository
	weather   WeatherRepository
	tweets    TweetRepository
	alerts    AlertRepository
	fuel      FuelPriceRepository
	clock     *clockwork.FakeClock
}

func newMaintenanceFixture(t *testing.T, now time.Time) *maintenanceFixture {
	t.Helper()
	dir := t.TempDir()
	clock := clockwork.NewFakeClockAt(now)
	log := newTestLogger(t)

	weather, err := NewWeatherRepository(dir, clock, log)
	require.NoError(t, err)
	tweets, err := NewTweetRepository(dir, clock, log)
	require.NoError(t, err)
	alerts, err := NewAlertRepository(dir, clock, log)
	require.NoError(t, err)
	fuel, err := NewFuelPriceRepository(dir, clock, log)
	require.NoError(t, err)

	backupDir := filepath.Join(dir, "backups")
	return &maintenanceFixture{
		dir:       dir,
		backupDir: backupDir,
		repo:      NewMaintenanceRepository(dir, backupDir, weather, tweets, alerts, clock, log),
		weather:   weather,
		tweets:    tweets,
		alerts:    alerts,
		fuel:      fuel,
		clock:     clock,
	}
}

func TestCleanupUsesFixedHorizons(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	fx := newMaintenanceFixture(t, now)
	ctx := context.Background()

	_, err := fx.weather.Insert(ctx, &entity.WeatherRecord{Location: "Colombo", Timestamp: now.AddDate(0, 0, -10)})
	require.NoError(t, err)
	_, err = fx.weather.Insert(ctx, &entity.WeatherRecord{Location: "Kandy", Timestamp: now.AddDate(0, 0, -40)})
	require.NoError(t, err)

	_, err = fx.tweets.Insert(ctx, &entity.Tweet{ID: "fresh", Timestamp: now.AddDate(0, 0, -5)})
	require.NoError(t, err)
	_, err = fx.tweets.Insert(ctx, &entity.Tweet{ID: "stale", Timestamp: now.AddDate(0, 0, -45)})
	require.NoError(t, err)

	_, err = fx.alerts.Insert(ctx, &entity.Alert{ID: "recent", CreatedAt: now.AddDate(0, 0, -2)})
	require.NoError(t, err)
	_, err = fx.alerts.Insert(ctx, &entity.Alert{ID: "expired", CreatedAt: now.AddDate(0, 0, -4)})
	require.NoError(t, err)

	_, err = fx.fuel.Insert(ctx, &entity.FuelPriceRecord{
		Date:     now.AddDate(-1, 0, 0),
		DateStr:  "10.06.2024",
		Petrol95: utils.ToPointer(310.0),
	})
	require.NoError(t, err)

	// The argument is advisory; 7 does not shrink the 30 day prune window.
	summary, err := fx.repo.CleanupOldData(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.WeatherRemoved)
	assert.Equal(t, 1, summary.TweetsRemoved)
	assert.Equal(t, 1, summary.AlertsDeactivated)

	count, err := fx.weather.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	tweets, err := fx.tweets.GetRecent(ctx, TweetFilter{})
	require.NoError(t, err)
	require.Len(t, tweets, 1)
	assert.Equal(t, "fresh", tweets[0].ID)

	active, err := fx.alerts.GetActive(ctx, AlertFilter{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "recent", active[0].ID)

	// Fuel sheets are kept forever.
	all, err := fx.fuel.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCleanupOnEmptyTables(t *testing.T) {
	fx := newMaintenanceFixture(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	summary, err := fx.repo.CleanupOldData(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, entity.CleanupSummary{}, summary)
}

func TestCreateBackupCopiesNonEmptyTables(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	fx := newMaintenanceFixture(t, now)
	ctx := context.Background()

	_, err := fx.tweets.Insert(ctx, &entity.Tweet{ID: "1", Text: "hello"})
	require.NoError(t, err)

	dir, err := fx.repo.CreateBackup(ctx)
	require.NoError(t, err)
	assert.Equal(t, fx.backupDir, dir)

	stamp := now.Format("20060102_150405")
	copied, err := os.ReadFile(filepath.Join(dir, "tweets_backup_"+stamp+".csv"))
	require.NoError(t, err)
	original, err := os.ReadFile(filepath.Join(fx.dir, "tweets.csv"))
	require.NoError(t, err)
	assert.Equal(t, original, copied)
}

func TestExportFileResolvesTypes(t *testing.T) {
	fx := newMaintenanceFixture(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	path, name, err := fx.repo.ExportFile("fuel")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fx.dir, "fuel_prices.csv"), path)
	assert.Equal(t, "fuel_prices_export.csv", name)

	_, _, err = fx.repo.ExportFile("positions")
	assert.ErrorIs(t, err, ErrUnknownExportType)
}

func TestTableStatuses(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	fx := newMaintenanceFixture(t, now)
	ctx := context.Background()

	_, err := fx.tweets.Insert(ctx, &entity.Tweet{ID: "1", Text: "hello"})
	require.NoError(t, err)

	statuses := fx.repo.TableStatuses()

	tw := statuses["tweets.csv"]
	assert.True(t, tw.Exists)
	assert.True(t, tw.Readable)
	assert.Equal(t, 2, tw.Lines) // header plus one row

	// All repositories write their header on construction.
	news := statuses["news.csv"]
	assert.True(t, news.Exists)
	assert.Equal(t, 1, news.Lines)
}
