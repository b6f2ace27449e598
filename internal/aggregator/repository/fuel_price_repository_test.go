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

func newFuelRepo(t *testing.T, now time.Time) FuelPriceRepository {
	t.Helper()
	repo, err := NewFuelPriceRepository(t.TempDir(), clockwork.NewFakeClockAt(now), newTestLogger(t))
	require.NoError(t, err)
	return repo
}

func fuelSheet(date time.Time, dateStr string, petrol95 float64) *entity.FuelPriceRecord {
	return &entity.FuelPriceRecord{
		Date:       date,
		DateStr:    dateStr,
		Petrol95:   utils.ToPointer(petrol95),
		AutoDiesel: utils.ToPointer(petrol95 - 50),
		Kerosene:   utils.ToPointer(petrol95 - 100),
		Location:   "Sri Lanka",
		Source:     entity.FuelSourceCeypetco,
	}
}

func TestFuelInsertIsIdempotentOnDateStr(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	repo := newFuelRepo(t, now)
	ctx := context.Background()

	first, err := repo.Insert(ctx, fuelSheet(now, "01.06.2025", 365))
	require.NoError(t, err)

	// Same display date with different prices is a no-op returning the
	// original id. Surrounding whitespace does not defeat the match.
	second, err := repo.Insert(ctx, fuelSheet(now, " 01.06.2025 ", 999))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 365.0, *all[0].Petrol95)
}

func TestFuelLatestAndHistory(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	repo := newFuelRepo(t, now)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		_, err := repo.Insert(ctx, fuelSheet(d, d.Format("02.01.2006"), 300+float64(i)*10))
		require.NoError(t, err)
	}

	latest, err := repo.GetLatest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "01.06.2025", latest.DateStr)

	history, err := repo.GetHistory(ctx, 0, nil)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "01.06.2025", history[0].DateStr)
	assert.Equal(t, "01.04.2025", history[2].DateStr)

	from := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	history, err = repo.GetHistory(ctx, 0, &from)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	history, err = repo.GetHistory(ctx, 1, nil)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "01.06.2025", history[0].DateStr)
}

func TestFuelLatestOnEmptyTable(t *testing.T) {
	repo := newFuelRepo(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	latest, err := repo.GetLatest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestFuelTrendSlopeSign(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("rising series trends up", func(t *testing.T) {
		repo := newFuelRepo(t, now)
		ctx := context.Background()
		for i, price := range []float64{340, 350, 365, 380} {
			d := now.AddDate(0, 0, -30+i*7)
			_, err := repo.Insert(ctx, fuelSheet(d, d.Format("02.01.2006"), price))
			require.NoError(t, err)
		}

		trend, err := repo.GetTrend(ctx, "petrol_95", 0)
		require.NoError(t, err)
		require.NotNil(t, trend)
		require.NotNil(t, trend.Analysis)
		assert.Equal(t, "up", trend.Analysis.Trend)
		assert.Greater(t, trend.Analysis.SlopePerDay, 0.0)
		assert.Equal(t, 40.0, trend.Analysis.AbsoluteChange)
		assert.InDelta(t, 11.76, trend.Analysis.PercentageChange, 0.01)
		assert.Equal(t, 4, trend.DataPoints)
	})

	t.Run("constant series is stable", func(t *testing.T) {
		repo := newFuelRepo(t, now)
		ctx := context.Background()
		for i := 0; i < 3; i++ {
			d := now.AddDate(0, 0, -20+i*7)
			_, err := repo.Insert(ctx, fuelSheet(d, d.Format("02.01.2006"), 355))
			require.NoError(t, err)
		}

		trend, err := repo.GetTrend(ctx, "petrol_95", 0)
		require.NoError(t, err)
		require.NotNil(t, trend)
		require.NotNil(t, trend.Analysis)
		assert.Equal(t, "stable", trend.Analysis.Trend)
		assert.Equal(t, 0.0, trend.Analysis.SlopePerDay)
	})

	t.Run("day window drops old sheets", func(t *testing.T) {
		repo := newFuelRepo(t, now)
		ctx := context.Background()
		old := now.AddDate(0, 0, -90)
		_, err := repo.Insert(ctx, fuelSheet(old, old.Format("02.01.2006"), 300))
		require.NoError(t, err)
		recent := now.AddDate(0, 0, -5)
		_, err = repo.Insert(ctx, fuelSheet(recent, recent.Format("02.01.2006"), 360))
		require.NoError(t, err)

		trend, err := repo.GetTrend(ctx, "petrol_95", 30)
		require.NoError(t, err)
		require.NotNil(t, trend)
		assert.Equal(t, 1, trend.DataPoints)
		assert.Nil(t, trend.Analysis)
	})

	t.Run("grade missing everywhere yields nil", func(t *testing.T) {
		repo := newFuelRepo(t, now)
		ctx := context.Background()
		_, err := repo.Insert(ctx, fuelSheet(now, "10.06.2025", 360))
		require.NoError(t, err)

		trend, err := repo.GetTrend(ctx, "furnace_800", 0)
		require.NoError(t, err)
		assert.Nil(t, trend)
	})
}

func TestFuelStatsAggregation(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	repo := newFuelRepo(t, now)
	ctx := context.Background()

	for i, price := range []float64{340, 360, 380} {
		d := time.Date(2025, time.Month(4+i), 1, 0, 0, 0, 0, time.UTC)
		_, err := repo.Insert(ctx, fuelSheet(d, d.Format("02.01.2006"), price))
		require.NoError(t, err)
	}

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	require.NotNil(t, stats)

	assert.Equal(t, 3, stats.TotalRecords)
	assert.Equal(t, "2025-04-01", stats.DateRange.Earliest)
	assert.Equal(t, "2025-06-01", stats.DateRange.Latest)

	p95 := stats.PriceRanges["petrol_95"]
	assert.Equal(t, 340.0, p95.Min)
	assert.Equal(t, 380.0, p95.Max)
	assert.Equal(t, 360.0, p95.Average)
	assert.Equal(t, 380.0, p95.Latest)

	require.NotNil(t, stats.CurrentPrices["petrol_95"])
	assert.Equal(t, 380.0, *stats.CurrentPrices["petrol_95"])
	assert.Nil(t, stats.CurrentPrices["super_diesel"])
}

func TestFuelRowsWithBadDatesAreDropped(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo, err := NewFuelPriceRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = repo.Insert(ctx, fuelSheet(now, "10.06.2025", 360))
	require.NoError(t, err)

	// A row whose date column is unreadable, appended behind the
	// repository's back.
	bad := "123,no-date,11.06.2025,370,,,,,,,,,Sri Lanka,ceypetco,,\n"
	f, err := os.OpenFile(filepath.Join(dir, "fuel_prices.csv"), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(bad)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "10.06.2025", all[0].DateStr)
}
