package service

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/utils"
)

type stubFuelSource struct {
	records []entity.FuelPriceRecord
	err     error
}

func (s *stubFuelSource) ScrapePrices(ctx context.Context) ([]entity.FuelPriceRecord, error) {
	return s.records, s.err
}

func newServiceLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func newFuelService(t *testing.T, source repository.FuelSourceRepository, now time.Time) (FuelService, repository.FuelPriceRepository) {
	t.Helper()
	log := newServiceLogger(t)
	clock := clockwork.NewFakeClockAt(now)
	repo, err := repository.NewFuelPriceRepository(t.TempDir(), clock, log)
	require.NoError(t, err)
	return NewFuelService(repo, source, clock, log), repo
}

func seedSheet(date time.Time, petrol95 float64) *entity.FuelPriceRecord {
	return &entity.FuelPriceRecord{
		Date:       date,
		DateStr:    date.Format("02.01.2006"),
		Petrol95:   utils.ToPointer(petrol95),
		AutoDiesel: utils.ToPointer(petrol95 - 50),
		Kerosene:   utils.ToPointer(petrol95 - 100),
		Location:   "Sri Lanka",
		Source:     entity.FuelSourceCeypetco,
	}
}

func TestFuelLatestWithoutData(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newFuelService(t, &stubFuelSource{}, now)

	_, err := svc.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNoFuelData)
}

func TestFuelTrendRejectsUnknownGrade(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newFuelService(t, &stubFuelSource{}, now)

	_, err := svc.Trend(context.Background(), "rocket_fuel", 30)
	assert.ErrorIs(t, err, ErrInvalidFuelType)
}

func TestFuelTrendWithoutData(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newFuelService(t, &stubFuelSource{}, now)

	_, err := svc.Trend(context.Background(), "petrol_95", 30)
	assert.ErrorIs(t, err, ErrNoTrendData)
}

func TestFuelAnalyze(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc, repo := newFuelService(t, &stubFuelSource{}, now)
	ctx := context.Background()

	// A steep climb: twenty rupees per sheet lands both grades in the
	// strong_up bucket.
	for i, price := range []float64{300, 320, 340} {
		_, err := repo.Insert(ctx, seedSheet(now.AddDate(0, 0, -20+i*7), price))
		require.NoError(t, err)
	}

	analysis, err := svc.Analyze(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, analysis.DataPoints)
	assert.Equal(t, "2025-05-21", analysis.Period.Start)
	assert.Equal(t, "2025-06-04", analysis.Period.End)

	p95, ok := analysis.Analysis.Trends["petrol_95"]
	require.True(t, ok)
	assert.Equal(t, "strong_up", p95.Trend)
	assert.Equal(t, 340.0, p95.CurrentPrice)
	assert.Equal(t, 300.0, p95.MinPrice)
	assert.Equal(t, 340.0, p95.MaxPrice)
	assert.Equal(t, 20.0, p95.SlopePerDay)
	assert.Equal(t, 13.33, p95.Change30d)
	assert.Equal(t, 20.0, p95.Volatility)

	// Rising petrol plus sharply rising diesel yields both advisories.
	require.Len(t, analysis.Analysis.Recommendations, 2)
	assert.Equal(t, "warning", analysis.Analysis.Recommendations[0].Type)
	assert.Equal(t, "alert", analysis.Analysis.Recommendations[1].Type)
}

func TestFuelAnalyzeNeedsTwoSheets(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc, repo := newFuelService(t, &stubFuelSource{}, now)
	ctx := context.Background()

	_, err := repo.Insert(ctx, seedSheet(now, 360))
	require.NoError(t, err)

	_, err = svc.Analyze(ctx)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestFuelScrapeNow(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	source := &stubFuelSource{records: []entity.FuelPriceRecord{
		*seedSheet(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 370),
		*seedSheet(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), 360),
	}}
	svc, repo := newFuelService(t, source, now)
	ctx := context.Background()

	resp, err := svc.ScrapeNow(ctx)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RecordID)
	assert.Equal(t, "2025-06-01", resp.LatestDate)

	change, ok := resp.PriceChanges["petrol_95"]
	require.True(t, ok)
	assert.Equal(t, 360.0, change.PreviousPrice)
	assert.Equal(t, 370.0, change.CurrentPrice)
	assert.Equal(t, "up", change.Trend)

	// Only the newest sheet is stored.
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "01.06.2025", all[0].DateStr)
}

func TestFuelScrapeNowEmptyResult(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newFuelService(t, &stubFuelSource{}, now)

	_, err := svc.ScrapeNow(context.Background())
	assert.ErrorIs(t, err, ErrScrapeFailed)
}

func TestSlopeTrendBuckets(t *testing.T) {
	cases := []struct {
		slope float64
		want  string
	}{
		{0.8, "strong_up"},
		{0.3, "up"},
		{0.05, "stable"},
		{-0.05, "stable"},
		{-0.3, "down"},
		{-0.8, "strong_down"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, slopeTrend(tc.slope), "slope %v", tc.slope)
	}
}

func TestSampleStdDev(t *testing.T) {
	assert.Equal(t, 0.0, sampleStdDev([]float64{5}))
	assert.InDelta(t, 1.4142, sampleStdDev([]float64{2, 4}), 0.0001)
	assert.Equal(t, 0.0, sampleStdDev([]float64{3, 3, 3}))
}
