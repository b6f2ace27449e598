package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-lanka-watch/internal/entity"
)

func TestWeatherForecastRoundTrip(t *testing.T) {
	dir := t.TempDir()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	repo, err := NewWeatherRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	forecast := []entity.ForecastEntry{
		{Time: "2025-06-10 15:00", Temperature: 31.2, Weather: "Rain", Description: "light rain", Rain: 1.4},
		{Time: "2025-06-10 18:00", Temperature: 29.8, Weather: "Rain", Description: "moderate rain", Rain: 4.0},
		{Time: "2025-06-10 21:00", Temperature: 28.1, Weather: "Clouds", Description: "overcast clouds"},
	}
	alerts := []entity.WeatherAlert{
		{Event: "Heavy Rain", Description: "over 100mm expected", Severity: "high"},
	}

	ctx := context.Background()
	_, err = repo.Insert(ctx, &entity.WeatherRecord{
		Location:    "Colombo",
		Temperature: 30.5,
		Humidity:    84,
		Weather:     "Rain",
		Alerts:      alerts,
		Forecast:    forecast,
	})
	require.NoError(t, err)

	records, err := repo.GetLatest(ctx, "Colombo", 1)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Empty(t, got.DecodeWarnings)
	if diff := cmp.Diff(forecast, got.Forecast); diff != "" {
		t.Errorf("forecast mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(alerts, got.Alerts); diff != "" {
		t.Errorf("alerts mismatch (-want +got):\n%s", diff)
	}
}

func TestWeatherInsertNeverDedups(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo, err := NewWeatherRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := repo.Insert(ctx, &entity.WeatherRecord{
			Location:    "Kandy",
			Temperature: float64(25 + i),
			Timestamp:   now.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Callers wanting "latest" rely on sort plus limit one.
	records, err := repo.GetLatest(ctx, "Kandy", 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 27.0, records[0].Temperature)
}

func TestWeatherLatestPerLocation(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo, err := NewWeatherRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	seed := []entity.WeatherRecord{
		{Location: "Galle", Temperature: 27, Timestamp: now.Add(-2 * time.Hour)},
		{Location: "Galle", Temperature: 29, Timestamp: now.Add(-1 * time.Hour)},
		{Location: "Colombo", Temperature: 31, Timestamp: now.Add(-3 * time.Hour)},
	}
	for i := range seed {
		_, err := repo.Insert(ctx, &seed[i])
		require.NoError(t, err)
	}

	records, err := repo.LatestPerLocation(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Colombo", records[0].Location)
	assert.Equal(t, "Galle", records[1].Location)
	assert.Equal(t, 29.0, records[1].Temperature)
}

func TestWeatherSeverityLevel(t *testing.T) {
	cases := []struct {
		name   string
		record entity.WeatherRecord
		want   string
	}{
		{"extreme wind", entity.WeatherRecord{WindSpeed: 22}, entity.SeverityHigh},
		{"strong wind", entity.WeatherRecord{WindSpeed: 17}, entity.SeverityMedium},
		{"torrential rain", entity.WeatherRecord{Rain: 25}, entity.SeverityHigh},
		{"heavy rain", entity.WeatherRecord{Rain: 12}, entity.SeverityMedium},
		{"thunderstorm", entity.WeatherRecord{Weather: "Thunderstorm"}, entity.SeverityHigh},
		{"drizzle", entity.WeatherRecord{Weather: "Drizzle"}, entity.SeverityMedium},
		{"clear", entity.WeatherRecord{Weather: "Clear"}, entity.SeverityLow},
		{"wind outranks rain", entity.WeatherRecord{WindSpeed: 22, Rain: 12}, entity.SeverityHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.record.SeverityLevel())
		})
	}
}
