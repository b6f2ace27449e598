package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-lanka-watch/internal/entity"
)

func TestAlertInsertDefaults(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo, err := NewAlertRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = repo.Insert(ctx, &entity.Alert{Title: "Flood warning", Severity: "high"})
	require.NoError(t, err)

	alerts, err := repo.GetActive(ctx, AlertFilter{})
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	got := alerts[0]
	assert.True(t, got.IsActive)
	assert.True(t, got.CreatedAt.Equal(now))
	assert.True(t, got.StartTime.Equal(now))
	assert.True(t, got.EndTime.Equal(now.Add(24*time.Hour)))
}

func TestAlertActiveFilters(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo, err := NewAlertRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	seed := []entity.Alert{
		{ID: "1", Severity: "high", Category: "weather", Location: "Colombo District", Source: "news", SourceID: "news_1", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "2", Severity: "medium", Category: "weather", Location: "Kandy", Source: "weather", SourceID: "weather_1", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "3", Severity: "high", Category: "traffic", Location: "Galle", Source: "news", SourceID: "news_3", CreatedAt: now.Add(-30 * time.Hour)},
	}
	for i := range seed {
		_, err := repo.Insert(ctx, &seed[i])
		require.NoError(t, err)
	}

	t.Run("all active sorted newest first", func(t *testing.T) {
		alerts, err := repo.GetActive(ctx, AlertFilter{})
		require.NoError(t, err)
		require.Len(t, alerts, 3)
		assert.Equal(t, "1", alerts[0].ID)
		assert.Equal(t, "3", alerts[2].ID)
	})

	t.Run("severity and category exact", func(t *testing.T) {
		alerts, err := repo.GetActive(ctx, AlertFilter{Severity: "high", Category: "weather"})
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, "1", alerts[0].ID)
	})

	t.Run("location by containment", func(t *testing.T) {
		alerts, err := repo.GetActive(ctx, AlertFilter{Location: "Colombo"})
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, "Colombo District", alerts[0].Location)
	})

	t.Run("source and source id exact", func(t *testing.T) {
		alerts, err := repo.GetActive(ctx, AlertFilter{Source: "news", SourceID: "news_3"})
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, "3", alerts[0].ID)
	})

	t.Run("hours window on created_at", func(t *testing.T) {
		alerts, err := repo.GetActive(ctx, AlertFilter{Hours: 24})
		require.NoError(t, err)
		assert.Len(t, alerts, 2)
	})
}

func TestAlertDeactivateOlderThan(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo, err := NewAlertRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = repo.Insert(ctx, &entity.Alert{ID: "old", CreatedAt: now.Add(-4 * 24 * time.Hour)})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, &entity.Alert{ID: "fresh", CreatedAt: now.Add(-2 * time.Hour)})
	require.NoError(t, err)

	deactivated, err := repo.DeactivateOlderThan(ctx, now.Add(-3*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, deactivated)

	// The stale alert stays in the table, just inactive.
	alerts, err := repo.GetActive(ctx, AlertFilter{})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "fresh", alerts[0].ID)

	bySeverity, err := repo.CountBySeverity(ctx)
	require.NoError(t, err)
	assert.Empty(t, bySeverity)

	active, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	// A second pass finds nothing left to deactivate.
	deactivated, err = repo.DeactivateOlderThan(ctx, now.Add(-3*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, deactivated)
}
