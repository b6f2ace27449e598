package ratelimit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-lanka-watch/pkg/logger"
)

func newLimiterLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func newLimiter(t *testing.T, store StateStore, monthly, daily int, clock clockwork.Clock) *UsageLimiter {
	t.Helper()
	return NewUsageLimiter(store, monthly, daily, 0, clock, newLimiterLogger(t))
}

func TestUsageLimiterDailyQuota(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	store := NewFileStore(filepath.Join(t.TempDir(), "usage.json"))
	limiter := newLimiter(t, store, 100, 2, clock)

	ctx := context.Background()
	require.NoError(t, limiter.Acquire(ctx))
	require.NoError(t, limiter.Acquire(ctx))

	err := limiter.Acquire(ctx)
	assert.ErrorIs(t, err, ErrDailyLimitReached)

	stats := limiter.Usage()
	assert.Equal(t, 2, stats.DailyCount)
	assert.Equal(t, 0, stats.DailyRemaining)
	assert.Equal(t, "limit_reached", stats.Status)
}

func TestUsageLimiterMonthlyQuota(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	store := NewFileStore(filepath.Join(t.TempDir(), "usage.json"))
	limiter := newLimiter(t, store, 3, 10, clock)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Acquire(ctx))
	}

	err := limiter.Acquire(ctx)
	assert.ErrorIs(t, err, ErrMonthlyLimitReached)
}

func TestUsageLimiterDailyResetKeepsMonthlyCount(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	store := NewFileStore(filepath.Join(t.TempDir(), "usage.json"))
	limiter := newLimiter(t, store, 100, 2, clock)

	ctx := context.Background()
	require.NoError(t, limiter.Acquire(ctx))
	require.NoError(t, limiter.Acquire(ctx))
	require.ErrorIs(t, limiter.Acquire(ctx), ErrDailyLimitReached)

	// Midnight passes but the month does not change.
	clock.Advance(24 * time.Hour)
	require.NoError(t, limiter.Acquire(ctx))

	stats := limiter.Usage()
	assert.Equal(t, 1, stats.DailyCount)
	assert.Equal(t, 3, stats.MonthlyCount)
	assert.Equal(t, "2025-06-11", stats.LastReset)
}

func TestUsageLimiterMonthlyReset(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC))
	store := NewFileStore(filepath.Join(t.TempDir(), "usage.json"))
	limiter := newLimiter(t, store, 3, 10, clock)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Acquire(ctx))
	}
	require.ErrorIs(t, limiter.Acquire(ctx), ErrMonthlyLimitReached)

	clock.Advance(24 * time.Hour)
	require.NoError(t, limiter.Acquire(ctx))

	stats := limiter.Usage()
	assert.Equal(t, 1, stats.MonthlyCount)
	assert.Equal(t, "active", stats.Status)
}

func TestUsageLimiterPersistsAcrossRestarts(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	path := filepath.Join(t.TempDir(), "state", "usage.json")

	limiter := newLimiter(t, NewFileStore(path), 100, 10, clock)
	ctx := context.Background()
	require.NoError(t, limiter.Acquire(ctx))
	require.NoError(t, limiter.Acquire(ctx))

	// A fresh limiter over the same file continues the counters.
	reloaded := newLimiter(t, NewFileStore(path), 100, 10, clock)
	stats := reloaded.Usage()
	assert.Equal(t, 2, stats.DailyCount)
	assert.Equal(t, 2, stats.MonthlyCount)
}

func TestFileStoreMissingFileYieldsZeroState(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, State{}, state)
}

func TestTokenLimiterBudget(t *testing.T) {
	limiter := NewTokenLimiter(1000)
	assert.Equal(t, 1000, limiter.GetRemaining())

	require.NoError(t, limiter.Wait(context.Background(), 400))
	assert.Equal(t, 600, limiter.GetRemaining())

	err := limiter.Wait(context.Background(), 2000)
	assert.Error(t, err)
}
