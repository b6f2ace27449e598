package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"golang-lanka-watch/pkg/logger"
)

var (
	// ErrDailyLimitReached is returned when the daily request quota is spent.
	ErrDailyLimitReached = errors.New("daily request limit reached")
	// ErrMonthlyLimitReached is returned when the monthly request quota is spent.
	ErrMonthlyLimitReached = errors.New("monthly request limit reached")
)

// State is the persisted usage counter for a quota-limited API.
type State struct {
	MonthlyCount int       `json:"monthly_count"`
	DailyCount   int       `json:"daily_count"`
	LastReset    string    `json:"last_reset"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StateStore persists usage state across restarts.
type StateStore interface {
	Load() (State, error)
	Save(State) error
}

// UsageStats is a read-only snapshot of the limiter for reporting.
type UsageStats struct {
	MonthlyCount        int       `json:"monthly_count"`
	MonthlyLimit        int       `json:"monthly_limit"`
	MonthlyRemaining    int       `json:"monthly_remaining"`
	DailyCount          int       `json:"daily_count"`
	DailyLimit          int       `json:"daily_limit"`
	DailyRemaining      int       `json:"daily_remaining"`
	EstimatedDailyLimit int       `json:"estimated_daily_limit"`
	LastReset           string    `json:"last_reset"`
	UpdatedAt           time.Time `json:"updated_at"`
	Status              string    `json:"status"`
}

// UsageLimiter combines counted daily/monthly quotas with a minimum interval
// between requests. Counters survive restarts through the StateStore.
type UsageLimiter struct {
	mu           sync.Mutex
	store        StateStore
	clock        clockwork.Clock
	interval     *rate.Limiter
	monthlyLimit int
	dailyLimit   int
	state        State
	logger       *logger.Logger
}

// NewUsageLimiter loads persisted usage state and builds the limiter.
// A zero minInterval disables the interval gate.
func NewUsageLimiter(store StateStore, monthlyLimit, dailyLimit int, minInterval time.Duration, clock clockwork.Clock, log *logger.Logger) *UsageLimiter {
	state, err := store.Load()
	if err != nil {
		log.Warn("Failed to load usage state, starting from zero", logger.ErrorField(err))
		state = State{}
	}

	return &UsageLimiter{
		store:        store,
		clock:        clock,
		interval:     rate.NewLimiter(rate.Every(minInterval), 1),
		monthlyLimit: monthlyLimit,
		dailyLimit:   dailyLimit,
		state:        state,
		logger:       log,
	}
}

// Acquire consumes one request from the quotas, waiting out the minimum
// interval first. It returns a sentinel error when a quota is exhausted.
func (l *UsageLimiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	l.rotate()
	if l.state.DailyCount >= l.dailyLimit {
		l.mu.Unlock()
		return ErrDailyLimitReached
	}
	if l.state.MonthlyCount >= l.monthlyLimit {
		l.mu.Unlock()
		return ErrMonthlyLimitReached
	}
	l.mu.Unlock()

	if err := l.interval.Wait(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.DailyCount++
	l.state.MonthlyCount++
	l.state.UpdatedAt = l.clock.Now()
	if err := l.store.Save(l.state); err != nil {
		l.logger.Error("Failed to persist usage state", logger.ErrorField(err))
	}
	return nil
}

// Usage returns a snapshot of the current counters.
func (l *UsageLimiter) Usage() UsageStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rotate()

	status := "active"
	if l.state.DailyCount >= l.dailyLimit || l.state.MonthlyCount >= l.monthlyLimit {
		status = "limit_reached"
	}

	return UsageStats{
		MonthlyCount:        l.state.MonthlyCount,
		MonthlyLimit:        l.monthlyLimit,
		MonthlyRemaining:    l.monthlyLimit - l.state.MonthlyCount,
		DailyCount:          l.state.DailyCount,
		DailyLimit:          l.dailyLimit,
		DailyRemaining:      l.dailyLimit - l.state.DailyCount,
		EstimatedDailyLimit: l.monthlyLimit / 30,
		LastReset:           l.state.LastReset,
		UpdatedAt:           l.state.UpdatedAt,
		Status:              status,
	}
}

// rotate resets the daily counter on a date change and the monthly counter
// on a month change. Callers must hold the mutex.
func (l *UsageLimiter) rotate() {
	today := l.clock.Now().Format("2006-01-02")
	if l.state.LastReset == today {
		return
	}

	last, err := time.Parse("2006-01-02", l.state.LastReset)
	now := l.clock.Now()
	if err != nil || last.Year() != now.Year() || last.Month() != now.Month() {
		l.state.MonthlyCount = 0
	}
	l.state.DailyCount = 0
	l.state.LastReset = today
	if err := l.store.Save(l.state); err != nil {
		l.logger.Error("Failed to persist usage state", logger.ErrorField(err))
	}
}
