package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
)

var alertHeader = []string{
	"id", "title", "description", "category", "subcategory",
	"location", "severity", "source", "source_id",
	"start_time", "end_time", "created_at", "is_active",
}

// AlertFilter narrows GetActive results. Severity, category, source and
// source id match exactly, location by containment. Hours, when positive,
// restricts to alerts created inside the window.
type AlertFilter struct {
	Severity string
	Category string
	Location string
	Source   string
	SourceID string
	Hours    int
}

type AlertRepository interface {
	Insert(ctx context.Context, alert *entity.Alert) (string, error)
	GetActive(ctx context.Context, filter AlertFilter) ([]entity.Alert, error)
	CountActive(ctx context.Context) (int, error)
	CountBySeverity(ctx context.Context) (map[string]int, error)
	// DeactivateOlderThan flips is_active off for alerts created before the
	// cutoff, leaving the rows in place.
	DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

type alertRepository struct {
	mu    sync.Mutex
	table *csvTable
	clock clockwork.Clock
	ids   *idGenerator
}

func NewAlertRepository(dataDir string, clock clockwork.Clock, log *logger.Logger) (AlertRepository, error) {
	table, err := newCSVTable(dataDir, "alerts.csv", alertHeader, log)
	if err != nil {
		return nil, err
	}
	return &alertRepository{
		table: table,
		clock: clock,
		ids:   newIDGenerator(clock),
	}, nil
}

func (r *alertRepository) Insert(ctx context.Context, alert *entity.Alert) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if alert.ID == "" {
		alert.ID = r.ids.Next()
	}
	now := r.clock.Now()
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = now
	}
	if alert.StartTime.IsZero() {
		alert.StartTime = now
	}
	if alert.EndTime.IsZero() {
		alert.EndTime = now.Add(24 * time.Hour)
	}
	alert.IsActive = true

	if err := r.table.appendRow(encodeAlert(alert)); err != nil {
		return "", err
	}
	return alert.ID, nil
}

func (r *alertRepository) GetActive(ctx context.Context, filter AlertFilter) ([]entity.Alert, error) {
	var cutoff time.Time
	if filter.Hours > 0 {
		cutoff = r.clock.Now().Add(-time.Duration(filter.Hours) * time.Hour)
	}

	r.mu.Lock()
	rows := r.table.readAll()
	r.mu.Unlock()

	alerts := make([]entity.Alert, 0, len(rows))
	for _, row := range rows {
		alert := decodeAlert(row, r.clock)
		if !alert.IsActive {
			continue
		}
		if filter.Severity != "" && alert.Severity != filter.Severity {
			continue
		}
		if filter.Category != "" && alert.Category != filter.Category {
			continue
		}
		if filter.Location != "" && !strings.Contains(alert.Location, filter.Location) {
			continue
		}
		if filter.Source != "" && alert.Source != filter.Source {
			continue
		}
		if filter.SourceID != "" && alert.SourceID != filter.SourceID {
			continue
		}
		if filter.Hours > 0 && alert.CreatedAt.Before(cutoff) {
			continue
		}
		alerts = append(alerts, alert)
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	return alerts, nil
}

func (r *alertRepository) CountActive(ctx context.Context) (int, error) {
	r.mu.Lock()
	rows := r.table.readAll()
	r.mu.Unlock()

	count := 0
	for _, row := range rows {
		var warnings []string
		if parseBoolCell(row[12], "is_active", &warnings) {
			count++
		}
	}
	return count, nil
}

func (r *alertRepository) CountBySeverity(ctx context.Context) (map[string]int, error) {
	r.mu.Lock()
	rows := r.table.readAll()
	r.mu.Unlock()

	counts := make(map[string]int)
	for _, row := range rows {
		if severity := strings.TrimSpace(row[6]); severity != "" {
			counts[severity]++
		}
	}
	return counts, nil
}

func (r *alertRepository) DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.table.readAll()
	deactivated := 0
	for _, row := range rows {
		var warnings []string
		if !parseBoolCell(row[12], "is_active", &warnings) {
			continue
		}
		created := parseTimeCell(row[11], "created_at", r.clock, &warnings)
		if created.Before(cutoff) {
			row[12] = formatBool(false)
			deactivated++
		}
	}
	if deactivated == 0 {
		return 0, nil
	}
	if err := r.table.rewrite(rows); err != nil {
		return 0, err
	}
	return deactivated, nil
}

func encodeAlert(alert *entity.Alert) []string {
	return []string{
		alert.ID,
		alert.Title,
		alert.Description,
		alert.Category,
		alert.Subcategory,
		alert.Location,
		alert.Severity,
		alert.Source,
		alert.SourceID,
		formatTime(alert.StartTime),
		formatTime(alert.EndTime),
		formatTime(alert.CreatedAt),
		formatBool(alert.IsActive),
	}
}

func decodeAlert(row []string, clock clockwork.Clock) entity.Alert {
	var warnings []string
	alert := entity.Alert{
		ID:          row[0],
		Title:       row[1],
		Description: row[2],
		Category:    row[3],
		Subcategory: row[4],
		Location:    row[5],
		Severity:    row[6],
		Source:      row[7],
		SourceID:    row[8],
		StartTime:   parseTimeCell(row[9], "start_time", clock, &warnings),
		EndTime:     parseTimeCell(row[10], "end_time", clock, &warnings),
		CreatedAt:   parseTimeCell(row[11], "created_at", clock, &warnings),
		IsActive:    parseBoolCell(row[12], "is_active", &warnings),
	}
	alert.DecodeWarnings = warnings
	return alert
}
