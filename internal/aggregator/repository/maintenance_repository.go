package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
)

// Retention horizons. These are fixed: the daysOld argument accepted by
// CleanupOldData does not feed into them.
const (
	pruneHorizon      = 30 * 24 * time.Hour
	deactivateHorizon = 3 * 24 * time.Hour
)

// ErrUnknownExportType is returned for export types outside the table set.
var ErrUnknownExportType = fmt.Errorf("invalid data type")

type MaintenanceRepository interface {
	// CleanupOldData prunes weather and tweets past the 30 day horizon and
	// deactivates alerts past the 3 day horizon. Fuel prices are never
	// pruned. The daysOld argument is accepted for compatibility with
	// existing callers and is currently unused.
	CleanupOldData(ctx context.Context, daysOld int) (entity.CleanupSummary, error)
	// CreateBackup copies every non-empty table into the backup directory
	// with a timestamped name and returns that directory.
	CreateBackup(ctx context.Context) (string, error)
	// ExportFile resolves a public export type to the backing file path and
	// its download name.
	ExportFile(dataType string) (path string, filename string, err error)
	// TableStatuses reports existence and line counts for every table file,
	// keyed by file name.
	TableStatuses() map[string]entity.TableFileStatus
}

type maintenanceRepository struct {
	dataDir   string
	backupDir string
	weather   WeatherRepository
	tweets    TweetRepository
	alerts    AlertRepository
	clock     clockwork.Clock
	logger    *logger.Logger
}

func NewMaintenanceRepository(
	dataDir, backupDir string,
	weather WeatherRepository,
	tweets TweetRepository,
	alerts AlertRepository,
	clock clockwork.Clock,
	log *logger.Logger,
) MaintenanceRepository {
	return &maintenanceRepository{
		dataDir:   dataDir,
		backupDir: backupDir,
		weather:   weather,
		tweets:    tweets,
		alerts:    alerts,
		clock:     clock,
		logger:    log,
	}
}

func (r *maintenanceRepository) CleanupOldData(ctx context.Context, daysOld int) (entity.CleanupSummary, error) {
	now := r.clock.Now()
	var summary entity.CleanupSummary
	var firstErr error

	removed, err := r.weather.PruneOlderThan(ctx, now.Add(-pruneHorizon))
	if err != nil {
		r.logger.Error("failed to prune weather records", logger.ErrorField(err))
		firstErr = err
	}
	summary.WeatherRemoved = removed

	removed, err = r.tweets.PruneOlderThan(ctx, now.Add(-pruneHorizon))
	if err != nil {
		r.logger.Error("failed to prune tweets", logger.ErrorField(err))
		if firstErr == nil {
			firstErr = err
		}
	}
	summary.TweetsRemoved = removed

	deactivated, err := r.alerts.DeactivateOlderThan(ctx, now.Add(-deactivateHorizon))
	if err != nil {
		r.logger.Error("failed to deactivate stale alerts", logger.ErrorField(err))
		if firstErr == nil {
			firstErr = err
		}
	}
	summary.AlertsDeactivated = deactivated

	return summary, firstErr
}

func (r *maintenanceRepository) CreateBackup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(r.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	stamp := r.clock.Now().Format("20060102_150405")
	backups := []struct {
		file   string
		target string
	}{
		{"news.csv", fmt.Sprintf("news_backup_%s.csv", stamp)},
		{"weather.csv", fmt.Sprintf("weather_backup_%s.csv", stamp)},
		{"tweets.csv", fmt.Sprintf("tweets_backup_%s.csv", stamp)},
		{"alerts.csv", fmt.Sprintf("alerts_backup_%s.csv", stamp)},
		{"fuel_prices.csv", fmt.Sprintf("fuel_backup_%s.csv", stamp)},
	}

	for _, b := range backups {
		src := filepath.Join(r.dataDir, b.file)
		info, err := os.Stat(src)
		if err != nil || info.Size() == 0 {
			continue
		}
		if err := copyFile(src, filepath.Join(r.backupDir, b.target)); err != nil {
			return "", fmt.Errorf("failed to back up %s: %w", b.file, err)
		}
	}
	return r.backupDir, nil
}

func (r *maintenanceRepository) ExportFile(dataType string) (string, string, error) {
	var file, download string
	switch dataType {
	case "news":
		file, download = "news.csv", "news_export.csv"
	case "weather":
		file, download = "weather.csv", "weather_export.csv"
	case "tweets":
		file, download = "tweets.csv", "tweets_export.csv"
	case "alerts":
		file, download = "alerts.csv", "alerts_export.csv"
	case "fuel":
		file, download = "fuel_prices.csv", "fuel_prices_export.csv"
	default:
		return "", "", ErrUnknownExportType
	}
	return filepath.Join(r.dataDir, file), download, nil
}

func (r *maintenanceRepository) TableStatuses() map[string]entity.TableFileStatus {
	files := []string{"news.csv", "weather.csv", "tweets.csv", "alerts.csv", "fuel_prices.csv"}
	statuses := make(map[string]entity.TableFileStatus, len(files))
	for _, file := range files {
		status := entity.TableFileStatus{}
		data, err := os.ReadFile(filepath.Join(r.dataDir, file))
		if err == nil {
			status.Exists = true
			status.Lines = countLines(data)
			status.Readable = status.Lines > 0
		} else if !os.IsNotExist(err) {
			status.Exists = true
		}
		statuses[file] = status
	}
	return statuses
}

func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	lines := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		lines++
	}
	return lines
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
