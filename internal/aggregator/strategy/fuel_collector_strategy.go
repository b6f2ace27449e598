package strategy

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/aggregator/repository"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/metrics"
	"golang-lanka-watch/pkg/telegram"
	"golang-lanka-watch/pkg/utils"
)

// fuelAlertThresholdPct is the minimum absolute percentage move between two
// consecutive price sheets that raises an alert.
const fuelAlertThresholdPct = 5.0

// fuelDisplayNames maps grade names to the labels used in alert text.
var fuelDisplayNames = map[string]string{
	"petrol_95":    "Petrol 95 Octane",
	"petrol_92":    "Petrol 92 Octane",
	"auto_diesel":  "Auto Diesel",
	"super_diesel": "Super Diesel",
	"kerosene":     "Kerosene",
}

// FuelCollectorStrategy scrapes the published price sheets, stores them and
// raises an alert when a grade moved notably between the two newest sheets.
type FuelCollectorStrategy struct {
	logger    *logger.Logger
	scraper   repository.FuelSourceRepository
	fuelRepo  repository.FuelPriceRepository
	alertRepo repository.AlertRepository
	notifier  telegram.Notifier
	metrics   *metrics.Metrics
	clock     clockwork.Clock
}

// NewFuelCollectorStrategy creates a new instance of FuelCollectorStrategy.
func NewFuelCollectorStrategy(scraper repository.FuelSourceRepository, fuelRepo repository.FuelPriceRepository, alertRepo repository.AlertRepository, notifier telegram.Notifier, m *metrics.Metrics, clock clockwork.Clock, log *logger.Logger) *FuelCollectorStrategy {
	return &FuelCollectorStrategy{
		logger:    log,
		scraper:   scraper,
		fuelRepo:  fuelRepo,
		alertRepo: alertRepo,
		notifier:  notifier,
		metrics:   m,
		clock:     clock,
	}
}

// GetType returns the task type this strategy handles.
func (s *FuelCollectorStrategy) GetType() entity.TaskType {
	return entity.TaskCollectFuelPrices
}

// Execute scrapes and stores every published sheet. Storage is idempotent on
// the sheet date, so re-running after a partial failure is safe.
func (s *FuelCollectorStrategy) Execute(ctx context.Context) (string, error) {
	records, err := s.scraper.ScrapePrices(ctx)
	if err != nil {
		return FAILED, err
	}
	if len(records) == 0 {
		s.logger.Warn("No fuel price data collected")
		return SKIPPED, nil
	}

	stored := 0
	for i := range records {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		if _, err := s.fuelRepo.Insert(ctx, &records[i]); err != nil {
			s.logger.Error("Failed to store fuel price sheet",
				logger.StringField("date", records[i].DateStr), logger.ErrorField(err))
			continue
		}
		s.metrics.RecordsInserted.WithLabelValues("fuel_prices").Inc()
		stored++
	}

	// Records arrive newest first, so the first two sheets carry the most
	// recent price movement.
	alerts := 0
	if len(records) >= 2 {
		for _, change := range entity.ComputeFuelChanges(&records[1], &records[0]) {
			if math.Abs(change.ChangePct) >= fuelAlertThresholdPct {
				if s.createFuelPriceAlert(ctx, change) {
					alerts++
				}
			}
		}
	}

	s.logger.Info("Fuel price collection finished",
		logger.IntField("stored", stored), logger.IntField("alerts", alerts))
	return fmt.Sprintf("stored %d fuel price sheets, created %d alerts", stored, alerts), nil
}

func (s *FuelCollectorStrategy) createFuelPriceAlert(ctx context.Context, change entity.FuelPriceChange) bool {
	name, ok := fuelDisplayNames[change.FuelType]
	if !ok {
		name = utils.TitleWords(strings.ReplaceAll(change.FuelType, "_", " "))
	}

	severity := entity.SeverityLow
	switch pct := math.Abs(change.ChangePct); {
	case pct >= 10:
		severity = entity.SeverityHigh
	case pct >= 5:
		severity = entity.SeverityMedium
	}

	alert := entity.Alert{
		Title: fmt.Sprintf("Fuel Price Alert: %s", name),
		Description: fmt.Sprintf("%s price changed from Rs.%v to Rs.%v (%+.1f%%)",
			name, change.PreviousPrice, change.CurrentPrice, change.ChangePct),
		Category:    "economy",
		Subcategory: "fuel_prices",
		Location:    "Sri Lanka",
		Severity:    severity,
		Source:      entity.AlertSourceFuel,
		SourceID:    fmt.Sprintf("fuel_%s_%d", change.FuelType, s.clock.Now().Unix()),
		StartTime:   s.clock.Now(),
		EndTime:     s.clock.Now().Add(7 * 24 * time.Hour),
	}
	if _, err := s.alertRepo.Insert(ctx, &alert); err != nil {
		s.logger.Error("Failed to create fuel price alert", logger.ErrorField(err))
		return false
	}
	s.metrics.RecordsInserted.WithLabelValues("alerts").Inc()
	s.metrics.AlertsCreated.WithLabelValues(alert.Severity).Inc()

	if s.notifier.Enabled() {
		message := telegram.FormatFuelChangeMessage(change.FuelType, change.PreviousPrice, change.CurrentPrice, change.ChangePct)
		if err := s.notifier.SendMessage(message); err != nil {
			s.logger.Error("Failed to send alert notification", logger.ErrorField(err))
		}
	}
	return true
}
