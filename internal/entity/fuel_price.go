package entity

import (
	"math"
	"time"
)

// FuelSourceCeypetco marks records scraped from the Ceypetco price page.
const FuelSourceCeypetco = "ceypetco"

// FuelPriceRecord is one published national price sheet. DateStr is the
// dedup key: inserting the same display date again is a no-op returning the
// existing id. Grade prices are independently nullable because Ceypetco
// publishes partial sheets.
type FuelPriceRecord struct {
	ID                 string    `json:"id"`
	Date               time.Time `json:"date"`
	DateStr            string    `json:"date_str"`
	Petrol95           *float64  `json:"petrol_95"`
	Petrol92           *float64  `json:"petrol_92"`
	AutoDiesel         *float64  `json:"auto_diesel"`
	SuperDiesel        *float64  `json:"super_diesel"`
	Kerosene           *float64  `json:"kerosene"`
	IndustrialKerosene *float64  `json:"industrial_kerosene"`
	Furnace800         *float64  `json:"furnace_800"`
	Furnace1500High    *float64  `json:"furnace_1500_high"`
	Furnace1500Low     *float64  `json:"furnace_1500_low"`
	Location           string    `json:"location"`
	Source             string    `json:"source"`
	ScrapedAt          time.Time `json:"scraped_at"`
	RecordedAt         time.Time `json:"recorded_at"`

	DecodeWarnings []string `json:"-"`
}

// FuelTypes lists the grade column names in sheet order.
func FuelTypes() []string {
	return []string{
		"petrol_95",
		"petrol_92",
		"auto_diesel",
		"super_diesel",
		"kerosene",
		"industrial_kerosene",
		"furnace_800",
		"furnace_1500_high",
		"furnace_1500_low",
	}
}

// Price returns the value for a grade column name, nil when absent.
func (r *FuelPriceRecord) Price(fuelType string) *float64 {
	switch fuelType {
	case "petrol_95":
		return r.Petrol95
	case "petrol_92":
		return r.Petrol92
	case "auto_diesel":
		return r.AutoDiesel
	case "super_diesel":
		return r.SuperDiesel
	case "kerosene":
		return r.Kerosene
	case "industrial_kerosene":
		return r.IndustrialKerosene
	case "furnace_800":
		return r.Furnace800
	case "furnace_1500_high":
		return r.Furnace1500High
	case "furnace_1500_low":
		return r.Furnace1500Low
	}
	return nil
}

// SetPrice assigns the value for a grade column name.
func (r *FuelPriceRecord) SetPrice(fuelType string, value *float64) {
	switch fuelType {
	case "petrol_95":
		r.Petrol95 = value
	case "petrol_92":
		r.Petrol92 = value
	case "auto_diesel":
		r.AutoDiesel = value
	case "super_diesel":
		r.SuperDiesel = value
	case "kerosene":
		r.Kerosene = value
	case "industrial_kerosene":
		r.IndustrialKerosene = value
	case "furnace_800":
		r.Furnace800 = value
	case "furnace_1500_high":
		r.Furnace1500High = value
	case "furnace_1500_low":
		r.Furnace1500Low = value
	}
}

// PriceCount returns how many grade columns carry a value.
func (r *FuelPriceRecord) PriceCount() int {
	count := 0
	for _, ft := range FuelTypes() {
		if r.Price(ft) != nil {
			count++
		}
	}
	return count
}

// FuelPriceChange describes a grade's movement between two price sheets.
type FuelPriceChange struct {
	FuelType      string  `json:"fuel_type"`
	PreviousPrice float64 `json:"previous_price"`
	CurrentPrice  float64 `json:"current_price"`
	ChangeAbs     float64 `json:"change_abs"`
	ChangePct     float64 `json:"change_pct"`
	Trend         string  `json:"trend"`
}

// ComputeFuelChanges compares two sheets grade by grade. Grades missing
// from either sheet are skipped; unchanged grades report trend "stable".
func ComputeFuelChanges(previous, current *FuelPriceRecord) []FuelPriceChange {
	if previous == nil || current == nil {
		return nil
	}
	var changes []FuelPriceChange
	for _, ft := range FuelTypes() {
		prev := previous.Price(ft)
		curr := current.Price(ft)
		if prev == nil || curr == nil || *prev <= 0 {
			continue
		}
		abs := *curr - *prev
		trend := "stable"
		if abs > 0 {
			trend = "up"
		} else if abs < 0 {
			trend = "down"
		}
		changes = append(changes, FuelPriceChange{
			FuelType:      ft,
			PreviousPrice: *prev,
			CurrentPrice:  *curr,
			ChangeAbs:     math.Round(abs*100) / 100,
			ChangePct:     math.Round(abs / *prev * 100 * 100) / 100,
			Trend:         trend,
		})
	}
	return changes
}

// FuelTrendPoint is one dated observation inside a trend series.
type FuelTrendPoint struct {
	Date    string  `json:"date"`
	DateStr string  `json:"date_str"`
	Price   float64 `json:"price"`
}

// FuelTrendAnalysis summarizes a least squares fit over a trend series.
// Trend reads "up", "down" or "stable" from the slope sign.
type FuelTrendAnalysis struct {
	SlopePerDay      float64 `json:"slope_per_day"`
	PercentageChange float64 `json:"percentage_change"`
	Trend            string  `json:"trend"`
	StartPrice       float64 `json:"start_price"`
	EndPrice         float64 `json:"end_price"`
	AbsoluteChange   float64 `json:"absolute_change"`
}

// FuelTrend is the per-grade price series with its fitted analysis.
// Analysis is nil when fewer than two observations survive filtering.
type FuelTrend struct {
	FuelType   string             `json:"fuel_type"`
	DataPoints int                `json:"data_points"`
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
	Prices     []FuelTrendPoint   `json:"prices"`
	Analysis   *FuelTrendAnalysis `json:"trend_analysis,omitempty"`
}

// FuelPriceRange aggregates one grade across all sheets.
type FuelPriceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Latest  float64 `json:"latest"`
}

type FuelDateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

// FuelStats is the store-wide fuel summary exposed by the stats endpoints.
type FuelStats struct {
	TotalRecords  int                       `json:"total_records"`
	DateRange     FuelDateRange             `json:"date_range"`
	CurrentPrices map[string]*float64       `json:"current_prices"`
	PriceRanges   map[string]FuelPriceRange `json:"price_ranges"`
}
