package repository

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/aggregator/config"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
)

const ceypetcoDefaultURL = "https://ceypetco.gov.lk/historical-prices/"

// ceypetcoGradeLabels maps the published column labels to grade names.
// Columns with labels outside this table are ignored.
var ceypetcoGradeLabels = map[string]string{
	"LP 95":           "petrol_95",
	"LP 92":           "petrol_92",
	"LAD":             "auto_diesel",
	"LSD":             "super_diesel",
	"LK":              "kerosene",
	"LIK":             "industrial_kerosene",
	"FUR. 800":        "furnace_800",
	"FUR 1500 (High)": "furnace_1500_high",
	"FUR. 1500 (Low)": "furnace_1500_low",
}

// ceypetcoMarkerLabels identify the price table among the page's tables.
var ceypetcoMarkerLabels = []string{"LP 95", "LP 92", "LAD", "LSD"}

var nonPricePattern = regexp.MustCompile(`[^\d.,]`)

var ceypetcoDateLayouts = []string{
	"2-1-2006",
	"2006-1-2",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// FuelSourceRepository scrapes published fuel price sheets.
type FuelSourceRepository interface {
	// ScrapePrices returns every parseable price sheet, newest first.
	ScrapePrices(ctx context.Context) ([]entity.FuelPriceRecord, error)
}

type ceypetcoRepository struct {
	pageURL    string
	httpClient *http.Client
	clock      clockwork.Clock
	logger     *logger.Logger
}

// NewCeypetcoRepository creates a scraper for the Ceypetco historical
// prices page.
func NewCeypetcoRepository(cfg *config.Config, clock clockwork.Clock, log *logger.Logger) FuelSourceRepository {
	pageURL := cfg.Fuel.CeypetcoURL
	if pageURL == "" {
		pageURL = ceypetcoDefaultURL
	}
	timeout := cfg.Fuel.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ceypetcoRepository{
		pageURL:    pageURL,
		httpClient: &http.Client{Timeout: timeout},
		clock:      clock,
		logger:     log,
	}
}

func (r *ceypetcoRepository) ScrapePrices(ctx context.Context) ([]entity.FuelPriceRecord, error) {
	doc, err := r.fetchDocument(ctx, r.pageURL)
	if err != nil {
		return nil, err
	}

	table := findPriceTable(doc)
	if table == nil {
		return nil, fmt.Errorf("no fuel price table found at %s", r.pageURL)
	}

	records := r.parsePriceTable(table)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})

	r.logger.Info("Scraped fuel price sheets",
		logger.IntField("records", len(records)), logger.StringField("url", r.pageURL))
	return records, nil
}

func (r *ceypetcoRepository) fetchDocument(ctx context.Context, requestURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", requestURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", requestURL, resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// findPriceTable picks the table whose header row carries the grade labels.
func findPriceTable(doc *goquery.Document) *goquery.Selection {
	var table *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		headers := strings.Join(rowCells(s.Find("tr").First()), " ")
		for _, marker := range ceypetcoMarkerLabels {
			if strings.Contains(headers, marker) {
				table = s
				return false
			}
		}
		return true
	})
	return table
}

func (r *ceypetcoRepository) parsePriceTable(table *goquery.Selection) []entity.FuelPriceRecord {
	rows := table.Find("tr")
	if rows.Length() < 2 {
		return nil
	}
	headers := rowCells(rows.First())

	var records []entity.FuelPriceRecord
	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		cells := rowCells(row)
		if len(cells) != len(headers) {
			return
		}

		dateStr := cells[0]
		if idx := strings.Index(dateStr, "("); idx >= 0 {
			dateStr = strings.TrimSpace(dateStr[:idx])
		}
		if dateStr == "" {
			return
		}
		date, ok := parseCeypetcoDate(dateStr)
		if !ok {
			r.logger.Warn("Skipping sheet with unparseable date", logger.StringField("date", dateStr))
			return
		}

		record := entity.FuelPriceRecord{
			Date:      date,
			DateStr:   dateStr,
			Location:  "Sri Lanka",
			Source:    entity.FuelSourceCeypetco,
			ScrapedAt: r.clock.Now(),
		}
		for i := 1; i < len(headers); i++ {
			grade, known := ceypetcoGradeLabels[headers[i]]
			if !known {
				continue
			}
			cleaned := cleanPriceValue(cells[i])
			if cleaned == "" || cleaned == "." || cleaned == ".." {
				continue
			}
			price, err := strconv.ParseFloat(cleaned, 64)
			if err != nil {
				continue
			}
			record.SetPrice(grade, &price)
		}

		// Partial sheets with fewer than three grades are usually
		// scraping artifacts, not real publications.
		if record.PriceCount() >= 3 {
			records = append(records, record)
		}
	})
	return records
}

func rowCells(row *goquery.Selection) []string {
	var cells []string
	row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}

// cleanPriceValue strips everything but digits, dots and commas, merges the
// trailing segment of multi-dot values and normalizes the decimal comma.
func cleanPriceValue(value string) string {
	cleaned := nonPricePattern.ReplaceAllString(strings.TrimSpace(value), "")
	if strings.Count(cleaned, ".") > 1 {
		parts := strings.Split(cleaned, ".")
		cleaned = strings.Join(parts[:len(parts)-1], ".") + parts[len(parts)-1]
	}
	return strings.ReplaceAll(cleaned, ",", ".")
}

// parseCeypetcoDate handles the site's dotted D.M.Y dates, slashed variants
// and a few spelled-out fallbacks. Two-digit years below 50 land in 2000s.
func parseCeypetcoDate(dateStr string) (time.Time, bool) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, false
	}

	for _, sep := range []string{".", "/"} {
		if !strings.Contains(dateStr, sep) {
			continue
		}
		parts := strings.Split(dateStr, sep)
		if len(parts) != 3 {
			continue
		}
		day, errDay := strconv.Atoi(strings.TrimSpace(parts[0]))
		month, errMonth := strconv.Atoi(strings.TrimSpace(parts[1]))
		yearStr := strings.TrimSpace(parts[2])
		if len(yearStr) == 2 {
			if year, err := strconv.Atoi(yearStr); err == nil {
				if year < 50 {
					yearStr = "20" + yearStr
				} else {
					yearStr = "19" + yearStr
				}
			}
		}
		year, errYear := strconv.Atoi(yearStr)
		if errDay != nil || errMonth != nil || errYear != nil {
			continue
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}

	for _, layout := range ceypetcoDateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
