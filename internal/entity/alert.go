package entity

import "time"

// Alert source markers identifying which collector raised an alert.
const (
	AlertSourceNews    = "news"
	AlertSourceWeather = "weather"
	AlertSourceTwitter = "twitter"
	AlertSourceFuel    = "fuel_prices"
)

// Alert is an actionable situational warning derived from collected data.
// IsActive is the only mutable field in the data model: retention cleanup
// flips it to false in place.
type Alert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Location    string    `json:"location"`
	Severity    string    `json:"severity"`
	Source      string    `json:"source"`
	SourceID    string    `json:"source_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
	IsActive    bool      `json:"is_active"`

	DecodeWarnings []string `json:"-"`
}
