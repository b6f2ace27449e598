package entity

import "time"

// NewsItem is a classified news article stored in the news table.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	FullText    string    `json:"full_text"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Location    string    `json:"location"`
	Impact      string    `json:"impact"`
	Severity    string    `json:"severity"`
	Keywords    []string  `json:"keywords"`
	Timestamp   time.Time `json:"timestamp"`
	ProcessedAt time.Time `json:"processed_at"`

	// DecodeWarnings lists fields substituted with defaults while reading
	// a damaged row. Never persisted.
	DecodeWarnings []string `json:"-"`
}
