package entity

// Severity tiers assigned by the classifier, ordered from most to least urgent.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
	SeverityInfo   = "info"
)

// CategoryGeneral is the fallback category when no keywords match.
const CategoryGeneral = "general"

// Classification is the result of classifying a piece of free text.
type Classification struct {
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Location    string  `json:"location"`
	Impact      string  `json:"impact"`
	Severity    string  `json:"severity"`
	Confidence  float64 `json:"confidence"`
}

// DefaultClassification is returned when no category keyword matches.
func DefaultClassification() Classification {
	return Classification{
		Category:    CategoryGeneral,
		Subcategory: "general_news",
		Location:    "Sri Lanka",
		Impact:      "General news update for public information",
		Severity:    SeverityInfo,
		Confidence:  0.0,
	}
}
