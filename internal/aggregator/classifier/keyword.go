package classifier

import (
	"context"
	"fmt"
	"strings"

	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
)

type keywordClassifier struct {
	logger *logger.Logger
}

// NewKeywordClassifier returns the rule-based classifier. It works entirely
// from the keyword tables in this package and needs no network access.
func NewKeywordClassifier(log *logger.Logger) Classifier {
	return &keywordClassifier{logger: log}
}

func (c *keywordClassifier) Classify(ctx context.Context, text string) entity.Classification {
	if strings.TrimSpace(text) == "" {
		return entity.DefaultClassification()
	}

	lower := strings.ToLower(text)

	name, score := scoreCategories(lower)
	if score == 0 {
		return entity.DefaultClassification()
	}

	severity := determineSeverity(lower)
	confidence := float64(score) / 5
	if confidence > 1 {
		confidence = 1
	}

	return entity.Classification{
		Category:    name,
		Subcategory: determineSubcategory(name, lower),
		Location:    extractLocation(text),
		Impact:      impactFor(name, severity),
		Severity:    severity,
		Confidence:  confidence,
	}
}

// scoreCategories counts keyword hits per category and returns the best
// scoring one. Ties go to the category defined first.
func scoreCategories(lower string) (string, int) {
	bestName := ""
	bestScore := 0
	for _, cat := range categories {
		score := 0
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			bestName = cat.name
			bestScore = score
		}
	}
	return bestName, bestScore
}

func determineSubcategory(category, lower string) string {
	for _, pattern := range subcategoryPatterns[category] {
		for _, kw := range pattern.keywords {
			if strings.Contains(lower, kw) {
				return pattern.name
			}
		}
	}
	return fmt.Sprintf("%s_general", category)
}

// determineSeverity applies the fixed decision table over the three keyword
// severity lists. Counts are distinct list entries present in the text.
func determineSeverity(lower string) string {
	high := countHits(lower, highSeverityKeywords)
	medium := countHits(lower, mediumSeverityKeywords)
	low := countHits(lower, lowSeverityKeywords)

	switch {
	case high >= 2 || (high == 1 && medium >= 2):
		return entity.SeverityHigh
	case high == 1 || medium >= 2:
		return entity.SeverityMedium
	case medium == 1 || low >= 2:
		return entity.SeverityLow
	default:
		return entity.SeverityInfo
	}
}

func countHits(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func impactFor(category, severity string) string {
	templates, ok := impactTemplates[category]
	if !ok {
		templates = genericImpacts
	}
	if impact, ok := templates[severity]; ok {
		return impact
	}
	return "Information update"
}
