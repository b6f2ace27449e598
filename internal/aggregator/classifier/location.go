package classifier

import (
	"regexp"
	"strings"
)

// locationPatterns pull candidate place names out of prose when no gazetteer
// entry appears verbatim. Patterns run in order against the original text.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`in\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`at\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`near\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`(\w+\s+District)`),
	regexp.MustCompile(`(\w+\s+Province)`),
}

// extractLocation finds the first gazetteer entry mentioned in the text,
// falling back to pattern captures cross-checked against the gazetteer.
// Unlocatable text maps to the country itself.
func extractLocation(text string) string {
	lower := strings.ToLower(text)
	for _, loc := range sriLankaLocations {
		if strings.Contains(lower, strings.ToLower(loc)) {
			return loc
		}
	}

	for _, pattern := range locationPatterns {
		for _, groups := range pattern.FindAllStringSubmatch(text, -1) {
			candidate := strings.ToLower(strings.TrimSpace(groups[1]))
			if candidate == "" {
				continue
			}
			for _, loc := range sriLankaLocations {
				lowerLoc := strings.ToLower(loc)
				if candidate == lowerLoc || strings.Contains(lowerLoc, candidate) {
					return loc
				}
			}
		}
	}

	return "Sri Lanka"
}
