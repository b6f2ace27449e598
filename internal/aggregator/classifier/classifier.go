package classifier

import (
	"context"

	"golang-lanka-watch/internal/entity"
)

const (
	ProviderKeyword = "keyword"
	ProviderGemini  = "gemini"
)

// Classifier assigns a category, location, severity and impact summary to a
// piece of free text. Implementations never fail: when a backend is
// unavailable they degrade to a usable default instead of returning an error.
type Classifier interface {
	Classify(ctx context.Context, text string) entity.Classification
}
