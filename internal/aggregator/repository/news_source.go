package repository

import (
	"context"

	"golang-lanka-watch/internal/entity"
)

// NewsSourceRepository is a pull-based news provider. Implementations
// return unclassified items: category, severity and friends are filled in
// by the collector after classification.
type NewsSourceRepository interface {
	Name() string
	FetchLatest(ctx context.Context, limit int) ([]entity.NewsItem, error)
}
