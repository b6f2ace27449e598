package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonboulle/clockwork"
	"github.com/mmcdole/gofeed"

	"golang-lanka-watch/internal/aggregator/config"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/utils"
)

type rssNewsRepository struct {
	feeds  []string
	parser *gofeed.Parser
	clock  clockwork.Clock
	logger *logger.Logger
}

// NewRSSNewsRepository aggregates the configured RSS feeds into one source.
// Feeds that fail to parse are skipped so one dead feed never starves the
// rest.
func NewRSSNewsRepository(cfg *config.Config, clock clockwork.Clock, log *logger.Logger) NewsSourceRepository {
	return &rssNewsRepository{
		feeds:  cfg.News.RSSFeeds,
		parser: gofeed.NewParser(),
		clock:  clock,
		logger: log,
	}
}

func (r *rssNewsRepository) Name() string {
	return "rss"
}

func (r *rssNewsRepository) FetchLatest(ctx context.Context, limit int) ([]entity.NewsItem, error) {
	var items []entity.NewsItem
	for _, feedURL := range r.feeds {
		if !utils.ShouldContinue(ctx, r.logger) {
			break
		}
		feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			r.logger.Warn("failed to parse feed",
				logger.StringField("feed", feedURL), logger.ErrorField(err))
			continue
		}

		source := feedSource(feed.Title)
		for _, item := range feed.Items {
			news := entity.NewsItem{
				Title:   utils.SafeText(item.Title),
				Summary: utils.SafeText(stripHTML(item.Description)),
				Link:    item.Link,
				Source:  source,
			}
			if len(news.Title) < 5 || news.Link == "" {
				continue
			}
			if item.PublishedParsed != nil {
				news.Timestamp = *item.PublishedParsed
			} else {
				news.Timestamp = r.clock.Now()
			}
			items = append(items, news)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	items = dedupByTitle(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func feedSource(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "rss"
	}
	return "rss_" + strings.ToLower(strings.ReplaceAll(title, " ", "_"))
}

func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}
