package repository

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonboulle/clockwork"
	"github.com/mauidude/go-readability"

	"golang-lanka-watch/internal/aggregator/config"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/utils"
)

const adaDeranaSource = "ada_derana"

// adaDeranaCategories are the category pages scraped in addition to the
// homepage. Their site categories are discarded after classification.
var adaDeranaCategories = []string{"hot-news", "sports-news"}

const fullTextLimit = 2000

var (
	minutesAgoPattern = regexp.MustCompile(`(\d+)\s+minutes?\s+ago`)
	hoursAgoPattern   = regexp.MustCompile(`(\d+)\s+hours?\s+ago`)
	longDatePattern   = regexp.MustCompile(`[A-Za-z]+\s+\d{1,2},\s+\d{4}\s+\d{1,2}:\d{2}\s*(?:am|pm|AM|PM)`)
	isoDatePattern    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	dayMonthPattern   = regexp.MustCompile(`\d{1,2}\s+[A-Za-z]+\s+\d{4}`)
)

type adaDeranaRepository struct {
	baseURL string
	client  *http.Client
	clock   clockwork.Clock
	logger  *logger.Logger
}

// NewAdaDeranaRepository scrapes the Ada Derana homepage and a couple of
// category pages for the latest headlines.
func NewAdaDeranaRepository(cfg *config.Config, clock clockwork.Clock, log *logger.Logger) NewsSourceRepository {
	timeout := cfg.News.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &adaDeranaRepository{
		baseURL: strings.TrimRight(cfg.News.AdaDeranaBaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		clock:   clock,
		logger:  log,
	}
}

func (r *adaDeranaRepository) Name() string {
	return adaDeranaSource
}

func (r *adaDeranaRepository) FetchLatest(ctx context.Context, limit int) ([]entity.NewsItem, error) {
	items, err := r.scrapeHomepage(ctx)
	if err != nil {
		return nil, err
	}

	for _, category := range adaDeranaCategories {
		categoryItems, err := r.scrapeCategory(ctx, category)
		if err != nil {
			r.logger.Warn("failed to scrape category",
				logger.StringField("category", category), logger.ErrorField(err))
			continue
		}
		items = append(items, categoryItems...)
	}

	items = dedupByTitle(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	// Full article text only for the items that survive the cap.
	for i := range items {
		if !utils.ShouldContinue(ctx, r.logger) {
			break
		}
		items[i].FullText = r.fetchFullArticle(ctx, items[i].Link)
	}
	return items, nil
}

func (r *adaDeranaRepository) scrapeHomepage(ctx context.Context) ([]entity.NewsItem, error) {
	doc, err := r.fetchDocument(ctx, r.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch homepage: %w", err)
	}

	var items []entity.NewsItem
	doc.Find("div.wr-hot-news div.hot-news").Each(func(i int, s *goquery.Selection) {
		if i >= 15 {
			return
		}
		if item, ok := r.extractArticle(s); ok {
			items = append(items, item)
		}
	})
	doc.Find("div.news-story").Each(func(i int, s *goquery.Selection) {
		if i >= 10 {
			return
		}
		if item, ok := r.extractArticle(s); ok {
			items = append(items, item)
		}
	})
	if top := doc.Find("div.top-story div.news-story").First(); top.Length() > 0 {
		if item, ok := r.extractArticle(top); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *adaDeranaRepository) scrapeCategory(ctx context.Context, category string) ([]entity.NewsItem, error) {
	doc, err := r.fetchDocument(ctx, fmt.Sprintf("%s/%s", r.baseURL, category))
	if err != nil {
		return nil, err
	}

	var items []entity.NewsItem
	doc.Find("div.news-story").Each(func(i int, s *goquery.Selection) {
		if i >= 20 {
			return
		}
		if item, ok := r.extractArticle(s); ok {
			items = append(items, item)
		}
	})
	return items, nil
}

func (r *adaDeranaRepository) extractArticle(s *goquery.Selection) (entity.NewsItem, bool) {
	title := strings.TrimSpace(s.Find("h3").First().Text())
	link, _ := s.Find("h3 a").First().Attr("href")
	if title == "" {
		anchor := s.Find("a").First()
		title = strings.TrimSpace(anchor.Text())
		link, _ = anchor.Attr("href")
	}
	if link == "" {
		link, _ = s.Find("a").First().Attr("href")
	}
	if len(title) < 5 || link == "" {
		return entity.NewsItem{}, false
	}
	link = r.absoluteURL(link)

	timeText := strings.TrimSpace(s.Find("span.comments").First().Text())
	if timeText == "" {
		timeText = strings.TrimSpace(s.Find("span").First().Text())
	}

	return entity.NewsItem{
		Title:     utils.SafeText(title),
		Summary:   utils.SafeText(strings.TrimSpace(s.Find("p").First().Text())),
		Link:      link,
		Source:    adaDeranaSource,
		Timestamp: r.parseArticleTime(timeText),
	}, true
}

// fetchFullArticle pulls the story body, preferring the site's story-text
// container and falling back to readability extraction. Failures yield an
// empty string so a broken article page never loses the headline.
func (r *adaDeranaRepository) fetchFullArticle(ctx context.Context, articleURL string) string {
	doc, err := r.fetchDocument(ctx, articleURL)
	if err != nil {
		r.logger.Debug("failed to fetch article page",
			logger.StringField("url", articleURL), logger.ErrorField(err))
		return ""
	}

	content := doc.Find("div.story-text").First()
	if content.Length() == 0 {
		content = doc.Find("article").First()
	}
	if content.Length() > 0 {
		content.Find("script,style,nav,footer,aside").Remove()
		return clampRunes(utils.SafeText(content.Text()), fullTextLimit)
	}

	html, err := doc.Html()
	if err != nil {
		return ""
	}
	readable, err := readability.NewDocument(html)
	if err != nil {
		r.logger.Debug("failed to extract article content",
			logger.StringField("url", articleURL), logger.ErrorField(err))
		return ""
	}
	stripped, err := goquery.NewDocumentFromReader(strings.NewReader(readable.Content()))
	if err != nil {
		return ""
	}
	return clampRunes(utils.SafeText(stripped.Text()), fullTextLimit)
}

func (r *adaDeranaRepository) fetchDocument(ctx context.Context, requestURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, requestURL)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

func (r *adaDeranaRepository) absoluteURL(link string) string {
	if strings.HasPrefix(link, "http") {
		return link
	}
	if strings.HasPrefix(link, "/") {
		return r.baseURL + link
	}
	return r.baseURL + "/" + link
}

// parseArticleTime understands the site's relative ("2 hours ago") and
// absolute ("December 7, 2025 4:12 pm") formats, defaulting to now.
func (r *adaDeranaRepository) parseArticleTime(text string) time.Time {
	now := r.clock.Now()
	if text == "" {
		return now
	}

	if m := minutesAgoPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.Add(-time.Duration(n) * time.Minute)
	}
	if m := hoursAgoPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.Add(-time.Duration(n) * time.Hour)
	}

	if m := longDatePattern.FindString(text); m != "" {
		for _, layout := range []string{"January 2, 2006 3:04 pm", "January 2, 2006 3:04 PM"} {
			if ts, err := time.Parse(layout, m); err == nil {
				return ts
			}
		}
	}
	if m := isoDatePattern.FindString(text); m != "" {
		if ts, err := time.Parse("2006-01-02", m); err == nil {
			return ts
		}
	}
	if m := dayMonthPattern.FindString(text); m != "" {
		for _, layout := range []string{"2 January 2006", "2 Jan 2006"} {
			if ts, err := time.Parse(layout, m); err == nil {
				return ts
			}
		}
	}
	return now
}

func dedupByTitle(items []entity.NewsItem) []entity.NewsItem {
	seen := make(map[string]struct{}, len(items))
	unique := items[:0]
	for _, item := range items {
		key := strings.ToLower(item.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}

func clampRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
