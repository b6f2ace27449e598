package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
)

var tweetHeader = []string{
	"id", "text", "author_id", "retweet_count", "like_count",
	"hashtags", "mentions", "location", "category", "severity",
	"timestamp", "source", "scraped_at",
}

// TweetFilter narrows GetRecent results. Zero Hours and Limit fall back to
// the 24 hour window and 50 rows.
type TweetFilter struct {
	Limit    int
	Hours    int
	Category string
}

type TweetRepository interface {
	// Insert is idempotent on the tweet id: when the id already exists the
	// stored id is returned without writing a new row.
	Insert(ctx context.Context, tweet *entity.Tweet) (string, error)
	GetRecent(ctx context.Context, filter TweetFilter) ([]entity.Tweet, error)
	Count(ctx context.Context) (int, error)
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

type tweetRepository struct {
	mu    sync.Mutex
	table *csvTable
	clock clockwork.Clock
	ids   *idGenerator
}

func NewTweetRepository(dataDir string, clock clockwork.Clock, log *logger.Logger) (TweetRepository, error) {
	table, err := newCSVTable(dataDir, "tweets.csv", tweetHeader, log)
	if err != nil {
		return nil, err
	}
	return &tweetRepository{
		table: table,
		clock: clock,
		ids:   newIDGenerator(clock),
	}, nil
}

func (r *tweetRepository) Insert(ctx context.Context, tweet *entity.Tweet) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tweet.ID != "" {
		for _, row := range r.table.readAll() {
			if row[0] == tweet.ID {
				return row[0], nil
			}
		}
	} else {
		tweet.ID = r.ids.Next()
	}
	if tweet.Timestamp.IsZero() {
		tweet.Timestamp = r.clock.Now()
	}
	if tweet.ScrapedAt.IsZero() {
		tweet.ScrapedAt = r.clock.Now()
	}

	if err := r.table.appendRow(encodeTweet(tweet)); err != nil {
		return "", err
	}
	return tweet.ID, nil
}

func (r *tweetRepository) GetRecent(ctx context.Context, filter TweetFilter) ([]entity.Tweet, error) {
	if filter.Hours <= 0 {
		filter.Hours = 24
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	cutoff := r.clock.Now().Add(-time.Duration(filter.Hours) * time.Hour)

	r.mu.Lock()
	rows := r.table.readAll()
	r.mu.Unlock()

	tweets := make([]entity.Tweet, 0, len(rows))
	for _, row := range rows {
		tweet := decodeTweet(row, r.clock)
		if tweet.Timestamp.Before(cutoff) {
			continue
		}
		if filter.Category != "" && tweet.Category != filter.Category {
			continue
		}
		tweets = append(tweets, tweet)
	}

	sort.SliceStable(tweets, func(i, j int) bool {
		return tweets[i].Timestamp.After(tweets[j].Timestamp)
	})
	if len(tweets) > filter.Limit {
		tweets = tweets[:filter.Limit]
	}
	return tweets, nil
}

func (r *tweetRepository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.table.readAll()), nil
}

func (r *tweetRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.table.readAll()
	kept := make([][]string, 0, len(rows))
	removed := 0
	for _, row := range rows {
		var warnings []string
		ts := parseTimeCell(row[10], "timestamp", r.clock, &warnings)
		if ts.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	if removed == 0 {
		return 0, nil
	}
	if err := r.table.rewrite(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

func encodeTweet(tweet *entity.Tweet) []string {
	return []string{
		tweet.ID,
		tweet.Text,
		tweet.AuthorID,
		strconv.Itoa(tweet.RetweetCount),
		strconv.Itoa(tweet.LikeCount),
		encodeJSONList(tweet.Hashtags),
		encodeJSONList(tweet.Mentions),
		tweet.Location,
		tweet.Category,
		tweet.Severity,
		formatTime(tweet.Timestamp),
		tweet.Source,
		formatTime(tweet.ScrapedAt),
	}
}

func decodeTweet(row []string, clock clockwork.Clock) entity.Tweet {
	var warnings []string
	tweet := entity.Tweet{
		ID:           row[0],
		Text:         row[1],
		AuthorID:     row[2],
		RetweetCount: parseIntCell(row[3], "retweet_count", &warnings),
		LikeCount:    parseIntCell(row[4], "like_count", &warnings),
		Hashtags:     decodeJSONList[string](row[5], "hashtags", &warnings),
		Mentions:     decodeJSONList[string](row[6], "mentions", &warnings),
		Location:     row[7],
		Category:     row[8],
		Severity:     row[9],
		Timestamp:    parseTimeCell(row[10], "timestamp", clock, &warnings),
		Source:       row[11],
		ScrapedAt:    parseTimeCell(row[12], "scraped_at", clock, &warnings),
	}
	tweet.DecodeWarnings = warnings
	return tweet
}
