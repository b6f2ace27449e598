package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"golang-lanka-watch/internal/aggregator/config"
	"golang-lanka-watch/internal/aggregator/dto"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/ratelimit"
)

const (
	twitterSearchURL    = "https://api.twitter.com/2/tweets/search/recent"
	twitterMaxAttempts  = 3
	twitterSearchWindow = 7 * 24 * time.Hour
)

// sriLankaTweetKeywords filters search results down to posts that actually
// talk about the island. The broad query alone returns too much noise.
var sriLankaTweetKeywords = []string{
	"sri lanka", "colombo", "kandy", "galle", "#srilanka", "#lka",
}

// TwitterRepository fetches recent posts from the Twitter API v2 under the
// free tier quotas.
type TwitterRepository interface {
	IsConfigured() bool
	SearchRecent(ctx context.Context, query string, maxTweets int) ([]entity.Tweet, error)
	Usage() ratelimit.UsageStats
}

type twitterRepository struct {
	bearerToken string
	searchURL   string
	httpClient  *http.Client
	usage       *ratelimit.UsageLimiter
	clock       clockwork.Clock
	logger      *logger.Logger
}

// NewTwitterRepository creates the Twitter client. Every search consumes one
// unit from the shared usage limiter, so quota state survives restarts.
func NewTwitterRepository(cfg *config.Config, usage *ratelimit.UsageLimiter, clock clockwork.Clock, log *logger.Logger) TwitterRepository {
	return &twitterRepository{
		bearerToken: cfg.Twitter.BearerToken,
		searchURL:   twitterSearchURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		usage:       usage,
		clock:       clock,
		logger:      log,
	}
}

func (r *twitterRepository) IsConfigured() bool {
	return r.bearerToken != ""
}

func (r *twitterRepository) Usage() ratelimit.UsageStats {
	return r.usage.Usage()
}

// SearchRecent runs one recent-search request and returns the tweets that
// pass the Sri Lanka relevance filter, capped at maxTweets. Quota errors from
// the usage limiter are returned unwrapped so callers can skip the run.
func (r *twitterRepository) SearchRecent(ctx context.Context, query string, maxTweets int) ([]entity.Tweet, error) {
	if !r.IsConfigured() {
		return nil, fmt.Errorf("twitter api not configured")
	}
	if err := r.usage.Acquire(ctx); err != nil {
		return nil, err
	}

	enhanced := strings.TrimSpace(fmt.Sprintf("%s Sri Lanka -is:retweet lang:en", query))
	params := url.Values{}
	params.Set("query", enhanced)
	// Free tier requires max_results=10, it cannot go lower.
	params.Set("max_results", "10")
	params.Set("tweet.fields", "created_at,author_id,public_metrics,entities")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username")
	params.Set("start_time", r.clock.Now().Add(-twitterSearchWindow).UTC().Format(time.RFC3339))

	body, err := r.searchWithBackoff(ctx, params)
	if err != nil {
		return nil, err
	}

	var response dto.TwitterSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode twitter response: %w", err)
	}

	tweets := r.parseTweets(&response)
	tweets = filterSriLankaTweets(tweets)
	if maxTweets > 0 && len(tweets) > maxTweets {
		tweets = tweets[:maxTweets]
	}
	return tweets, nil
}

// searchWithBackoff retries on 429 responses honoring Retry-After and on
// transport errors with exponential backoff.
func (r *twitterRepository) searchWithBackoff(ctx context.Context, params url.Values) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < twitterMaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.searchURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build twitter request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+r.bearerToken)
		req.Header.Set("Content-Type", "application/json")

		resp, err := r.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt == twitterMaxAttempts-1 {
				break
			}
			wait := time.Duration(1<<attempt) * time.Second
			r.logger.Warn("Twitter request failed, retrying",
				logger.ErrorField(err), logger.Field("wait", wait.String()))
			if err := r.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("failed to read twitter response: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := 60
			if v, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && v > 0 {
				retryAfter = v
			}
			lastErr = fmt.Errorf("twitter rate limited, retry after %ds", retryAfter)
			r.logger.Warn("Twitter rate limited", logger.IntField("retry_after_seconds", retryAfter))
			if err := r.sleep(ctx, time.Duration(retryAfter)*time.Second); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			snippet := string(body)
			if len(snippet) > 200 {
				snippet = snippet[:200]
			}
			return nil, fmt.Errorf("twitter api returned status %d: %s", resp.StatusCode, snippet)
		}
		return body, nil
	}
	return nil, fmt.Errorf("twitter request failed after %d attempts: %w", twitterMaxAttempts, lastErr)
}

func (r *twitterRepository) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-r.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *twitterRepository) parseTweets(response *dto.TwitterSearchResponse) []entity.Tweet {
	usernames := make(map[string]string)
	if response.Includes != nil {
		for _, user := range response.Includes.Users {
			usernames[user.ID] = user.Username
		}
	}

	tweets := make([]entity.Tweet, 0, len(response.Data))
	for _, raw := range response.Data {
		author := raw.AuthorID
		if username, ok := usernames[raw.AuthorID]; ok && username != "" {
			author = username
		}

		tweet := entity.Tweet{
			ID:        raw.ID,
			Text:      raw.Text,
			AuthorID:  author,
			Source:    entity.TweetSourceAPI,
			ScrapedAt: r.clock.Now(),
		}
		if raw.PublicMetrics != nil {
			tweet.RetweetCount = raw.PublicMetrics.RetweetCount
			tweet.LikeCount = raw.PublicMetrics.LikeCount
		}
		if raw.Entities != nil {
			for _, tag := range raw.Entities.Hashtags {
				tweet.Hashtags = append(tweet.Hashtags, tag.Tag)
			}
			for _, mention := range raw.Entities.Mentions {
				tweet.Mentions = append(tweet.Mentions, mention.Username)
			}
		}
		if created, err := time.Parse(time.RFC3339, raw.CreatedAt); err == nil {
			tweet.Timestamp = created
		} else {
			tweet.Timestamp = r.clock.Now()
		}
		tweets = append(tweets, tweet)
	}
	return tweets
}

func filterSriLankaTweets(tweets []entity.Tweet) []entity.Tweet {
	kept := tweets[:0]
	for _, tweet := range tweets {
		text := strings.ToLower(tweet.Text)
		for _, keyword := range sriLankaTweetKeywords {
			if strings.Contains(text, keyword) {
				kept = append(kept, tweet)
				break
			}
		}
	}
	return kept
}
