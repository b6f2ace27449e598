package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-lanka-watch/pkg/ratelimit"
)

const twitterSamplePayload = `{
	"data": [
		{
			"id": "1001",
			"text": "Flood warning issued for Colombo #srilanka",
			"author_id": "u1",
			"created_at": "2025-06-10T10:00:00Z",
			"public_metrics": {"retweet_count": 3, "like_count": 7},
			"entities": {
				"hashtags": [{"tag": "srilanka"}],
				"mentions": [{"username": "dmcsl"}]
			}
		},
		{
			"id": "1002",
			"text": "Completely unrelated post about the weather elsewhere",
			"author_id": "u2",
			"created_at": "2025-06-10T09:00:00Z"
		}
	],
	"includes": {"users": [{"id": "u1", "username": "newswire"}]}
}`

func newTwitterRepo(t *testing.T, searchURL string, now time.Time) *twitterRepository {
	t.Helper()
	clock := clockwork.NewFakeClockAt(now)
	log := newTestLogger(t)
	usage := ratelimit.NewUsageLimiter(
		ratelimit.NewFileStore(filepath.Join(t.TempDir(), "usage.json")),
		100, 10, 0, clock, log)
	return &twitterRepository{
		bearerToken: "test-token",
		searchURL:   searchURL,
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		usage:       usage,
		clock:       clock,
		logger:      log,
	}
}

func TestSearchRecentRequestsEntityFields(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	var query url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twitterSamplePayload))
	}))
	defer server.Close()

	repo := newTwitterRepo(t, server.URL, now)
	tweets, err := repo.SearchRecent(context.Background(), "flood", 10)
	require.NoError(t, err)

	// The entities field must be requested, otherwise the API never sends
	// hashtags and mentions back.
	assert.Equal(t, "created_at,author_id,public_metrics,entities", query.Get("tweet.fields"))
	assert.Equal(t, "10", query.Get("max_results"))
	assert.Equal(t, "author_id", query.Get("expansions"))
	assert.Equal(t, "flood Sri Lanka -is:retweet lang:en", query.Get("query"))

	// The off-island post is filtered out.
	require.Len(t, tweets, 1)
	got := tweets[0]
	assert.Equal(t, "1001", got.ID)
	assert.Equal(t, "newswire", got.AuthorID)
	assert.Equal(t, []string{"srilanka"}, got.Hashtags)
	assert.Equal(t, []string{"dmcsl"}, got.Mentions)
	assert.Equal(t, 3, got.RetweetCount)
	assert.Equal(t, 7, got.LikeCount)
	assert.Equal(t, time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC), got.Timestamp)
}

func TestSearchRecentNotConfigured(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	repo := newTwitterRepo(t, "http://unused", now)
	repo.bearerToken = ""

	_, err := repo.SearchRecent(context.Background(), "flood", 10)
	assert.Error(t, err)
}

func TestSearchRecentReturnsQuotaErrorUnwrapped(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	repo := newTwitterRepo(t, server.URL, now)
	clock := clockwork.NewFakeClockAt(now)
	repo.usage = ratelimit.NewUsageLimiter(
		ratelimit.NewFileStore(filepath.Join(t.TempDir(), "usage.json")),
		100, 1, 0, clock, newTestLogger(t))

	_, err := repo.SearchRecent(context.Background(), "flood", 10)
	require.NoError(t, err)

	_, err = repo.SearchRecent(context.Background(), "flood", 10)
	assert.ErrorIs(t, err, ratelimit.ErrDailyLimitReached)
}
