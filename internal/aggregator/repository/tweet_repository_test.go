package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-lanka-watch/internal/entity"
)

func TestTweetInsertIsIdempotentOnID(t *testing.T) {
	dir := t.TempDir()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	repo, err := NewTweetRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	first, err := repo.Insert(ctx, &entity.Tweet{ID: "1001", Text: "flood in Colombo"})
	require.NoError(t, err)
	assert.Equal(t, "1001", first)

	// Same id with different content must not create a second row.
	second, err := repo.Insert(ctx, &entity.Tweet{ID: "1001", Text: "completely different"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	tweets, err := repo.GetRecent(ctx, TweetFilter{})
	require.NoError(t, err)
	require.Len(t, tweets, 1)
	assert.Equal(t, "flood in Colombo", tweets[0].Text)
}

func TestTweetInsertGeneratesIDWhenMissing(t *testing.T) {
	dir := t.TempDir()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	repo, err := NewTweetRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	id, err := repo.Insert(ctx, &entity.Tweet{Text: "no id supplied"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	id2, err := repo.Insert(ctx, &entity.Tweet{Text: "another"})
	require.NoError(t, err)
	assert.NotEqual(t, id, id2)
}

func TestTweetCategoryAndWindowFilter(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo, err := NewTweetRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	seed := []entity.Tweet{
		{ID: "1", Category: "weather", Timestamp: now.Add(-1 * time.Hour)},
		{ID: "2", Category: "traffic", Timestamp: now.Add(-2 * time.Hour)},
		{ID: "3", Category: "weather", Timestamp: now.Add(-40 * time.Hour)},
	}
	for i := range seed {
		_, err := repo.Insert(ctx, &seed[i])
		require.NoError(t, err)
	}

	tweets, err := repo.GetRecent(ctx, TweetFilter{Category: "weather", Hours: 24})
	require.NoError(t, err)
	require.Len(t, tweets, 1)
	assert.Equal(t, "1", tweets[0].ID)

	tweets, err = repo.GetRecent(ctx, TweetFilter{Hours: 48})
	require.NoError(t, err)
	require.Len(t, tweets, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{tweets[0].ID, tweets[1].ID, tweets[2].ID})
}

func TestTweetNestedListsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	repo, err := NewTweetRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = repo.Insert(ctx, &entity.Tweet{
		ID:       "7",
		Text:     "power cut #lka",
		Hashtags: []string{"lka", "powercut"},
		Mentions: []string{"ceb_sl"},
	})
	require.NoError(t, err)

	tweets, err := repo.GetRecent(ctx, TweetFilter{})
	require.NoError(t, err)
	require.Len(t, tweets, 1)
	assert.Equal(t, []string{"lka", "powercut"}, tweets[0].Hashtags)
	assert.Equal(t, []string{"ceb_sl"}, tweets[0].Mentions)
}
