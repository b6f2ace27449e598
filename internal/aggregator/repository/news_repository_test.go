package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-lanka-watch/internal/entity"
)

func TestNewsTimeWindowFilter(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo, err := NewNewsRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	ages := []time.Duration{
		1 * time.Hour,
		6 * time.Hour,
		23 * time.Hour,
		30 * time.Hour,
		47 * time.Hour,
	}
	for i, age := range ages {
		_, err := repo.Insert(ctx, &entity.NewsItem{
			ID:        string(rune('a' + i)),
			Title:     "story",
			Category:  "traffic",
			Severity:  "medium",
			Location:  "Colombo",
			Timestamp: now.Add(-age),
		})
		require.NoError(t, err)
	}

	items, err := repo.GetRecent(ctx, NewsFilter{Hours: 24})
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Newest first, and only rows inside the window survive.
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, "c", items[2].ID)

	items, err = repo.GetRecent(ctx, NewsFilter{Hours: 48})
	require.NoError(t, err)
	assert.Len(t, items, 5)

	items, err = repo.GetRecent(ctx, NewsFilter{Hours: 48, Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
}

func TestNewsExactAndSubstringFilters(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo, err := NewNewsRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	seed := []entity.NewsItem{
		{ID: "1", Category: "traffic", Severity: "high", Location: "Colombo District"},
		{ID: "2", Category: "weather", Severity: "high", Location: "Kandy"},
		{ID: "3", Category: "traffic", Severity: "low", Location: "Galle"},
	}
	for i := range seed {
		seed[i].Timestamp = now
		_, err := repo.Insert(ctx, &seed[i])
		require.NoError(t, err)
	}

	items, err := repo.GetRecent(ctx, NewsFilter{Category: "traffic"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = repo.GetRecent(ctx, NewsFilter{Category: "traffic", Severity: "high"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)

	// Location matches by containment, not equality.
	items, err = repo.GetRecent(ctx, NewsFilter{Location: "Colombo"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Colombo District", items[0].Location)
}

func TestNewsKeywordsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	repo, err := NewNewsRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = repo.Insert(ctx, &entity.NewsItem{
		Title:    "flood, with \"quotes\"",
		Keywords: []string{"flood", "warning", "colombo"},
	})
	require.NoError(t, err)

	items, err := repo.GetRecent(ctx, NewsFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"flood", "warning", "colombo"}, items[0].Keywords)
	assert.Equal(t, "flood, with \"quotes\"", items[0].Title)
	assert.Empty(t, items[0].DecodeWarnings)
}

func TestNewsDecodeSubstitutions(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo, err := NewNewsRepository(dir, clock, newTestLogger(t))
	require.NoError(t, err)

	// A row with an undecodable keywords cell and a garbage timestamp,
	// appended behind the repository's back.
	row := "9,title,,,link,src,traffic,traffic_general,Colombo,,low,not-json,garbage,\n"
	f, err := os.OpenFile(filepath.Join(dir, "news.csv"), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(row)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	items, err := repo.GetRecent(context.Background(), NewsFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Empty(t, got.Keywords)
	// Both unreadable timestamps substitute the current instant.
	assert.True(t, got.Timestamp.Equal(now))
	assert.True(t, got.ProcessedAt.Equal(now))
	assert.Len(t, got.DecodeWarnings, 3)
}
