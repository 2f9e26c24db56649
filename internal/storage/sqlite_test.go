package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/avdeev/sentiment-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "tweets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStorageRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	tweet := &models.Tweet{Username: "alice", Text: "loving it", Sentiment: models.Positive}
	require.NoError(t, s.SaveTweet(ctx, tweet))
	assert.NotZero(t, tweet.ID)
	assert.False(t, tweet.FetchedAt.IsZero())

	tweets, err := s.RecentByUsername(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, tweets, 1)
	assert.Equal(t, "loving it", tweets[0].Text)
	assert.Equal(t, models.Positive, tweets[0].Sentiment)
}

func TestSQLiteStorageRecentOrdering(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, s.SaveTweet(ctx, &models.Tweet{
			Username:  "bob",
			Text:      fmt.Sprintf("tweet %d", i),
			Sentiment: models.Negative,
		}))
	}

	tweets, err := s.RecentByUsername(ctx, "bob", 10)
	require.NoError(t, err)
	require.Len(t, tweets, 4)
	for i, tweet := range tweets {
		assert.Equal(t, fmt.Sprintf("tweet %d", 3-i), tweet.Text)
	}
}

func TestSQLiteStorageEmptyResult(t *testing.T) {
	s := newTestSQLite(t)

	tweets, err := s.RecentByUsername(context.Background(), "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, tweets)
}

func TestSQLiteStorageBatchInsert(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	batch := []*models.Tweet{
		{Username: "carol", Text: "one", Sentiment: models.Positive},
		{Username: "carol", Text: "two", Sentiment: models.Negative},
		{Username: "carol", Text: "three", Sentiment: models.Positive},
	}
	require.NoError(t, s.SaveTweets(ctx, batch))

	for _, tweet := range batch {
		assert.NotZero(t, tweet.ID)
	}

	tweets, err := s.RecentByUsername(ctx, "carol", 10)
	require.NoError(t, err)
	assert.Len(t, tweets, 3)
	assert.Equal(t, "three", tweets[0].Text)
}

func TestSQLiteStorageEmptyBatchNoop(t *testing.T) {
	s := newTestSQLite(t)
	require.NoError(t, s.SaveTweets(context.Background(), nil))
}
