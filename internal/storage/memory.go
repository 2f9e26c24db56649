package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avdeev/sentiment-api/internal/models"
)

// MemoryStorage keeps the tweet log in process memory. Used by tests and by
// the "memory" database driver for running without a database at all.
type MemoryStorage struct {
	mu     sync.RWMutex
	nextID int64
	tweets []*models.Tweet
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{nextID: 1}
}

func (s *MemoryStorage) SaveTweet(ctx context.Context, tweet *models.Tweet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertLocked(tweet)
	return nil
}

func (s *MemoryStorage) SaveTweets(ctx context.Context, tweets []*models.Tweet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tweet := range tweets {
		s.insertLocked(tweet)
	}
	return nil
}

func (s *MemoryStorage) insertLocked(tweet *models.Tweet) {
	tweet.ID = s.nextID
	s.nextID++
	tweet.FetchedAt = time.Now().UTC()

	stored := *tweet
	s.tweets = append(s.tweets, &stored)
}

func (s *MemoryStorage) RecentByUsername(ctx context.Context, username string, limit int) ([]*models.Tweet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Tweet, 0)
	for _, tweet := range s.tweets {
		if tweet.Username == username {
			copied := *tweet
			matched = append(matched, &copied)
		}
	}

	// FetchedAt descending, id descending as the tie-breaker so same-batch
	// rows come back in reverse insertion order.
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].FetchedAt.Equal(matched[j].FetchedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].FetchedAt.After(matched[j].FetchedAt)
	})

	if limit >= 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
