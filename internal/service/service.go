// Package service implements the retrieval orchestrator: serve classified
// tweets from the durable cache, or fetch, classify and persist them on a
// miss.
package service

import (
	"context"

	"github.com/avdeev/sentiment-api/internal/classifier"
	"github.com/avdeev/sentiment-api/internal/models"
	"github.com/avdeev/sentiment-api/internal/storage"
	"github.com/avdeev/sentiment-api/internal/twitter"
	"go.uber.org/zap"
)

const (
	defaultCount = 10
	maxCount     = 100
)

// SearchProvider is the upstream tweet source.
type SearchProvider interface {
	RecentByUser(ctx context.Context, username string, max int) ([]twitter.SearchTweet, error)
	HasCredential() bool
}

type Service struct {
	storage    storage.Storage
	classifier classifier.Classifier
	provider   SearchProvider
	// minCached is how many cached records count as a hit. The default of 1
	// preserves the original policy: any cached record, however stale or
	// short of the requested count, short-circuits the upstream fetch.
	minCached int
	logger    *zap.Logger
}

func New(store storage.Storage, clf classifier.Classifier, provider SearchProvider, minCached int, logger *zap.Logger) *Service {
	if minCached < 1 {
		minCached = 1
	}
	return &Service{
		storage:    store,
		classifier: clf,
		provider:   provider,
		minCached:  minCached,
		logger:     logger,
	}
}

// ClampCount normalizes a requested tweet count into [1,100]. Malformed or
// out-of-range values never fail: anything below 1 becomes the default of 10
// and anything above 100 is capped at 100.
func ClampCount(count int) int {
	if count < 1 {
		return defaultCount
	}
	if count > maxCount {
		return maxCount
	}
	return count
}

// Classify runs the classifier on one raw text.
func (s *Service) Classify(ctx context.Context, text string) (models.Label, error) {
	return s.classifier.Classify(ctx, text)
}

// TweetsForUser returns up to count classified tweets for username, with a
// flag telling whether they came from the cache. On a miss it fetches from
// the provider, classifies every item, then persists the whole batch before
// returning; a provider or classification failure leaves the store untouched.
func (s *Service) TweetsForUser(ctx context.Context, username string, count int) ([]models.ClassifiedTweet, bool, error) {
	count = ClampCount(count)

	cached, err := s.storage.RecentByUsername(ctx, username, count)
	if err != nil {
		return nil, false, err
	}
	if len(cached) >= s.minCached {
		result := make([]models.ClassifiedTweet, len(cached))
		for i, tweet := range cached {
			result[i] = models.ClassifiedTweet{Text: tweet.Text, Sentiment: tweet.Sentiment}
		}
		s.logger.Debug("Serving tweets from cache",
			zap.String("username", username),
			zap.Int("count", len(result)))
		return result, true, nil
	}

	fetched, err := s.provider.RecentByUser(ctx, username, count)
	if err != nil {
		return nil, false, err
	}

	result := make([]models.ClassifiedTweet, 0, len(fetched))
	batch := make([]*models.Tweet, 0, len(fetched))
	for _, item := range fetched {
		label, err := s.classifier.Classify(ctx, item.Text)
		if err != nil {
			return nil, false, err
		}
		result = append(result, models.ClassifiedTweet{Text: item.Text, Sentiment: label})
		batch = append(batch, &models.Tweet{
			Username:  username,
			Text:      item.Text,
			Sentiment: label,
		})
	}

	if err := s.storage.SaveTweets(ctx, batch); err != nil {
		return nil, false, err
	}

	s.logger.Info("Fetched and classified tweets",
		zap.String("username", username),
		zap.Int("count", len(result)))
	return result, false, nil
}

// ProviderConfigured reports whether the upstream credential is present.
func (s *Service) ProviderConfigured() bool {
	return s.provider.HasCredential()
}
