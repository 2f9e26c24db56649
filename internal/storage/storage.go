package storage

import (
	"context"
	"errors"

	"github.com/avdeev/sentiment-api/internal/models"
)

// ErrStoreUnavailable wraps failures of the underlying persistence medium.
var ErrStoreUnavailable = errors.New("storage: store unavailable")

// Storage is the durable, append-only cache of classified tweets. Records are
// immutable once written; there is no update or delete. Implementations must
// assign ids through the storage medium's own sequence so concurrent appends
// stay unique without application-level locking.
type Storage interface {
	// SaveTweet inserts one record, assigning its ID and FetchedAt.
	SaveTweet(ctx context.Context, tweet *models.Tweet) error

	// SaveTweets inserts a batch atomically: either every record is
	// persisted or none is.
	SaveTweets(ctx context.Context, tweets []*models.Tweet) error

	// RecentByUsername returns up to limit records for the username, most
	// recently fetched first. No records is an empty slice, not an error.
	RecentByUsername(ctx context.Context, username string, limit int) ([]*models.Tweet, error)

	Close() error
}
