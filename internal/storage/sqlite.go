package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avdeev/sentiment-api/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tweets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL,
    text TEXT NOT NULL,
    sentiment TEXT NOT NULL,
    fetched_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tweets_username_fetched_at
    ON tweets (username, fetched_at DESC);
`

// SQLiteStorage is the default store: a single local database file, matching
// the append-and-scan access pattern of the tweet cache. Ids come from the
// AUTOINCREMENT rowid sequence.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids lock contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) SaveTweet(ctx context.Context, tweet *models.Tweet) error {
	return s.insert(ctx, s.db, tweet)
}

func (s *SQLiteStorage) SaveTweets(ctx context.Context, tweets []*models.Tweet) error {
	if len(tweets) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", ErrStoreUnavailable, err)
	}

	for _, tweet := range tweets {
		if err := s.insert(ctx, tx, tweet); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing tweet batch: %v", ErrStoreUnavailable, err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStorage) insert(ctx context.Context, db execer, tweet *models.Tweet) error {
	tweet.FetchedAt = time.Now().UTC()

	res, err := db.ExecContext(ctx,
		`INSERT INTO tweets (username, text, sentiment, fetched_at) VALUES (?, ?, ?, ?)`,
		tweet.Username, tweet.Text, string(tweet.Sentiment), tweet.FetchedAt)
	if err != nil {
		return fmt.Errorf("%w: inserting tweet: %v", ErrStoreUnavailable, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: reading inserted id: %v", ErrStoreUnavailable, err)
	}
	tweet.ID = id
	return nil
}

func (s *SQLiteStorage) RecentByUsername(ctx context.Context, username string, limit int) ([]*models.Tweet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, text, sentiment, fetched_at
		 FROM tweets
		 WHERE username = ?
		 ORDER BY fetched_at DESC, id DESC
		 LIMIT ?`,
		username, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: querying tweets: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	tweets := make([]*models.Tweet, 0)
	for rows.Next() {
		tweet := &models.Tweet{}
		var sentiment string
		if err := rows.Scan(&tweet.ID, &tweet.Username, &tweet.Text, &sentiment, &tweet.FetchedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning tweet: %v", ErrStoreUnavailable, err)
		}
		tweet.Sentiment = models.Label(sentiment)
		tweets = append(tweets, tweet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading tweets: %v", ErrStoreUnavailable, err)
	}

	return tweets, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
