package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/avdeev/sentiment-api/internal/models"
	_ "github.com/lib/pq"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PostgresStorage persists the tweet log in PostgreSQL. Ids come from the
// table's BIGSERIAL sequence, so concurrent appends never collide.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db}
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}
	return nil
}

func (s *PostgresStorage) SaveTweet(ctx context.Context, tweet *models.Tweet) error {
	query := `
		INSERT INTO tweets (username, text, sentiment)
		VALUES ($1, $2, $3)
		RETURNING id, fetched_at`

	err := s.db.QueryRowContext(ctx, query, tweet.Username, tweet.Text, tweet.Sentiment).
		Scan(&tweet.ID, &tweet.FetchedAt)
	if err != nil {
		return fmt.Errorf("%w: inserting tweet: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PostgresStorage) SaveTweets(ctx context.Context, tweets []*models.Tweet) error {
	if len(tweets) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", ErrStoreUnavailable, err)
	}

	query := `
		INSERT INTO tweets (username, text, sentiment)
		VALUES ($1, $2, $3)
		RETURNING id, fetched_at`

	for _, tweet := range tweets {
		err := tx.QueryRowContext(ctx, query, tweet.Username, tweet.Text, tweet.Sentiment).
			Scan(&tweet.ID, &tweet.FetchedAt)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: inserting tweet batch: %v", ErrStoreUnavailable, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing tweet batch: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PostgresStorage) RecentByUsername(ctx context.Context, username string, limit int) ([]*models.Tweet, error) {
	query := `
		SELECT id, username, text, sentiment, fetched_at
		FROM tweets
		WHERE username = $1
		ORDER BY fetched_at DESC, id DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, username, limit)
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

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
