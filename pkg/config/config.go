package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Twitter    TwitterConfig    `mapstructure:"twitter"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Cache      CacheConfig      `mapstructure:"cache"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	// Driver selects the storage backend: sqlite, postgres or memory.
	Driver string `mapstructure:"driver"`

	// SQLite
	Path string `mapstructure:"path"`

	// PostgreSQL
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type TwitterConfig struct {
	BearerToken string        `mapstructure:"bearer_token"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type ClassifierConfig struct {
	// Backend selects the classifier: artifact or openai.
	Backend        string `mapstructure:"backend"`
	ModelPath      string `mapstructure:"model_path"`
	VectorizerPath string `mapstructure:"vectorizer_path"`
}

type CacheConfig struct {
	// MinRecords is how many cached records count as a cache hit. The
	// default of 1 means any cached record for a user skips the upstream
	// fetch entirely.
	MinRecords int `mapstructure:"min_records"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Driver:   "postgres",
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "tweets.db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("twitter.base_url", "https://api.twitter.com")
	v.SetDefault("twitter.timeout", 10*time.Second)
	v.SetDefault("classifier.backend", "artifact")
	v.SetDefault("classifier.model_path", "model/model.json")
	v.SetDefault("classifier.vectorizer_path", "model/vectorizer.json")
	v.SetDefault("cache.min_records", 1)
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.max_tokens", 10)
	v.SetDefault("openai.temperature", 0.0)
	v.SetDefault("telegram.enabled", false)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file; a missing file is fine, defaults plus
	// environment variables keep the service runnable.
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !strings.Contains(err.Error(), "no such file") {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Database = dbConfig
	}

	// Get other environment variables
	if token := v.GetString("BEARER_TOKEN"); token != "" {
		config.Twitter.BearerToken = token
	}

	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	return &config, nil
}
