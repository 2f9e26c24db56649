package main

import (
	"github.com/avdeev/sentiment-api/internal/bot"
	"github.com/avdeev/sentiment-api/internal/classifier"
	"github.com/avdeev/sentiment-api/internal/server"
	"github.com/avdeev/sentiment-api/internal/service"
	"github.com/avdeev/sentiment-api/internal/storage"
	"github.com/avdeev/sentiment-api/internal/twitter"
	"github.com/avdeev/sentiment-api/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	switch cfg.Database.Driver {
	case "memory":
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	case "postgres":
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	default:
		logger.Info("Using SQLite storage", zap.String("path", cfg.Database.Path))
		store, err = storage.NewSQLiteStorage(cfg.Database.Path)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize classifier
	var clf classifier.Classifier
	if cfg.Classifier.Backend == "openai" {
		logger.Info("Using OpenAI classifier", zap.String("model", cfg.OpenAI.Model))
		clf = classifier.NewGPTClassifier(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Temperature,
			logger,
		)
	} else {
		logger.Info("Using artifact classifier",
			zap.String("model", cfg.Classifier.ModelPath),
			zap.String("vectorizer", cfg.Classifier.VectorizerPath))
		clf = classifier.NewArtifactClassifier(
			cfg.Classifier.ModelPath,
			cfg.Classifier.VectorizerPath,
			logger,
		)
	}

	// Initialize the Twitter client and orchestrator
	client := twitter.NewClient(cfg.Twitter.BearerToken, cfg.Twitter.BaseURL, cfg.Twitter.Timeout)
	svc := service.New(store, clf, client, cfg.Cache.MinRecords, logger)

	// Optionally start the Telegram bot
	if cfg.Telegram.Enabled && cfg.Telegram.Token != "" {
		b, err := bot.New(cfg.Telegram.Token, svc, logger)
		if err != nil {
			logger.Fatal("Failed to create bot", zap.Error(err))
		}
		go func() {
			if err := b.Start(); err != nil {
				logger.Error("Bot error", zap.Error(err))
			}
		}()
	}

	// Start the HTTP server
	srv := server.New(svc, logger)
	if err := srv.Run(cfg.Server.Address); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
