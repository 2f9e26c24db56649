// Package bot is an optional Telegram front end over the same pipeline as
// the HTTP API: send text, get a sentiment back.
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/avdeev/sentiment-api/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	svc    *service.Service
	logger *zap.Logger
}

func New(token string, svc *service.Service, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:    api,
		svc:    svc,
		logger: logger,
	}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		go b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	text := message.Text
	if text == "" {
		text = message.Caption
	}
	if strings.TrimSpace(text) == "" {
		b.sendMessage(message.Chat.ID, "Send me some text and I'll tell you its sentiment.")
		return
	}

	requestID := uuid.New().String()

	label, err := b.svc.Classify(ctx, text)
	if err != nil {
		b.logger.Error("Failed to classify message",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.Int64("user_id", message.From.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't classify that. Please try again.")
		return
	}

	b.logger.Info("Classified message",
		zap.String("request_id", requestID),
		zap.Int64("user_id", message.From.ID),
		zap.String("sentiment", string(label)))

	reply := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Sentiment: %s", label))
	reply.ReplyToMessageID = message.MessageID
	if _, err := b.api.Send(reply); err != nil {
		b.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "recent":
		b.handleRecent(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Welcome to the sentiment bot!
Send me any text and I'll classify it as Positive or Negative.

Use /recent <username> to see recent classified tweets for a Twitter user.
Use /help to see all available commands.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/start - Start the bot
/help - Show this help message
/recent <username> - Recent classified tweets for a user

Or just send me any text to classify it.`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleRecent(ctx context.Context, message *tgbotapi.Message) {
	username := strings.TrimSpace(message.CommandArguments())
	if username == "" {
		b.sendMessage(message.Chat.ID, "Usage: /recent <username>")
		return
	}

	tweets, cached, err := b.svc.TweetsForUser(ctx, username, 10)
	if err != nil {
		b.logger.Error("Failed to get tweets",
			zap.Error(err),
			zap.String("username", username))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't fetch tweets for that user.")
		return
	}

	if len(tweets) == 0 {
		b.sendMessage(message.Chat.ID, fmt.Sprintf("No recent tweets found for @%s.", username))
		return
	}

	var sb strings.Builder
	source := "fresh"
	if cached {
		source = "cached"
	}
	sb.WriteString(fmt.Sprintf("Recent tweets for @%s (%s):\n\n", username, source))
	for _, tweet := range tweets {
		sb.WriteString(fmt.Sprintf("[%s] %s\n\n", tweet.Sentiment, tweet.Text))
	}

	b.sendMessage(message.Chat.ID, sb.String())
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
