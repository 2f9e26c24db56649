package classifier

import (
	"context"
	"fmt"

	"github.com/avdeev/sentiment-api/internal/models"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const gptPrompt = `Classify the sentiment of the following text.
Reply with exactly one word: "positive" or "negative".

Text: %s`

// GPTClassifier is an alternate backend that asks a chat-completion model for
// the label instead of running the local artifacts. The raw reply goes
// through models.ParseLabel, so an unexpected reply degrades to Negative
// rather than failing.
type GPTClassifier struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewGPTClassifier(apiKey, model string, maxTokens int, temperature float64, logger *zap.Logger) *GPTClassifier {
	return &GPTClassifier{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

func (c *GPTClassifier) Classify(ctx context.Context, text string) (models.Label, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(gptPrompt, text),
				},
			},
			MaxTokens:   c.maxTokens,
			Temperature: float32(c.temperature),
		},
	)
	if err != nil {
		c.logger.Error("Failed to get GPT response", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrInference)
	}

	return models.ParseLabel(resp.Choices[0].Message.Content), nil
}
