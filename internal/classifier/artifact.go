package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/avdeev/sentiment-api/internal/models"
	"github.com/avdeev/sentiment-api/internal/textproc"
	"go.uber.org/zap"
)

// modelArtifact is the serialized linear model: one weight per vocabulary
// index plus an intercept. A score >= 0 predicts the positive class.
type modelArtifact struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// vectorizerArtifact maps vocabulary tokens to feature indices.
type vectorizerArtifact struct {
	Vocabulary map[string]int `json:"vocabulary"`
}

// ArtifactClassifier runs inference with a model and vectorizer deserialized
// from disk. Both artifacts are loaded exactly once, on the first Classify
// call, and cached for the process lifetime; there is no hot reload. A failed
// load is cached too, so every subsequent call reports the same error without
// touching the filesystem again.
type ArtifactClassifier struct {
	modelPath      string
	vectorizerPath string
	logger         *zap.Logger

	loadOnce   sync.Once
	model      *modelArtifact
	vectorizer *vectorizerArtifact
	loadErr    error
}

func NewArtifactClassifier(modelPath, vectorizerPath string, logger *zap.Logger) *ArtifactClassifier {
	return &ArtifactClassifier{
		modelPath:      modelPath,
		vectorizerPath: vectorizerPath,
		logger:         logger,
	}
}

func (c *ArtifactClassifier) load() {
	model, err := readArtifact[modelArtifact](c.modelPath)
	if err != nil {
		c.loadErr = fmt.Errorf("%w: %v", ErrArtifactsUnavailable, err)
		return
	}

	vectorizer, err := readArtifact[vectorizerArtifact](c.vectorizerPath)
	if err != nil {
		c.loadErr = fmt.Errorf("%w: %v", ErrArtifactsUnavailable, err)
		return
	}

	// Vocabulary values are feature indices, not necessarily dense, so every
	// one of them must address a weight.
	for token, idx := range vectorizer.Vocabulary {
		if idx < 0 || idx >= len(model.Weights) {
			c.loadErr = fmt.Errorf("%w: vocabulary entry %q has index %d outside the %d model weights",
				ErrArtifactsUnavailable, token, idx, len(model.Weights))
			return
		}
	}

	c.model = model
	c.vectorizer = vectorizer
	c.logger.Info("Loaded classifier artifacts",
		zap.String("model", c.modelPath),
		zap.String("vectorizer", c.vectorizerPath),
		zap.Int("vocabulary_size", len(vectorizer.Vocabulary)))
}

func readArtifact[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var artifact T
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decoding %s: %v", path, err)
	}
	return &artifact, nil
}

// Classify normalizes the text, vectorizes it against the cached vocabulary
// and scores it with the cached model. The raw "1"/"0" prediction goes
// through models.ParseLabel so the label mapping is shared with every other
// backend.
func (c *ArtifactClassifier) Classify(ctx context.Context, text string) (models.Label, error) {
	c.loadOnce.Do(c.load)
	if c.loadErr != nil {
		return "", c.loadErr
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}

	score := c.model.Intercept
	for _, token := range strings.Fields(textproc.Normalize(text)) {
		if idx, ok := c.vectorizer.Vocabulary[token]; ok {
			score += c.model.Weights[idx]
		}
	}

	raw := "0"
	if score >= 0 {
		raw = "1"
	}
	return models.ParseLabel(raw), nil
}
