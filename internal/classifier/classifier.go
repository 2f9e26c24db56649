package classifier

import (
	"context"
	"errors"

	"github.com/avdeev/sentiment-api/internal/models"
)

// Classifier assigns a sentiment label to a raw, unnormalized text.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.Label, error)
}

var (
	// ErrArtifactsUnavailable means the model or vectorizer artifact could not
	// be located or decoded. The artifacts are loaded on first use, so this
	// surfaces on the first classification, not at process start.
	ErrArtifactsUnavailable = errors.New("classifier: model artifacts unavailable")

	// ErrInference covers any failure while computing a prediction with
	// already-loaded artifacts or a remote backend.
	ErrInference = errors.New("classifier: inference failed")
)
