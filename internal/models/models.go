package models

import (
	"strings"
	"time"
)

// Label is the sentiment assigned to a piece of text.
type Label string

const (
	Positive Label = "Positive"
	Negative Label = "Negative"
)

// ParseLabel maps a raw model output to a Label. Classifier backends emit
// heterogeneous values ("1", "0", "positive", free-form text), so anything
// recognized as positive maps to Positive and everything else, including
// unknown tokens and empty output, maps to Negative.
func ParseLabel(raw string) Label {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "positive", "pos":
		return Positive
	default:
		return Negative
	}
}

// Tweet is one classified post as persisted in the cache. Rows are append-only:
// the store assigns ID and FetchedAt on insert and nothing updates them after.
type Tweet struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Sentiment Label     `json:"sentiment"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ClassifiedTweet is the response shape for a single tweet; it is never persisted.
type ClassifiedTweet struct {
	Text      string `json:"text"`
	Sentiment Label  `json:"sentiment"`
}
