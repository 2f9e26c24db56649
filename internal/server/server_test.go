package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avdeev/sentiment-api/internal/models"
	"github.com/avdeev/sentiment-api/internal/service"
	"github.com/avdeev/sentiment-api/internal/storage"
	"github.com/avdeev/sentiment-api/internal/twitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubClassifier struct{}

func (stubClassifier) Classify(_ context.Context, text string) (models.Label, error) {
	if strings.Contains(text, "love") {
		return models.Positive, nil
	}
	return models.Negative, nil
}

type stubProvider struct {
	tweets     []twitter.SearchTweet
	err        error
	gotMax     int
	credential bool
}

func (p *stubProvider) RecentByUser(_ context.Context, _ string, max int) ([]twitter.SearchTweet, error) {
	p.gotMax = max
	if p.err != nil {
		return nil, p.err
	}
	return p.tweets, nil
}

func (p *stubProvider) HasCredential() bool { return p.credential }

func newTestServer(provider *stubProvider) (*Server, *storage.MemoryStorage) {
	store := storage.NewMemoryStorage()
	svc := service.New(store, stubClassifier{}, provider, 1, zap.NewNop())
	return New(svc, zap.NewNop()), store
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return parsed
}

func TestIndex(t *testing.T) {
	srv, _ := newTestServer(&stubProvider{credential: true})
	w := doRequest(t, srv, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sentiment API ready", decodeBody(t, w)["message"])
}

func TestPredict(t *testing.T) {
	srv, _ := newTestServer(&stubProvider{credential: true})

	w := doRequest(t, srv, http.MethodPost, "/predict", `{"text":"I love this"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Positive", decodeBody(t, w)["sentiment"])
}

func TestPredictBlankText(t *testing.T) {
	srv, _ := newTestServer(&stubProvider{credential: true})

	tests := []struct {
		name string
		body string
	}{
		{"whitespace only", `{"text":"   "}`},
		{"missing field", `{}`},
		{"empty body", ""},
		{"malformed json", `{"text":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, srv, http.MethodPost, "/predict", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeBody(t, w)["error"], "text is required")
		})
	}
}

func TestTweetsMissingUsername(t *testing.T) {
	srv, _ := newTestServer(&stubProvider{credential: true})
	w := doRequest(t, srv, http.MethodGet, "/tweets", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTweetsNoCredential(t *testing.T) {
	srv, _ := newTestServer(&stubProvider{credential: false})
	w := doRequest(t, srv, http.MethodGet, "/tweets?username=alice", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "BEARER_TOKEN")
}

func TestTweetsFetchPath(t *testing.T) {
	provider := &stubProvider{
		credential: true,
		tweets: []twitter.SearchTweet{
			{ID: "1", Text: "love it"},
			{ID: "2", Text: "hate it"},
		},
	}
	srv, store := newTestServer(provider)

	w := doRequest(t, srv, http.MethodGet, "/tweets?username=alice&count=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["cached"])
	tweets, ok := body["tweets"].([]any)
	require.True(t, ok)
	require.Len(t, tweets, 2)

	stored, err := store.RecentByUsername(context.Background(), "alice", 10)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestTweetsCachedPath(t *testing.T) {
	provider := &stubProvider{credential: true}
	srv, store := newTestServer(provider)

	require.NoError(t, store.SaveTweet(context.Background(), &models.Tweet{
		Username:  "bob",
		Text:      "cached tweet",
		Sentiment: models.Negative,
	}))

	w := doRequest(t, srv, http.MethodGet, "/tweets?username=bob", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["cached"])
}

func TestTweetsCountClamped(t *testing.T) {
	provider := &stubProvider{credential: true}
	srv, _ := newTestServer(provider)

	w := doRequest(t, srv, http.MethodGet, "/tweets?username=carol&count=500", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, provider.gotMax, "count above range must clamp to 100")

	w = doRequest(t, srv, http.MethodGet, "/tweets?username=dan&count=abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, provider.gotMax, "malformed count must default to 10")
}

func TestTweetsUpstreamStatusError(t *testing.T) {
	provider := &stubProvider{
		credential: true,
		err:        &twitter.StatusError{StatusCode: 429, Body: `{"title":"Too Many Requests"}`},
	}
	srv, store := newTestServer(provider)

	w := doRequest(t, srv, http.MethodGet, "/tweets?username=erin", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "429")
	assert.Contains(t, body["body"], "Too Many Requests")

	stored, err := store.RecentByUsername(context.Background(), "erin", 10)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestTweetsUpstreamTransportError(t *testing.T) {
	provider := &stubProvider{
		credential: true,
		err:        context.DeadlineExceeded,
	}
	srv, _ := newTestServer(provider)

	w := doRequest(t, srv, http.MethodGet, "/tweets?username=frank", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
