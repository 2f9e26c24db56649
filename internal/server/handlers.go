package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/avdeev/sentiment-api/internal/twitter"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type predictRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Sentiment API ready"})
}

func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	// Malformed JSON is treated the same as a missing text field.
	_ = c.ShouldBindJSON(&req)

	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	label, err := s.svc.Classify(c.Request.Context(), req.Text)
	if err != nil {
		s.logger.Error("Classification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sentiment": label})
}

func (s *Server) handleTweets(c *gin.Context) {
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username query param is required"})
		return
	}

	if !s.svc.ProviderConfigured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "BEARER_TOKEN is not configured"})
		return
	}

	// A malformed count falls back to the default rather than failing; the
	// service clamps the value into range.
	count, err := strconv.Atoi(c.DefaultQuery("count", "10"))
	if err != nil {
		count = 10
	}

	tweets, cached, err := s.svc.TweetsForUser(c.Request.Context(), username, count)
	if err != nil {
		s.handleTweetsError(c, username, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tweets": tweets, "cached": cached})
}

func (s *Server) handleTweetsError(c *gin.Context, username string, err error) {
	var statusErr *twitter.StatusError
	switch {
	case errors.As(err, &statusErr):
		s.logger.Warn("Upstream API error",
			zap.String("username", username),
			zap.Int("upstream_status", statusErr.StatusCode))
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Twitter API error " + strconv.Itoa(statusErr.StatusCode),
			"body":  statusErr.Body,
		})
	case errors.Is(err, twitter.ErrNoBearerToken):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "BEARER_TOKEN is not configured"})
	default:
		s.logger.Error("Tweet retrieval failed",
			zap.String("username", username),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
