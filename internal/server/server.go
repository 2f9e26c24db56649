// Package server exposes the HTTP surface: text classification and cached
// tweet retrieval. All error-to-status mapping lives here; the packages
// below it only return typed errors.
package server

import (
	"net/http"
	"time"

	"github.com/avdeev/sentiment-api/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	svc    *service.Service
	logger *zap.Logger
	engine *gin.Engine
}

func New(svc *service.Service, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		svc:    svc,
		logger: logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())

	engine.GET("/", s.handleIndex)
	engine.POST("/predict", s.handlePredict)
	engine.GET("/tweets", s.handleTweets)

	s.engine = engine
	return s
}

// Handler returns the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.engine.Run(addr)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}
