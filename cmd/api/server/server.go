package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-service/internal/config"
)

// Server struct holds the HTTP server and its dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance around the configured Gin router
func New(cfg *config.Config, l *zap.Logger, router *gin.Engine) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		HTTP:   SetupHTTPServer(router, ":"+cfg.App.HTTPPort, l),
	}
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))
	if err := s.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
