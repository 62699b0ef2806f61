package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupHTTPServer wraps the Gin router in an http.Server with sane timeouts
func SetupHTTPServer(router *gin.Engine, addr string, l *zap.Logger) *http.Server {
	l.Info("HTTP server configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
