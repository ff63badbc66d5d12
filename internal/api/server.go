package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/splitsight/internal/config"
)

// Server runs the results API over HTTP
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// NewServer wraps the router in an HTTP server configured from the server
// section of the config.
func NewServer(cfg *config.ServerConfig, handler http.Handler, logger *logrus.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start serves requests in the background and shuts down when ctx ends
func (s *Server) Start(ctx context.Context) {
	go func() {
		s.logger.WithField("addr", s.server.Addr).Info("Results API server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Results API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()
}

// Shutdown drains in-flight requests before stopping
func (s *Server) Shutdown() error {
	s.logger.Info("Results API server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
