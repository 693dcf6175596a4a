package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/brlima/auth-gateway/internal/config"
	"github.com/brlima/auth-gateway/internal/logger"
)

// Server wraps http.Server with the lifecycle the rest of the process
// expects: blocking Start, context-bounded Stop.
type Server struct {
	http   *http.Server
	logger *logger.Logger
}

func New(cfg config.HTTP, handler http.Handler, logger *logger.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
			Handler: handler,
		},
		logger: logger,
	}
}

// Start serves until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.http.Addr)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until the context expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
