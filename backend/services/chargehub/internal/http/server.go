package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Timeouts configures the underlying http.Server.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Idle     time.Duration
	Shutdown time.Duration
}

// Server wraps http.Server with middleware and graceful shutdown.
type Server struct {
	server   *http.Server
	logger   *zap.Logger
	shutdown time.Duration
}

// NewServer builds HTTP server with provided handler. Middlewares run in the
// given order, outermost first.
func NewServer(addr string, handler http.Handler, timeouts Timeouts, logger *zap.Logger, middlewares ...func(http.Handler) http.Handler) *Server {
	h := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	if timeouts.Shutdown <= 0 {
		timeouts.Shutdown = 10 * time.Second
	}
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       timeouts.Read,
			WriteTimeout:      timeouts.Write,
			IdleTimeout:       timeouts.Idle,
		},
		logger:   logger,
		shutdown: timeouts.Shutdown,
	}
}

// Handler exposes the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run starts listening and blocks until context is cancelled or server stops.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
		defer cancel()
		s.logger.Info("shutting down http server")
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// RegisterOnShutdown runs fn when Shutdown starts, used to close hijacked
// websocket connections.
func (s *Server) RegisterOnShutdown(fn func()) {
	s.server.RegisterOnShutdown(fn)
}
