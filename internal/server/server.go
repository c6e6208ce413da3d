package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhle/studyhub/internal/logging"
	"github.com/nhle/studyhub/internal/metrics"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 40 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server is the local gateway HTTP server.
type Server struct {
	router *gin.Engine
	server *http.Server
	logger logging.Logger
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(h *Handler, log logging.Logger, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(recoveryMiddleware(log))
	router.Use(loggerMiddleware(log, m))

	router.GET("/healthz", h.Health)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := router.Group("/api")
	api.GET("/dashboard", h.GetDashboard)
	api.GET("/trends", h.GetTrends)
	api.GET("/doubts/split", h.GetDoubtSplit)
	api.GET("/activity", h.GetActivity)

	return router
}

// New creates a server listening on addr.
func New(addr string, h *Handler, log logging.Logger, m *metrics.Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := NewRouter(h, log, m)

	return &Server{
		router: router,
		server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		logger: log,
	}
}

// Router returns the underlying gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gateway listening", logging.String("address", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down gateway: %w", err)
	}
	s.logger.Info("gateway stopped")
	return nil
}
