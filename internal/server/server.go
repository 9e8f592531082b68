// Package server exposes the pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/SohamAjmera/Agent-Pipeline/internal/agent"
	"github.com/SohamAjmera/Agent-Pipeline/internal/config"
)

// Server is the HTTP front end over the agent controller.
type Server struct {
	ctrl   *agent.Controller
	config config.ServerConfig
	logger *zap.Logger
	server *http.Server
}

func New(ctrl *agent.Controller, cfg config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{ctrl: ctrl, config: cfg, logger: logger}
}

// Router builds the chi router; exposed separately for handler tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/api/v1/query", s.handleQuery)
	r.Get("/healthz", s.handleHealth)
	return r
}

// Start runs the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{Addr: addr, Handler: s.Router()}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
