// Package toolserver exposes a tool registry over HTTP using the tool-server
// contract the agent's remote bridge speaks: GET /tools for discovery and
// POST /execute/{name} for invocation. It can optionally serve stored run
// transcripts for inspection.
package toolserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/reagent-dev/reagent/internal/agent"
	"github.com/reagent-dev/reagent/internal/transcript"
)

// Server is the HTTP tool server. It serves the registry's tools and, when a
// transcript store is configured, past run records.
type Server struct {
	router   *mux.Router
	registry *agent.Registry
	store    transcript.Store
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a fully-wired Server ready to Start(). The transcript
// store may be nil, in which case the /runs endpoints are not registered.
func NewServer(addr string, reg *agent.Registry, store transcript.Store, logger *zap.Logger) *Server {
	srv := &Server{
		router:   mux.NewRouter(),
		registry: reg,
		store:    store,
		logger:   logger,
	}
	srv.server = &http.Server{
		Addr:         addr,
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	srv.registerRoutes()
	return srv
}

// Handler returns the underlying router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening and serving HTTP requests. It blocks until the
// server is shut down or encounters a fatal error.
func (s *Server) Start() error {
	s.logger.Info("tool server starting", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
