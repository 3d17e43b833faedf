// Package server serves a catalog over HTTP in the layout the HTTP provider
// reads: a sorted summary index, detail documents, and bulk zip exports.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/colonyops/mort/internal/core/export"
	"github.com/colonyops/mort/internal/core/logging"
	"github.com/colonyops/mort/internal/core/provider"
)

// Server is the HTTP front of a catalog provider.
type Server struct {
	provider provider.Provider
	exporter *export.Exporter
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
}

// New creates a Server. Bulk archives are built by exporter from the same
// provider.
func New(p provider.Provider, exporter *export.Exporter) *Server {
	s := &Server{
		provider: p,
		exporter: exporter,
		router:   chi.NewRouter(),
		log:      logging.Component("server"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RealIP)
	s.router.Use(requestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5, "application/json"))
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(noSniff)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get(provider.IndexPath, s.handleIndex)
	s.router.Get("/detail/*", s.handleDetail)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/export/{kind}.zip", s.handleExport)
		r.Get("/export/"+export.WorkbookName, s.handleWorkbook)
	})
}

// MountProfiler exposes net/http/pprof under /debug/pprof.
func (s *Server) MountProfiler() {
	s.router.Mount("/debug", middleware.Profiler())
}

// Handler returns the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr until Shutdown is called. Calling Shutdown first
// makes Start return immediately.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.log.Info().Str("addr", ln.Addr().String()).Msg("starting server")
	err = s.server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
