package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"fping-monitor/internal/models"
)

// Server handles web requests
type Server struct {
	store    models.Store
	registry *prometheus.Registry
	port     int
	logger   *zerolog.Logger
	srv      *http.Server
}

// New creates a new web server
func New(store models.Store, registry *prometheus.Registry, port int, logger *zerolog.Logger) *Server {
	s := &Server{
		store:    store,
		registry: registry,
		port:     port,
		logger:   logger,
	}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the router serving the API and the metrics endpoint
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/recent", s.handleRecent)
		r.Get("/stats", s.handleStats)
	})
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info().Int("port", s.port).Msg("Web server starting")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
