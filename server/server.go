// Package server provides the HTTP API over a medscan.MedicineService.
package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/medscan"
	"github.com/fwojciec/medscan/prometheus"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Usage is the plain-text body of the root route.
const Usage = "API de recherche de médicaments par code-barres - Utilisez /scan?code=VOTRE_CODE"

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	router chi.Router

	medicines medscan.MedicineService
	scans     medscan.ScanService
	site      *medscan.Site
	metrics   *prometheus.Metrics
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithScanService records every successful scan in the journal.
func WithScanService(scans medscan.ScanService) Option {
	return func(s *Server) {
		s.scans = scans
	}
}

// WithSite sets the site used to build journal source URLs.
func WithSite(site *medscan.Site) Option {
	return func(s *Server) {
		s.site = site
	}
}

// WithMetrics instruments requests and lookups and serves /metrics.
func WithMetrics(m *prometheus.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the logger for requests and internal errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new server instance.
func NewServer(cfg Config, medicines medscan.MedicineService, opts ...Option) *Server {
	router := chi.NewRouter()

	s := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Addr(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:    router,
		medicines: medicines,
		site:      medscan.DefaultSite(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics != nil {
		s.medicines = prometheus.NewMetricsService(s.medicines, s.metrics)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures all middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/scan", s.handleScan)
	s.router.Get("/search", s.handleSearch)
	s.router.Get("/health", s.handleHealth)
	if s.scans != nil {
		s.router.Get("/history", s.handleHistory)
	}
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
}

// Handler returns the root handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// ListenAndServe starts the server. It returns http.ErrServerClosed after
// Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server, forcing it closed if ctx
// expires first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("server forced to shutdown", "err", err)
		return s.server.Close()
	}
	return nil
}
