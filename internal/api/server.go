package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/QTest-hq/umlparse/internal/config"
	"github.com/QTest-hq/umlparse/internal/parser"
)

// Server represents the API server
type Server struct {
	cfg      *config.Config
	router   *chi.Mux
	registry *parser.Registry
	limiter  *rate.Limiter // nil when rate limiting is disabled
}

// NewServer creates a new API server
func NewServer(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		registry: parser.NewRegistry(),
	}
	if cfg.RateLimitRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))
	s.router.Use(corsMiddleware(s.cfg.CORSAllowOrigin))
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.healthCheck)
	s.router.Get("/ready", s.readyCheck)
	s.router.Handle("/metrics", promhttp.Handler())

	// Analysis is served at the root for drop-in use by existing diagram
	// front ends, and under the versioned API.
	s.router.Group(func(r chi.Router) {
		r.Use(rateLimitMiddleware(s.limiter))
		r.Post("/", s.analyze)
		r.Route("/api/v1", func(r chi.Router) {
			r.Post("/analyze", s.analyze)
		})
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// Health check handlers
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyCheck(w http.ResponseWriter, r *http.Request) {
	// The service has no backing stores; it is ready once routes are mounted
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
