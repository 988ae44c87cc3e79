package api

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tdalton7/earnex/internal/config"
	"github.com/tdalton7/earnex/internal/oracle"
	"github.com/tdalton7/earnex/internal/pipeline"
	"github.com/tdalton7/earnex/internal/ratelimit"
)

// Server is the HTTP boundary around the extraction engine. It owns
// admission control and status-code mapping; the engine below it knows
// nothing about HTTP.
type Server struct {
	router  chi.Router
	coord   *pipeline.Coordinator
	oracle  *oracle.Client
	limiter *ratelimit.Limiter
	log     *slog.Logger
	cfg     config.Config

	// degraded flips when the oracle rejects our credentials; auth
	// failures indicate misconfiguration, so the whole process reports
	// unhealthy rather than burning attempts per document.
	degraded atomic.Bool
}

// NewServer creates and configures the HTTP server.
func NewServer(coord *pipeline.Coordinator, oc *oracle.Client, limiter *ratelimit.Limiter, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		coord:   coord,
		oracle:  oc,
		limiter: limiter,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/stats/oracle", s.handleOracleStats)

		// Extraction endpoints sit behind admission control; denial is
		// reported before any per-document processing begins.
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(s.limiter))

			r.Post("/api/extract", s.handleExtract)
			r.Post("/api/extract/batch", s.handleExtractBatch)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.degraded.Load() {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"degraded","reason":"oracle authentication failure"}`))
		return
	}
	w.Write([]byte(`{"status":"ok"}`))
}
