package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/pechaform/internal/config"
	"github.com/dgallion1/pechaform/internal/pipeline"
	"github.com/dgallion1/pechaform/internal/verse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for pechaform.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	verse        verse.Config
	log          *slog.Logger
	cfg          config.ServerConfig
}

// NewServer creates and configures the HTTP server. verseCfg is used by the
// verse splitting endpoint.
func NewServer(orch *pipeline.Orchestrator, verseCfg verse.Config, log *slog.Logger, cfg config.ServerConfig) *Server {
	s := &Server{
		orchestrator: orch,
		verse:        verseCfg,
		log:          log,
		cfg:          cfg,
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

		r.Post("/api/convert", s.handleConvert)
		r.Post("/api/convert/batch", s.handleBatchConvert)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/result", s.handleJobResult)
		r.Post("/api/verses", s.handleVerses)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
