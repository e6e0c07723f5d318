package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ByLCY/gabarito/internal/config"
	"github.com/ByLCY/gabarito/renderer"
)

// Server is the HTTP API that exports exams as PDF.
type Server struct {
	router   chi.Router
	renderer renderer.Renderer
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(r renderer.Renderer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		renderer: r,
		log:      log,
		cfg:      cfg,
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

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/eco-modes", s.handleEcoModes)
		r.Post("/validate", s.handleValidate)
		r.Post("/export", s.handleExport)
		r.Post("/answer-key", s.handleAnswerKey)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
