package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/supergeri/workout-content-transformation-sub001/internal/session"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	sessions *session.Manager
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(sessions *session.Manager, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		sessions: sessions,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/v1/health", s.handleHealth)

	// Session endpoints (API key required)
	s.router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Get("/", s.handleListSessions)
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSnapshot)
			r.Delete("/", s.handleCloseSession)
			r.Get("/workout", s.handleGetWorkout)
			r.Post("/commands", s.handleCommand)
			r.Post("/validation", s.handleLoadValidation)
			r.Post("/mappings/apply", s.handleApplyMapping)
			r.Post("/mappings/accept", s.handleAcceptMapping)
			r.Post("/mappings/confirm-all", s.handleConfirmAll)
			r.Get("/readiness", s.handleReadiness)
			r.Post("/project", s.handleProject)
		})
	})
}
