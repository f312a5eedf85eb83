package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"

	"github.com/smerrill5/pagedit/internal/config"
	"github.com/smerrill5/pagedit/internal/store"
)

// Server is the HTTP API for the page editor.
type Server struct {
	router    chi.Router
	store     store.TextStore
	log       *slog.Logger
	cfg       config.Config
	sanitizer *bluemonday.Policy
}

// NewServer creates and configures the HTTP server.
func NewServer(st store.TextStore, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store: st,
		log:   log,
		cfg:   cfg,
	}
	if cfg.SanitizeValues {
		// Strip any markup an editor pastes into a text field.
		s.sanitizer = bluemonday.StrictPolicy()
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

		r.Get("/api/pages", s.handleListPages)
		r.Get("/api/pages/fields", s.handlePageFields)
		r.Post("/api/pages/edits", s.handlePageEdits)
		r.Get("/api/pages/preview", s.handlePagePreview)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	respondJSON(w, status, map[string]string{"error": msg})
}
