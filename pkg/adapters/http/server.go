// Package http serves the DevCraft site: rendered pages, the contact form
// (HTML and JSON) and the per-session event stream.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/devcraft/internal/logging"
	"github.com/aretw0/devcraft/pkg/contact"
	"github.com/aretw0/devcraft/pkg/content"
	"github.com/aretw0/devcraft/pkg/site"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server holds the collaborators the handlers need.
type Server struct {
	Contact  *contact.Service
	Renderer *site.Renderer
	Streams  *StreamManager

	logger        *slog.Logger
	metrics       http.Handler
	observe       RequestObserver
	version       string
	secureCookies bool
	pingInterval  time.Duration
}

// RequestObserver receives the route pattern and status of every request.
type RequestObserver func(route string, code int, elapsed time.Duration)

// Option configures the Server.
type Option func(*Server)

// WithLogger configures request and handler logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStreams shares a StreamManager, typically the one the contact service publishes to.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetricsHandler mounts h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithRequestObserver installs a per-request callback, used for HTTP metrics.
func WithRequestObserver(fn RequestObserver) Option {
	return func(s *Server) {
		s.observe = fn
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secureCookies = secure
	}
}

// WithPingInterval sets how often idle event streams get a keep-alive comment. Zero disables it.
func WithPingInterval(d time.Duration) Option {
	return func(s *Server) {
		s.pingInterval = d
	}
}

// NewServer builds a Server around the workflow and the page renderer.
func NewServer(svc *contact.Service, renderer *site.Renderer, opts ...Option) *Server {
	s := &Server{
		Contact:      svc,
		Renderer:     renderer,
		logger:       logging.NewNop(),
		version:      "dev",
		pingInterval: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}
	return s
}

// NewHandler creates the HTTP handler for the site.
func NewHandler(svc *contact.Service, renderer *site.Renderer, opts ...Option) http.Handler {
	return NewServer(svc, renderer, opts...).Routes()
}

// Routes assembles the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(newCompressor().Handler)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Get("/static/*", s.serveStatic)

	r.Group(func(r chi.Router) {
		r.Use(s.sessionCookie)

		for _, slug := range []string{content.SlugHome, content.SlugAbout, content.SlugServices, content.SlugPortfolio} {
			if page, ok := s.Renderer.Site().Page(slug); ok {
				r.Get(page.Path, s.servePage(slug))
			}
		}
		r.Get("/contact", s.GetContactPage)
		r.Post("/contact", s.PostContactForm)

		r.Route("/api/contact", func(r chi.Router) {
			r.Get("/", s.GetContactState)
			r.Delete("/", s.CloseContact)
			r.Patch("/fields/{field}", s.PatchContactField)
			r.Post("/submit", s.SubmitContact)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	r.NotFound(s.notFound)
	return r
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":           "devcraft",
		"version":       strings.TrimSpace(s.version),
		"pending_tasks": s.Contact.Pending(),
	})
}

func (s *Server) servePage(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, http.StatusOK, slug, nil)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.renderPage(w, r, http.StatusNotFound, content.SlugNotFound, nil)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
