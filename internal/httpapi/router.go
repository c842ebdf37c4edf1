package httpapi

import (
	"net/http"
	"time"

	"github.com/erauner12/widget-harness/internal/mcpclient"
	"github.com/erauner12/widget-harness/internal/widget"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Server holds dependencies for HTTP handlers
type Server struct {
	Connector *mcpclient.Connector
	Renderer  *widget.Renderer

	// SessionOptions apply to every session opened for a request
	SessionOptions mcpclient.SessionOptions

	// RetryAfter is the Refresh delay on the connection-retry page
	RetryAfter time.Duration

	// DemoQuery is the /demo query argument used when none is given
	DemoQuery string

	// RateLimiter limits the routes that open MCP sessions; nil disables limiting
	RateLimiter *RateLimiter

	// Version and Transport are reported by /info
	Version   string
	Transport string
}

// Routes creates the HTTP router with all harness endpoints
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CorrelationMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/info", s.Info)

	// Every route below opens a session against the target server
	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(s.RateLimiter))

		r.Get("/", s.HandleForm)
		r.Get("/preview", s.HandlePreview)
		r.Get("/widget", s.HandleWidget)
		r.Get("/demo", s.HandleDemo)
	})

	log.Info().Msg("HTTP routes registered")
	return r
}
