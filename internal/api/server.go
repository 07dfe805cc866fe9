// Package api provides the HTTP API server and handlers for the catalog server.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/catalog-server/internal/metrics"
	"github.com/listenupapp/catalog-server/internal/ratelimit"
	"github.com/listenupapp/catalog-server/internal/store"
)

// DefaultCookieName is the session cookie used when none is configured.
const DefaultCookieName = "catalog_session"

// Options tunes the HTTP surface.
type Options struct {
	CookieName         string
	CookieSecure       bool
	CORSAllowedOrigins []string
	// AuthRateLimiter throttles register and login per client IP. Nil disables throttling.
	AuthRateLimiter *ratelimit.KeyedRateLimiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.Store
	services        *Services
	metrics         *metrics.Metrics
	authRateLimiter *ratelimit.KeyedRateLimiter
	cookieName      string
	cookieSecure    bool
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, m *metrics.Metrics, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}

	s := &Server{
		store:           st,
		services:        services,
		metrics:         m,
		authRateLimiter: opts.AuthRateLimiter,
		cookieName:      opts.CookieName,
		cookieSecure:    opts.CookieSecure,
		router:          chi.NewRouter(),
		logger:          logger,
	}

	// Middleware must be in place before humachi registers any route.
	s.setupMiddleware(opts.CORSAllowedOrigins)

	humaConfig := huma.DefaultConfig("Catalog API", "1.0.0")
	humaConfig.Info.Description = "Browse the catalog, rate items and keep a saved list."
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"session": {
			Type: "apiKey",
			In:   "cookie",
			Name: s.cookieName,
		},
	}

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(allowedOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)

	if len(allowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}

	s.router.Use(s.sessionMiddleware)
}

// registerRoutes configures all HTTP routes.
func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerCatalogRoutes()
	s.registerRatingRoutes()
	s.registerSavedListRoutes()
	s.registerUserRoutes()

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}
}
