package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Router assembles the HTTP API.
type Router struct {
	authHandler    *AuthHandler
	userHandler    *UserHandler
	blogHandler    *BlogHandler
	authMiddleware func(http.Handler) http.Handler
	metrics        MetricsHook
	uploadsDir     string
	uploadsPrefix  string
	logger         zerolog.Logger
}

// MetricsHook is the instrumentation surface the router needs; nil
// disables metrics entirely.
type MetricsHook interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	BlogHandler    *BlogHandler
	AuthMiddleware func(http.Handler) http.Handler

	// Metrics is optional; nil disables the /metrics endpoint.
	Metrics MetricsHook

	// UploadsDir enables static file serving of stored images under
	// UploadsPrefix. Left empty for non-filesystem storage backends.
	UploadsDir    string
	UploadsPrefix string

	Logger zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	return &Router{
		authHandler:    config.AuthHandler,
		userHandler:    config.UserHandler,
		blogHandler:    config.BlogHandler,
		authMiddleware: config.AuthMiddleware,
		metrics:        config.Metrics,
		uploadsDir:     config.UploadsDir,
		uploadsPrefix:  config.UploadsPrefix,
		logger:         config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(rt.requestLogger)
	if rt.metrics != nil {
		r.Use(rt.metrics.Middleware)
	}

	r.Get("/health", rt.handleHealth)
	if rt.metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", rt.authHandler.SignUp)
		r.Post("/signin", rt.authHandler.SignIn)
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware)
			r.Get("/me", rt.authHandler.Me)
			r.Patch("/me", rt.authHandler.UpdateMe)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(rt.authMiddleware)
		r.Get("/users", rt.userHandler.List)
		r.Get("/users/{userID}", rt.userHandler.Get)
	})

	r.Route("/blogs", func(r chi.Router) {
		r.Get("/", rt.blogHandler.List)
		r.Get("/{blogID}", rt.blogHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware)
			r.Post("/", rt.blogHandler.Create)
			r.Patch("/{blogID}", rt.blogHandler.Update)
			r.Delete("/{blogID}", rt.blogHandler.Delete)
		})
	})

	if rt.uploadsDir != "" {
		fileServer := http.StripPrefix(rt.uploadsPrefix, http.FileServer(http.Dir(rt.uploadsDir)))
		r.Get(rt.uploadsPrefix+"/*", func(w http.ResponseWriter, r *http.Request) {
			fileServer.ServeHTTP(w, r)
		})
	}

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// requestLogger logs each request at debug level with latency and
// status.
func (rt *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		rt.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
