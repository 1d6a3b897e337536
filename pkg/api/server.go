package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/warden/pkg/auth"
	"github.com/platinummonkey/warden/pkg/directory"
	"github.com/platinummonkey/warden/pkg/middleware"
	"github.com/platinummonkey/warden/pkg/observability"
)

// APIPrefix is the base path for all versioned routes
const APIPrefix = "/api/v1"

// Options configures a Server
type Options struct {
	Directory    *directory.Service
	TokenManager *auth.TokenManager
	Logger       *observability.Logger

	// RouteGuards maps "METHOD /path" (relative to APIPrefix) to the
	// requirement enforced on that route. Resource routes without an entry
	// still require a valid token.
	RouteGuards map[string]auth.Requirement

	// Metrics is optional; when set the metrics middleware and /metrics
	// endpoint are installed.
	Metrics *observability.Metrics

	// CORSOrigins lists allowed origins; empty disables CORS handling
	CORSOrigins []string
}

// Server represents the warden API server
type Server struct {
	directory    *directory.Service
	tokenManager *auth.TokenManager
	logger       *observability.Logger
	guards       map[string]auth.Requirement
	metrics      *observability.Metrics
	health       *observability.HealthChecker
	router       *mux.Router
	handler      http.Handler
}

// NewServer creates a new API server with all routes registered
func NewServer(opts Options) *Server {
	s := &Server{
		directory:    opts.Directory,
		tokenManager: opts.TokenManager,
		logger:       opts.Logger,
		guards:       opts.RouteGuards,
		metrics:      opts.Metrics,
		health:       observability.NewHealthChecker(opts.Directory.Store()),
		router:       mux.NewRouter(),
	}
	if s.guards == nil {
		s.guards = map[string]auth.Requirement{}
	}

	s.setupRoutes()

	chain := []func(http.Handler) http.Handler{
		middleware.RequestIDMiddleware,
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
	}
	if s.metrics != nil {
		chain = append(chain, observability.HTTPMetricsMiddleware(s.metrics))
	}
	if len(opts.CORSOrigins) > 0 {
		chain = append(chain, middleware.CORSMiddleware(opts.CORSOrigins))
	}
	// Token verification runs for every request but stays optional at this
	// layer: public routes work without claims, and the per-route access
	// check rejects anonymous callers on everything else.
	chain = append(chain, middleware.NewAuthMiddleware(s.tokenManager, true).Handler)

	s.handler = middleware.Chain(chain...)(s.router)
	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.health.Liveness).Methods("GET")
	s.router.HandleFunc("/readyz", s.health.Readiness).Methods("GET")
	if s.metrics != nil {
		s.router.Handle("/metrics", observability.MetricsHandler(s.metrics.Registry())).Methods("GET")
	}

	v1 := s.router.PathPrefix(APIPrefix).Subrouter()

	v1.HandleFunc("/auth/login", s.login).Methods("POST")

	for _, resource := range directory.Resources() {
		s.registerResourceRoutes(v1, resource)
	}

	s.router.NotFoundHandler = http.HandlerFunc(s.notFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowed)
}

// guarded wraps a handler with the access requirement configured for
// "METHOD /path". Absent an entry the route still demands a valid token.
func (s *Server) guarded(method, path string, h http.HandlerFunc) http.Handler {
	req := s.guards[method+" "+path]
	return middleware.RequireAccess(req)(h)
}
