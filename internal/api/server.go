// Package api provides the HTTP API of escudo: account signup and login,
// scan triggering and per-user result listing, plus health and metrics
// endpoints.
package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	apihandlers "github.com/anstrom/escudo/internal/api/handlers"
	"github.com/anstrom/escudo/internal/api/middleware"
	"github.com/anstrom/escudo/internal/config"
	"github.com/anstrom/escudo/internal/errors"
	"github.com/anstrom/escudo/internal/logging"
	"github.com/anstrom/escudo/internal/metrics"
)

// AuthService covers both account endpoints and bearer token resolution.
// auth.Service implements it.
type AuthService interface {
	apihandlers.AuthService
	middleware.Authenticator
}

// Services are the dependencies the server routes requests to.
type Services struct {
	Auth  AuthService
	Scans apihandlers.ScanService

	// Database is pinged by /healthz; nil reports "not configured".
	Database apihandlers.DatabasePinger

	// Metrics backs /metrics and the request metrics middleware. A fresh
	// registry is created when nil.
	Metrics *metrics.PrometheusMetrics
}

// Server represents the API server.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	handler    http.Handler
	config     *config.Config
	logger     *logging.Logger
	metrics    *metrics.PrometheusMetrics
}

// New creates a new API server instance.
func New(cfg *config.Config, svc Services, logger *logging.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if svc.Auth == nil || svc.Scans == nil {
		return nil, fmt.Errorf("auth and scan services are required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if svc.Metrics == nil {
		svc.Metrics = metrics.NewPrometheusMetrics()
	}

	s := &Server{
		router:  mux.NewRouter(),
		config:  cfg,
		logger:  logger.WithComponent("api"),
		metrics: svc.Metrics,
	}

	s.setupMiddleware()
	s.setupRoutes(svc)
	s.handler = s.withCORS(s.router)

	s.httpServer = &http.Server{
		Addr:         cfg.APIAddress(),
		Handler:      s.handler,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
		IdleTimeout:  cfg.API.IdleTimeout,
	}

	return s, nil
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes(svc Services) {
	health := apihandlers.NewHealthHandler(svc.Database, s.logger)
	authHandler := apihandlers.NewAuthHandler(svc.Auth, s.logger)
	scanHandler := apihandlers.NewScanHandler(svc.Scans, s.logger)

	s.router.HandleFunc("/", health.Root).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", health.Health).Methods(http.MethodGet)
	s.router.HandleFunc("/version", health.Version).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	s.router.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	s.router.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	scan := s.router.PathPrefix("/scan").Subrouter()
	scan.Use(middleware.Authentication(svc.Auth, s.logger))
	scan.HandleFunc("/network", scanHandler.ScanNetwork).Methods(http.MethodPost)
	scan.HandleFunc("/results", scanHandler.ListResults).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusNotFound, errors.CodeNotFound, "Not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusMethodNotAllowed, errors.CodeValidation, "Method not allowed")
	})
}

// setupMiddleware configures middleware for matched routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Recovery(s.logger))
	if s.config.API.RequestLogging {
		s.router.Use(middleware.Logging(s.logger))
	}
	s.router.Use(middleware.Metrics(s.metrics))
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.MaxBodySize(s.config.API.MaxRequestSize))
	s.router.Use(middleware.ContentType())
}

// withCORS wraps the whole router so preflight requests are answered even
// though routes only register their own methods.
func (s *Server) withCORS(next http.Handler) http.Handler {
	cors := s.config.API.CORS
	if len(cors.AllowedOrigins) == 0 {
		return next
	}
	return handlers.CORS(
		handlers.AllowedOrigins(cors.AllowedOrigins),
		handlers.AllowedMethods(cors.AllowedMethods),
		handlers.AllowedHeaders(cors.AllowedHeaders),
		handlers.AllowCredentials(),
	)(next)
}

// Start serves until ctx is canceled or the listener fails, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting API server",
		"address", s.httpServer.Addr,
		"read_timeout", s.httpServer.ReadTimeout,
		"write_timeout", s.httpServer.WriteTimeout)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("API server failed: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-errChan:
		return err
	}
}

// Stop gracefully stops the API server.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.API.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("API server shutdown error", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("API server stopped successfully")
	return nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// GetRouter returns the configured router.
func (s *Server) GetRouter() *mux.Router {
	return s.router
}

// GetAddress returns the server address.
func (s *Server) GetAddress() string {
	return s.httpServer.Addr
}
