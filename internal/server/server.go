// Package server provides the HTTP server and routing for the card engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/megafacil/internal/config"
	"github.com/aristath/megafacil/internal/domain"
	"github.com/aristath/megafacil/internal/modules/backtest"
	"github.com/aristath/megafacil/internal/modules/scoring"
	"github.com/aristath/megafacil/internal/services"
)

// Engine is the request-level API the handlers call
type Engine interface {
	Generate(req services.GenerateRequest) (*services.GenerateResult, error)
	Analyze(windowSize *int) (scoring.Result, int, error)
	Backtest(req services.BacktestRequest, progress func(backtest.Progress)) (*services.BacktestResult, error)
	LatestDraw() (domain.Draw, int, error)
}

// Limiter admits or rejects a request for a client key
type Limiter interface {
	Allow(key string) (bool, int)
}

// Config holds server configuration
type Config struct {
	Log     zerolog.Logger
	Engine  Engine
	Limiter Limiter
	Config  *config.Config
	Port    int
	DevMode bool
}

// Server represents the HTTP server
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     zerolog.Logger
	engine  Engine
	limiter Limiter
	cfg     *config.Config
	port    int
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		log:     cfg.Log.With().Str("component", "server").Logger(),
		engine:  cfg.Engine,
		limiter: cfg.Limiter,
		cfg:     cfg.Config,
		port:    cfg.Port,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.DevMode)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
		WriteTimeout: 0, // backtest stream connections are long-lived
	}

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware shared by every route
func (s *Server) setupMiddleware() {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP, only when a trusted proxy sets the forwarding headers
	if s.cfg.TrustProxyHeaders {
		s.router.Use(middleware.RealIP)
	}

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(devMode bool) {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			if !devMode {
				r.Use(middleware.Compress(5))
			}

			r.Get("/history/latest", s.handleLatestDraw)
			r.Get("/scores", s.handleScores)

			r.Group(func(r chi.Router) {
				r.Use(s.rateLimitMiddleware)
				r.Post("/generate", s.handleGenerate)
				r.Post("/backtest", s.handleBacktest)
			})
		})

		// Websocket upgrade, kept out of the timeout and compression wrappers
		r.With(s.rateLimitMiddleware).Get("/backtest/stream", s.handleBacktestStream)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
