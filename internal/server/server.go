// Package server exposes the portfolio, analysis and alert operations over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"CryptoFollow/internal/alert"
	"CryptoFollow/internal/collector"
	"CryptoFollow/internal/fund"
	"CryptoFollow/internal/metrics"
	"CryptoFollow/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Config holds server dependencies.
type Config struct {
	Addr       string
	CronSecret string
	Log        zerolog.Logger
	Collector  *collector.Collector
	Store      store.Store
	Fund       *fund.Manager
	Checker    *alert.Checker
	Metrics    *metrics.Recorder
}

// Server represents the HTTP server
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     zerolog.Logger
	started time.Time

	cronSecret string
	collector  *collector.Collector
	store      store.Store
	fund       *fund.Manager
	checker    *alert.Checker
	metrics    *metrics.Recorder
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		log:        cfg.Log.With().Str("component", "server").Logger(),
		started:    time.Now(),
		cronSecret: cfg.CronSecret,
		collector:  cfg.Collector,
		store:      cfg.Store,
		fund:       cfg.Fund,
		checker:    cfg.Checker,
		metrics:    cfg.Metrics,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Handle("/metrics", s.metrics.Handler())

		r.Get("/coins/{id}/analysis", s.handleAnalysis)
		r.Get("/prices", s.handlePrices)
		r.Get("/global", s.handleGlobal)
		r.Get("/portfolio", s.handlePortfolio)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", s.handleListAlerts)
			r.Post("/", s.handleCreateAlert)
			r.Delete("/{id}", s.handleDeleteAlert)
		})

		r.Get("/balance", s.handleBalance)
		r.Post("/deposit", s.handleDeposit)

		r.With(s.cronAuth).Get("/cron/check-alerts", s.handleCheckAlerts)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests and counts them.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.RecordHTTPRequest(r.Method, status)

		ev := s.log.Debug()
		if status >= 500 {
			ev = s.log.Error()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}

// cronAuth requires "Authorization: Bearer <secret>" when a cron secret is configured.
func (s *Server) cronAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cronSecret != "" && r.Header.Get("Authorization") != "Bearer "+s.cronSecret {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
