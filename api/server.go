// Package api provides the HTTP server for the ticker intelligence
// dashboard.
//
// It serves the interactive page at /, a JSON API under /api/v1 for the
// same operations, plus /health and /metrics.
package api

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seenimoa/tickerintel/internal/config"
	"github.com/seenimoa/tickerintel/internal/dashboard"
	"github.com/seenimoa/tickerintel/internal/datasource"
	"github.com/seenimoa/tickerintel/internal/infra"
	"github.com/seenimoa/tickerintel/internal/llm"
	"github.com/seenimoa/tickerintel/internal/logging"
	"github.com/seenimoa/tickerintel/internal/metrics"
	"github.com/seenimoa/tickerintel/internal/providers/sec"
	"github.com/seenimoa/tickerintel/internal/providers/yfinance"
	"github.com/seenimoa/tickerintel/web"
)

// Version is reported by /health. Set at build time via -ldflags.
var Version = "dev"

// IndexStatus reports the state of the ticker registry cache.
type IndexStatus interface {
	Loaded() bool
	Len() int
}

// Server is the HTTP server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	svc      *dashboard.Service
	index    IndexStatus
	backend  llm.Backend
	logger   *logging.Logger
	gatherer prometheus.Gatherer
	pages    *template.Template
}

// NewServer wires the data sources, the dashboard service and all routes
// from configuration.
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewSilent()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	edgar := sec.New(cfg.SEC, cfg.HTTP, logger, m)
	yahoo := yfinance.New(cfg.News, cfg.HTTP, m)
	google := datasource.NewGoogleNews(cfg.News.GoogleRSSURL, infra.NewClient("google_news",
		infra.WithTimeout(cfg.HTTP.ClientTimeout()),
		infra.WithMetrics(m),
	))
	news := datasource.NewAggregator(yahoo, google, cfg.News.Limit, logger, m)

	backend, err := llm.NewBackend(cfg.LLM.Backend, llm.ProviderConfig{
		Model:   cfg.LLM.Model,
		BaseURL: cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	svc := dashboard.New(dashboard.Deps{
		Resolver:    edgar.Tickers(),
		Filings:     edgar,
		Extractor:   edgar.Extractor(),
		News:        news,
		Summarizer:  llm.NewSummarizer(backend, logger),
		Logger:      logger,
		Metrics:     m,
		FilingLimit: cfg.SEC.FilingLimit,
	})

	srv := &Server{
		cfg:      cfg,
		svc:      svc,
		index:    edgar.Tickers(),
		backend:  backend,
		logger:   logger.Component("api"),
		gatherer: reg,
		pages:    web.Templates(),
	}
	srv.router = srv.buildRouter()
	return srv, nil
}

// Service returns the dashboard service behind the routes.
func (s *Server) Service() *dashboard.Service {
	return s.svc
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	if t := s.cfg.Server.Timeout(); t > 0 {
		httpSrv.WriteTimeout = t + 10*time.Second
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("dashboard listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}
	s.logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if t := s.cfg.Server.Timeout(); t > 0 {
		r.Use(middleware.Timeout(t))
	}

	// CORS
	origins := []string{"*"}
	if len(s.cfg.Server.CORSOrigins) > 0 {
		origins = s.cfg.Server.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check and metrics
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/config", s.handleGetConfig)

		r.Get("/dashboard/{ticker}", s.handleDashboard)
		r.Get("/news/{ticker}", s.handleNews)
		r.Get("/filings/{ticker}", s.handleFilings)
		r.Post("/analyze", s.handleAnalyze)
	})

	// Page
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.StaticFS())))
	r.Get("/", s.handlePage)
	r.Post("/", s.handlePage)

	return r
}
