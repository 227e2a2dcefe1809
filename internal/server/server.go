// Package server exposes the scoring engine over HTTP: the question catalog,
// lead capture and result scoring, plus health and metrics endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/scorecard/internal/analytics"
	"github.com/dotcommander/scorecard/internal/delivery"
	"github.com/dotcommander/scorecard/internal/logging"
	"github.com/dotcommander/scorecard/internal/scoring"
)

const shutdownTimeout = 15 * time.Second

// Config configures the HTTP surface.
type Config struct {
	Addr      string
	CORS      []string // allowed origins; "*" allows any
	RateLimit RateLimitConfig
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Engine     *scoring.Engine
	Dispatcher *delivery.Dispatcher // nil disables delivery
	Analytics  analytics.Client     // nil disables analytics
	Logger     *slog.Logger
	Registry   *prometheus.Registry // nil creates a private registry
	Metrics    *Metrics             // nil registers new metrics on Registry
}

// Server is the scorecard HTTP API.
type Server struct {
	cfg        Config
	engine     *scoring.Engine
	dispatcher *delivery.Dispatcher
	analytics  analytics.Client
	logger     *slog.Logger
	metrics    *Metrics
	registry   *prometheus.Registry
	tracer     trace.Tracer
	router     *gin.Engine
}

// New builds the router. Nothing listens until Run.
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Engine == nil {
		return nil, errors.New("server: scoring engine is required")
	}
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	if deps.Analytics == nil {
		deps.Analytics = analytics.NopClient{}
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics(deps.Registry)
	}

	s := &Server{
		cfg:        cfg,
		engine:     deps.Engine,
		dispatcher: deps.Dispatcher,
		analytics:  deps.Analytics,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		registry:   deps.Registry,
		tracer:     otel.Tracer("github.com/dotcommander/scorecard/internal/server"),
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(observability(s.tracer, s.metrics, s.logger), recovery(s.logger))
	r.Use(cors.New(corsConfig(s.cfg.CORS)))

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api", RateLimitMiddleware(s.cfg.RateLimit))
	api.GET("/questions", s.handleQuestions)
	api.GET("/bands", s.handleBands)
	api.POST("/leads", s.handleLead)
	api.POST("/results", s.handleResult)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	cfg.MaxAge = 12 * time.Hour
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Run serves until ctx is cancelled, then shuts down gracefully: in-flight
// requests finish, queued deliveries drain and analytics are flushed.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if s.dispatcher != nil {
			if err := s.dispatcher.Close(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("draining deliveries: %w", err))
			}
		}
		if err := s.analytics.Close(); err != nil {
			errs = append(errs, fmt.Errorf("flushing analytics: %w", err))
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}
