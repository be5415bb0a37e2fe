package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"video-converter/internal/archive"
	"video-converter/internal/batch"
	"video-converter/internal/filesystem"
	"video-converter/internal/handlers"
	"video-converter/internal/logging"
	"video-converter/internal/memory"
	"video-converter/internal/metrics"
	"video-converter/internal/middleware"
	"video-converter/internal/startup"
	"video-converter/internal/transcoder"
	"video-converter/internal/validation"
	"video-converter/internal/workspace"
)

const (
	shutdownTimeout   = 30 * time.Second
	readHeaderTimeout = 15 * time.Second
	idleTimeout       = 60 * time.Second
	collectInterval   = 15 * time.Second
)

// Server wires the conversion service over one workspace provider.
type Server struct {
	cfg        *startup.Config
	provider   workspace.Provider
	transcoder *transcoder.Transcoder
	monitor    *memory.Monitor
	handlers   *handlers.Handlers
	handler    http.Handler
}

// New builds every component from cfg. volumes names the provider's
// directories for filesystem metric labels.
func New(cfg *startup.Config, provider workspace.Provider, volumes map[string]string) *Server {
	filesystem.SetObserver(metrics.NewFilesystemObserver())
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(volumes))

	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

	tc := transcoder.New(transcoder.Config{
		FFmpegPath:   cfg.FFmpegPath,
		Timeout:      cfg.ConvertTimeout,
		VerifyOutput: cfg.VerifyOutput,
	})
	startup.LogTranscoderInit(tc, cfg.Workers, cfg.ConvertTimeout)

	monitor := memory.NewMonitor(memory.DefaultConfig())
	validator := validation.New(cfg.MaxFileSize)

	orchestrator := batch.New(tc, validator, provider, batch.Config{
		Workers: cfg.Workers,
		Archive: archive.Config{Mode: cfg.ArchiveMode, MemoryLimit: cfg.ArchiveMemoryLimit},
		Gate:    monitor,
	})

	h := handlers.New(orchestrator, validator, tc, provider, handlers.Config{
		MaxRequestSize:      cfg.MaxRequestSize,
		MultipartMemory:     cfg.MultipartMemory,
		DownloadIdleTimeout: cfg.DownloadIdleTimeout,
		Workers:             cfg.Workers,
	})

	router := NewRouter(h, cfg.MetricsEnabled && cfg.MetricsPort == cfg.Port)
	startup.LogHTTPRoutes(router, cfg.LogHealthChecks)

	return &Server{
		cfg:        cfg,
		provider:   provider,
		transcoder: tc,
		monitor:    monitor,
		handlers:   h,
		handler:    Chain(router, cfg),
	}
}

// Handler returns the application handler with every middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// NewRouter registers the service routes. withMetrics also mounts /metrics,
// for when no separate metrics listener runs.
func NewRouter(h *handlers.Handlers, withMetrics bool) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/convert", h.Convert).Methods(http.MethodPost).Name("convert")

	if withMetrics {
		r.Handle("/metrics", h.MetricsHandler()).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.NotFound(w)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.MethodNotAllowed(w)
	})
	return r
}

// Chain applies the middleware stack, outermost first: CORS, request id,
// access log, HTTP metrics.
func Chain(h http.Handler, cfg *startup.Config) http.Handler {
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = cfg.LogHealthChecks

	h = middleware.Metrics(middleware.DefaultMetricsConfig())(h)
	h = middleware.Logger(loggingConfig)(h)
	h = middleware.RequestID()(h)
	return middleware.CORS(cfg.AllowedOrigins)(h)
}

// Run serves until ctx is done, then shuts down gracefully. The cause of
// ctx, if any, is logged as the shutdown reason.
func (s *Server) Run(ctx context.Context, startTime time.Time) error {
	app := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		// Uploads and archive downloads may take longer than any fixed limit.
		ReadTimeout:  0,
		WriteTimeout: 0,
		IdleTimeout:  idleTimeout,
	}
	servers := []*http.Server{app}

	if s.cfg.MetricsEnabled && s.cfg.MetricsPort != s.cfg.Port {
		metricsRouter := mux.NewRouter()
		metricsRouter.Handle("/metrics", s.handlers.MetricsHandler()).Methods(http.MethodGet)
		servers = append(servers, &http.Server{
			Addr:              ":" + s.cfg.MetricsPort,
			Handler:           metricsRouter,
			ReadHeaderTimeout: readHeaderTimeout,
			IdleTimeout:       idleTimeout,
		})
	}

	sweeper := workspace.NewSweeper(s.provider, s.cfg.StaleFileTTL, s.cfg.SweepInterval)
	startup.LogSweeperInit(s.cfg.StaleFileTTL, s.cfg.SweepInterval)

	collector := metrics.NewCollector(metrics.StatsFunc(s.stats), collectInterval)
	s.monitor.Start()

	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		g.Go(func() error {
			logging.Debug("Listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server on %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		return sweeper.Run(gctx)
	})
	g.Go(func() error {
		return collector.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		s.shutdown(shutdownReason(ctx, gctx), servers)
		return nil
	})

	startup.LogServerStarted(startup.ServerConfig{
		Port:            s.cfg.Port,
		MetricsPort:     s.cfg.MetricsPort,
		MetricsEnabled:  s.cfg.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	return g.Wait()
}

func (s *Server) shutdown(reason string, servers []*http.Server) {
	startup.LogShutdownInitiated(reason)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP servers")
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			logging.Warn("Server %s shutdown error: %v", srv.Addr, err)
		}
	}
	startup.LogShutdownStepComplete("HTTP servers stopped")

	startup.LogShutdownStep("Stopping FFmpeg processes")
	s.transcoder.Cleanup()
	startup.LogShutdownStepComplete("Transcoder cleanup complete")

	s.monitor.Stop()
	startup.LogShutdownComplete()
}

func (s *Server) stats() metrics.Stats {
	files, bytes := workspace.Usage(s.provider)
	return metrics.Stats{
		ActiveProcesses: s.transcoder.ActiveCount(),
		TempFiles:       files,
		TempBytes:       bytes,
	}
}

func shutdownReason(parent, group context.Context) string {
	if cause := context.Cause(parent); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause.Error()
	}
	if parent.Err() != nil {
		return "shutdown requested"
	}
	if cause := context.Cause(group); cause != nil {
		return cause.Error()
	}
	return "shutdown requested"
}
