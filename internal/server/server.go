package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/gaming-haven/internal/backup"
	"github.com/preston-bernstein/gaming-haven/internal/collection"
	"github.com/preston-bernstein/gaming-haven/internal/config"
	httpserver "github.com/preston-bernstein/gaming-haven/internal/http"
	"github.com/preston-bernstein/gaming-haven/internal/http/handlers"
	"github.com/preston-bernstein/gaming-haven/internal/http/middleware"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
	"github.com/preston-bernstein/gaming-haven/internal/metrics"
	"github.com/preston-bernstein/gaming-haven/internal/poller"
	"github.com/preston-bernstein/gaming-haven/internal/providers"
	"github.com/preston-bernstein/gaming-haven/internal/search"
)

var (
	metricsSetup = metrics.Setup
	tracingSetup = metrics.SetupTracing
)

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	collection    *collection.Store
	backup        *backup.Writer
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	metricsStop   func(context.Context) error
	tracingStop   func(context.Context) error
	closers       []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// New constructs a server with the configured provider, storage, backups and poller.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithProvider(cfg, logger, nil)
}

// newServerWithProvider wires the server around provider. A nil provider is built from cfg.
func newServerWithProvider(cfg config.Config, logger *slog.Logger, provider providers.CatalogProvider) (*Server, error) {
	ctx := context.Background()
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}

	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, nil)
	tracingShutdown := buildTracing(ctx, cfg, logger)

	factory := newProviderFactory(logger, recorder)
	var cacheClose func() error
	if provider == nil {
		provider, cacheClose = factory.build(cfg)
	} else {
		provider, cacheClose = factory.wrap(cfg, provider)
	}

	store, storageClose, err := buildCollection(ctx, cfg.Storage, logger, recorder)
	if err != nil {
		_ = cacheClose()
		return nil, fmt.Errorf("build collection: %w", err)
	}

	writer := buildBackup(ctx, cfg.Backup, logger)
	var backupWriter poller.BackupWriter
	if writer != nil {
		backupWriter = writer
	}

	plr := poller.New(provider, store, backupWriter, logger, recorder, cfg.PollInterval).
		WithPopularLimit(cfg.Search.PopularLimit)
	httpSrv := buildHTTPServer(cfg, store, provider, backupWriter, logger, recorder, plr)

	srv := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		collection:    store,
		backup:        writer,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		poller:        plr,
		metricsStop:   metricsShutdown,
		tracingStop:   tracingShutdown,
	}
	srv.closers = append(srv.closers,
		namedCloser{name: "catalog cache", close: cacheClose},
		namedCloser{name: "storage", close: storageClose},
	)
	if writer != nil {
		srv.closers = append(srv.closers, namedCloser{name: "backup bucket", close: writer.Close})
	}
	return srv, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, store *collection.Store, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		collection: store,
		httpServer: httpSrv,
		poller:     plr,
	}
}

func buildHTTPServer(cfg config.Config, store *collection.Store, provider providers.CatalogProvider, writer poller.BackupWriter, logger *slog.Logger, recorder *metrics.Recorder, plr Poller) httpServer {
	var statusFn func() poller.Status
	if plr != nil {
		statusFn = plr.Status
	}

	client := search.NewClient(provider, search.ClientConfig{
		Limit:        cfg.Search.Limit,
		PopularLimit: cfg.Search.PopularLimit,
	}, logger)

	routes := httpserver.Routes{
		API: handlers.NewHandler(store, client, logger, statusFn),
		Socket: handlers.NewSearchSocket(client, store, search.ControllerConfig{
			Debounce:     cfg.Search.Debounce,
			Limit:        cfg.Search.Limit,
			PopularLimit: cfg.Search.PopularLimit,
			Logger:       logger,
		}, logger, recorder),
	}
	// Mount the admin backup endpoint only when a token is set.
	if cfg.AdminToken != "" {
		routes.Admin = handlers.NewAdminHandler(writer, store, cfg.AdminToken, logger)
	}

	router := httpserver.NewRouter(routes)
	wrapped := middleware.Tracing(middleware.LoggingMiddleware(logger, recorder, router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           wrapped,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the poller and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.poller.Start(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "err", err)
		}
	}

	if s.tracingStop != nil {
		if err := s.tracingStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "tracing shutdown failed", "err", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "err", err)
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop poller", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	// Detach the collection from its bus before the backend goes away.
	if s.collection != nil {
		s.collection.Close()
	}
	for _, c := range s.closers {
		if c.close == nil {
			continue
		}
		if err := c.close(); err != nil {
			logging.Warn(s.logger, c.name+" close failed", "err", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := telemetryConfig(cfg)
	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readHeaderTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func buildTracing(ctx context.Context, cfg config.Config, logger *slog.Logger) func(context.Context) error {
	shutdown, err := tracingSetup(ctx, telemetryConfig(cfg))
	if err != nil {
		logging.Warn(logger, "tracing setup failed, continuing without spans", "err", err)
		return nil
	}
	return shutdown
}

func telemetryConfig(cfg config.Config) metrics.TelemetryConfig {
	return metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "err", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// Collection exposes the saved-games store.
func (s *Server) Collection() *collection.Store {
	return s.collection
}
