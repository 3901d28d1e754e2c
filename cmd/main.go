package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/okian/lightswitch/internal/adapters/http/api"
	"github.com/okian/lightswitch/internal/adapters/http/swagger"
	service "github.com/okian/lightswitch/internal/app"
	"github.com/okian/lightswitch/internal/config"
	"github.com/okian/lightswitch/pkg/logger"
	"github.com/okian/lightswitch/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Initialize logging with defaults; the configured format is applied below.
	if err := logger.Init(); err != nil {
		return errors.Join(errors.New("failed to initialize logging"), err)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		return err
	}
	log := logger.Named("lightswitch")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	svc := newService(cfg, log, srv)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv.Handler = newHandler(ctx, cfg, svc, log)

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info(ctx, "shutting down server...")
	case err := <-serveErr:
		if err != nil {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			return err
		}
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newService builds the service from cfg. When graceful restarts are
// enabled the restarter drains srv before exiting.
func newService(cfg *config.Config, log logger.Logger, srv *http.Server) *service.Service {
	opts := []service.Option{
		service.WithLogger(log),
		service.WithFilesDir(cfg.FilesDir),
		service.WithBuildInfo(cfg.NetCoreVersion, cfg.APICreationDate),
		service.WithRestartDelay(cfg.RestartDelay()),
	}
	if cfg.RestartGraceful {
		opts = append(opts, service.WithDrain(srv.Shutdown, cfg.RestartDrainTimeout()))
	}
	return service.New(opts...)
}

// newHandler mounts docs and API routes and wraps them in the middleware chain.
func newHandler(ctx context.Context, cfg *config.Config, svc *service.Service, log logger.Logger) http.Handler {
	router := mux.NewRouter()

	// Register API docs under /api-docs
	swagger.Register(ctx, router)

	// Register business API routes with the service dependency.
	api.NewServer(svc, svc.Registry(),
		api.WithRestartEnabled(cfg.RestartEnabled),
		api.WithRegistrationPolicy(cfg.RegistrationPolicy),
		api.WithLogger(log),
	).Register(ctx, router)

	return api.Chain(log).Then(router)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
