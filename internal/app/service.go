// Package service composes the file store, endpoint registry and restart
// control into the dependencies required by the HTTP API.
package service

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/okian/lightswitch/internal/adapters/filestore"
	"github.com/okian/lightswitch/internal/domain/registry"
	"github.com/okian/lightswitch/internal/domain/types"
	"github.com/okian/lightswitch/internal/lifecycle"
	"github.com/okian/lightswitch/pkg/logger"
	"github.com/okian/lightswitch/pkg/metrics"
)

// Defaults reported by the lightswitch endpoint.
const (
	DefaultNetCoreVersion  = "5.0.0"
	DefaultAPICreationDate = "2024-05-29"
	DefaultFilesDir        = "Files"
)

// Service implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	// Immutable after New.
	startTime       time.Time
	netCoreVersion  string
	apiCreationDate string
	filesDir        string

	// Restart configuration
	restartDelay time.Duration
	drain        lifecycle.DrainFunc
	drainTimeout time.Duration
	exit         func(code int)

	// Core components
	registry  *registry.Registry
	files     *filestore.Store
	restarter *lifecycle.Restarter

	clock   func() time.Time
	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFilesDir sets the directory served by the file endpoints.
func WithFilesDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.filesDir = dir
		}
	}
}

// WithBuildInfo overrides the reported version and creation date.
func WithBuildInfo(netCoreVersion, apiCreationDate string) Option {
	return func(s *Service) {
		if netCoreVersion != "" {
			s.netCoreVersion = netCoreVersion
		}
		if apiCreationDate != "" {
			s.apiCreationDate = apiCreationDate
		}
	}
}

// WithRestartDelay sets the pause between a restart request and exit.
func WithRestartDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.restartDelay = d
		}
	}
}

// WithDrain installs a hook run before exit, e.g. http.Server.Shutdown.
func WithDrain(fn lifecycle.DrainFunc, timeout time.Duration) Option {
	return func(s *Service) {
		s.drain = fn
		s.drainTimeout = timeout
	}
}

// WithExit replaces os.Exit; used by tests.
func WithExit(fn func(code int)) Option {
	return func(s *Service) {
		if fn != nil {
			s.exit = fn
		}
	}
}

// WithClock sets the clock used to capture the start time.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a Service and captures its start time.
func New(opts ...Option) *Service {
	s := &Service{
		netCoreVersion:  DefaultNetCoreVersion,
		apiCreationDate: DefaultAPICreationDate,
		filesDir:        DefaultFilesDir,
		restartDelay:    lifecycle.DefaultDelay,
		exit:            os.Exit,
		clock:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.startTime = s.clock()
	s.registry = registry.New(registry.WithObserver(metrics.UpdateRegistrySize))
	s.files = filestore.New(s.filesDir)

	restartOpts := []lifecycle.Option{
		lifecycle.WithDelay(s.restartDelay),
		lifecycle.WithExit(s.exit),
	}
	if s.drain != nil {
		restartOpts = append(restartOpts, lifecycle.WithDrain(s.drain, s.drainTimeout))
	}
	if s.logger != nil {
		restartOpts = append(restartOpts, lifecycle.WithLogger(s.logger.Named("lifecycle")))
	}
	s.restarter = lifecycle.New(restartOpts...)

	return s
}

// Start logs the effective setup and publishes the start time metric.
// A missing files directory is reported but does not prevent startup; the
// listing endpoint surfaces it per request.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	metrics.SetStartTime(float64(s.startTime.UnixMilli()) / 1000)

	if info, err := os.Stat(s.filesDir); err != nil || !info.IsDir() {
		s.logger.Warn(ctx, "files directory is not readable", logger.String("dir", s.filesDir), logger.Any("stat_error", err))
	}

	s.started = true
	s.logger.Info(ctx, "lightswitch service started",
		logger.String("startTime", s.startTime.UTC().Format(time.RFC3339Nano)),
		logger.String("filesDir", s.filesDir),
		logger.Duration("restartDelay", s.restartDelay),
		logger.Bool("gracefulRestart", s.drain != nil),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "lightswitch service stopped",
		logger.Int("endpoints", s.registry.Len()),
	)
}

// Registry returns the endpoint directory routes are recorded in.
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// StartTime returns the time captured by New. It never changes.
func (s *Service) StartTime() time.Time {
	return s.startTime
}

// BuildInfo returns the static build metadata.
func (s *Service) BuildInfo() types.Health {
	return types.Health{
		NetCoreVersion:  s.netCoreVersion,
		APICreationDate: s.apiCreationDate,
	}
}

// ListFiles lists the files directory.
func (s *Service) ListFiles(ctx context.Context) ([]types.FileEntry, error) {
	return s.files.List(ctx)
}

// OpenFile opens name from the files directory.
func (s *Service) OpenFile(ctx context.Context, name string) (*filestore.File, error) {
	return s.files.Open(ctx, name)
}

// Endpoints returns the endpoint directory in declaration order.
func (s *Service) Endpoints() []types.EndpointDescriptor {
	return s.registry.List()
}

// ScheduleRestart arms the one-shot exit timer.
func (s *Service) ScheduleRestart(ctx context.Context) bool {
	return s.restarter.Schedule(ctx)
}

// RestartState reports the lifecycle state.
func (s *Service) RestartState() lifecycle.State {
	return s.restarter.State()
}

// Restarting is closed right before the process exits for a restart.
func (s *Service) Restarting() <-chan struct{} {
	return s.restarter.Done()
}
