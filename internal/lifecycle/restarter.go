// Package lifecycle terminates the process on request after a fixed delay.
//
// A restart is a one-shot: once scheduled it cannot be cancelled. By default
// in-flight requests are dropped when the process exits; a drain hook can be
// installed to shut the HTTP server down gracefully first.
package lifecycle

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/okian/lightswitch/pkg/logger"
)

// DefaultDelay is the pause between accepting a restart and exiting.
const DefaultDelay = time.Second

// State describes where the restarter is in its lifecycle.
type State int

const (
	// Running means no restart has been requested.
	Running State = iota
	// Responding means a restart is scheduled and the timer is pending.
	Responding
	// Terminated means the exit function has been called.
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Responding:
		return "responding"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// DrainFunc shuts down in-flight work before exit.
type DrainFunc func(ctx context.Context) error

// Restarter schedules process termination.
type Restarter struct {
	mu           sync.Mutex
	state        State
	delay        time.Duration
	drain        DrainFunc
	drainTimeout time.Duration
	exit         func(code int)
	logger       logger.Logger
	done         chan struct{}
}

// New creates a Restarter in the Running state.
func New(opts ...Option) *Restarter {
	r := &Restarter{
		state:        Running,
		delay:        DefaultDelay,
		drainTimeout: 5 * time.Second,
		exit:         os.Exit,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Schedule arms the exit timer. It returns false when a restart is already
// pending or done, in which case nothing new is scheduled.
func (r *Restarter) Schedule(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Running {
		return false
	}
	r.state = Responding
	time.AfterFunc(r.delay, r.fire)

	if r.logger != nil {
		r.logger.Warn(ctx, "server is restarting", logger.Duration("delay", r.delay), logger.Bool("graceful", r.drain != nil))
	}
	return true
}

// State reports the current lifecycle state.
func (r *Restarter) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Done is closed right before the exit function runs.
func (r *Restarter) Done() <-chan struct{} {
	return r.done
}

func (r *Restarter) fire() {
	// Detached from the request that scheduled us; that request is long gone.
	ctx := context.Background()

	if r.drain != nil {
		drainCtx, cancel := context.WithTimeout(ctx, r.drainTimeout)
		if err := r.drain(drainCtx); err != nil && r.logger != nil {
			r.logger.Error(ctx, "drain before restart failed", logger.Error(err))
		}
		cancel()
	}

	r.mu.Lock()
	r.state = Terminated
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Info(ctx, "exiting for restart")
	}
	close(r.done)
	r.exit(0)
}
