package lifecycle

import (
	"time"

	"github.com/okian/lightswitch/pkg/logger"
)

// Option applies a configuration option to the Restarter.
type Option func(*Restarter)

// WithDelay sets the pause before exit. Negative values are ignored.
func WithDelay(d time.Duration) Option {
	return func(r *Restarter) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// WithDrain installs a hook that runs before exit, bounded by timeout.
func WithDrain(fn DrainFunc, timeout time.Duration) Option {
	return func(r *Restarter) {
		r.drain = fn
		if timeout > 0 {
			r.drainTimeout = timeout
		}
	}
}

// WithExit replaces os.Exit.
func WithExit(fn func(code int)) Option {
	return func(r *Restarter) {
		if fn != nil {
			r.exit = fn
		}
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l logger.Logger) Option {
	return func(r *Restarter) {
		r.logger = l
	}
}
