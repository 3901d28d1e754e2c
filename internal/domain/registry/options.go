package registry

import "github.com/okian/lightswitch/internal/domain/types"

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithObserver installs a callback invoked with the new size after each Register.
func WithObserver(fn func(size int)) Option {
	return func(r *Registry) {
		r.observer = fn
	}
}

// WithCapacity preallocates room for n descriptors.
func WithCapacity(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.entries = make([]types.EndpointDescriptor, 0, n)
		}
	}
}
