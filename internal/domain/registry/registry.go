// Package registry keeps the ordered directory of declared HTTP endpoints.
package registry

import (
	"sync"

	"github.com/okian/lightswitch/internal/domain/types"
)

// Registry is an append-only, insertion-ordered list of endpoint descriptors.
// It performs no validation and no deduplication.
type Registry struct {
	mu       sync.RWMutex
	entries  []types.EndpointDescriptor
	observer func(size int)
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends a descriptor.
func (r *Registry) Register(method, route, description string) {
	r.mu.Lock()
	r.entries = append(r.entries, types.EndpointDescriptor{
		Method:      method,
		Route:       route,
		Description: description,
	})
	n := len(r.entries)
	r.mu.Unlock()

	if r.observer != nil {
		r.observer(n)
	}
}

// List returns a copy of every descriptor in insertion order.
func (r *Registry) List() []types.EndpointDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.EndpointDescriptor, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
