// Package discovery is an in-process service registry with watch callbacks.
//
// Services are registered under a kind. Watchers receive onAdd once for every
// live instance of their kind (including those registered before the watch
// began) and onRemove once when that instance goes away or the watcher is
// closed. Callbacks for one watcher never run concurrently.
package discovery

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"logbridge/internal/logging"
)

// Instance is a snapshot of one registered service.
type Instance struct {
	ID         string
	Kind       string
	Service    any
	Properties map[string]string
}

// Registry tracks registered services and their watchers.
type Registry struct {
	logger *slog.Logger

	mu       sync.Mutex
	closed   bool
	services map[string][]*Registration
	watchers map[string][]*Watcher
}

// NewRegistry constructs an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:   logging.NewComponentLogger(logger, "discovery"),
		services: make(map[string][]*Registration),
		watchers: make(map[string][]*Watcher),
	}
}

// Registration is the handle returned by Register.
type Registration struct {
	registry *Registry
	instance Instance
	live     atomic.Bool
}

// Instance returns the registered instance.
func (r *Registration) Instance() Instance {
	return r.instance
}

// Register publishes service under kind and notifies current watchers.
func (r *Registry) Register(kind string, service any, props map[string]string) (*Registration, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return nil, ErrEmptyKind
	}
	reg := &Registration{
		registry: r,
		instance: Instance{
			ID:         uuid.NewString(),
			Kind:       kind,
			Service:    service,
			Properties: maps.Clone(props),
		},
	}
	reg.live.Store(true)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	r.services[kind] = append(r.services[kind], reg)
	watchers := slices.Clone(r.watchers[kind])
	r.mu.Unlock()

	r.logger.Debug("service registered",
		logging.String("kind", kind),
		logging.String("instance", reg.instance.ID),
	)
	for _, w := range watchers {
		w.added(reg)
	}
	return reg, nil
}

// Unregister withdraws the service. Subsequent calls are no-ops.
func (reg *Registration) Unregister() {
	if !reg.live.CompareAndSwap(true, false) {
		return
	}
	r := reg.registry
	kind := reg.instance.Kind

	r.mu.Lock()
	r.services[kind] = slices.DeleteFunc(r.services[kind], func(other *Registration) bool {
		return other == reg
	})
	watchers := slices.Clone(r.watchers[kind])
	r.mu.Unlock()

	r.logger.Debug("service unregistered",
		logging.String("kind", kind),
		logging.String("instance", reg.instance.ID),
	)
	for _, w := range watchers {
		w.removed(reg)
	}
}

// Lookup returns the oldest live instance of kind.
func (r *Registry) Lookup(kind string) (Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.services[kind] {
		if reg.live.Load() {
			return reg.instance, true
		}
	}
	return Instance{}, false
}

// Instances returns every live instance of kind in registration order.
func (r *Registry) Instances(kind string) []Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Instance, 0, len(r.services[kind]))
	for _, reg := range r.services[kind] {
		if reg.live.Load() {
			out = append(out, reg.instance)
		}
	}
	return out
}

// Watch calls onAdd for every current and future instance of kind and
// onRemove when one goes away. Either callback may be nil.
func (r *Registry) Watch(kind string, onAdd, onRemove func(Instance)) (*Watcher, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return nil, ErrEmptyKind
	}
	w := &Watcher{
		registry: r,
		kind:     kind,
		onAdd:    onAdd,
		onRemove: onRemove,
		tracked:  make(map[*Registration]struct{}),
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	r.watchers[kind] = append(r.watchers[kind], w)
	existing := slices.Clone(r.services[kind])
	r.mu.Unlock()

	for _, reg := range existing {
		w.added(reg)
	}
	return w, nil
}

// Close closes every watcher and rejects further registrations. Registered
// services stay registered so their owners can still unregister them.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	var watchers []*Watcher
	for _, list := range r.watchers {
		watchers = append(watchers, list...)
	}
	r.mu.Unlock()

	for _, w := range watchers {
		w.Close()
	}
}

func (r *Registry) dropWatcher(w *Watcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchers[w.kind] = slices.DeleteFunc(r.watchers[w.kind], func(other *Watcher) bool {
		return other == w
	})
}
