package logsource

import (
	"log/slog"
	"slices"
	"sync"

	"logbridge/internal/logging"
)

// ListenerOption tunes a listener registration.
type ListenerOption func(*registration)

// ResetResistant keeps the listener registered across Reader.Reset.
func ResetResistant() ListenerOption {
	return func(r *registration) {
		r.resetResistant = true
	}
}

type registration struct {
	listener       Listener
	resetResistant bool
}

// Reader distributes entries to listeners.
type Reader struct {
	name   string
	logger *slog.Logger

	mu        sync.RWMutex
	listeners []registration
}

// NewReader constructs a named reader.
func NewReader(name string, logger *slog.Logger) *Reader {
	return &Reader{
		name:   name,
		logger: logging.NewComponentLogger(logger, "logsource").With(logging.String(logging.FieldSource, name)),
	}
}

// Name returns the reader's identifier.
func (r *Reader) Name() string {
	return r.name
}

// AddListener registers l. Adding a registered listener again only updates
// its options.
func (r *Reader) AddListener(l Listener, opts ...ListenerOption) {
	if l == nil {
		return
	}
	reg := registration{listener: l}
	for _, opt := range opts {
		opt(&reg)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.listeners {
		if r.listeners[i].listener == l {
			r.listeners[i] = reg
			return
		}
	}
	r.listeners = append(r.listeners, reg)
	r.logger.Debug("listener added",
		logging.Int("listeners", len(r.listeners)),
		logging.Bool("reset_resistant", reg.resetResistant),
	)
}

// RemoveListener unregisters l. Unknown listeners are ignored.
func (r *Reader) RemoveListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.listeners)
	r.listeners = slices.DeleteFunc(r.listeners, func(reg registration) bool {
		return reg.listener == l
	})
	if len(r.listeners) != before {
		r.logger.Debug("listener removed", logging.Int("listeners", len(r.listeners)))
	}
}

// ListenerCount returns the number of registered listeners.
func (r *Reader) ListenerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}

// Reset drops every listener not registered with ResetResistant.
func (r *Reader) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = slices.DeleteFunc(r.listeners, func(reg registration) bool {
		return !reg.resetResistant
	})
}

// Publish hands entry to every listener on the calling goroutine.
func (r *Reader) Publish(entry Entry) {
	r.mu.RLock()
	snapshot := make([]Listener, len(r.listeners))
	for i, reg := range r.listeners {
		snapshot[i] = reg.listener
	}
	r.mu.RUnlock()

	for _, l := range snapshot {
		l.Logged(entry)
	}
}
