package discovery

import "sync"

// Watcher delivers add/remove callbacks for one kind.
type Watcher struct {
	registry *Registry
	kind     string
	onAdd    func(Instance)
	onRemove func(Instance)

	mu      sync.Mutex
	closed  bool
	tracked map[*Registration]struct{}
}

// Kind returns the watched service kind.
func (w *Watcher) Kind() string {
	return w.kind
}

func (w *Watcher) added(reg *Registration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !reg.live.Load() {
		return
	}
	if _, ok := w.tracked[reg]; ok {
		return
	}
	w.tracked[reg] = struct{}{}
	if w.onAdd != nil {
		w.onAdd(reg.instance)
	}
}

func (w *Watcher) removed(reg *Registration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.tracked[reg]; !ok {
		return
	}
	delete(w.tracked, reg)
	if w.onRemove != nil {
		w.onRemove(reg.instance)
	}
}

// Close stops the watch and calls onRemove for every tracked instance.
// Close is idempotent and must not be called from this watcher's own
// callbacks.
func (w *Watcher) Close() {
	w.registry.dropWatcher(w)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	for reg := range w.tracked {
		delete(w.tracked, reg)
		if w.onRemove != nil {
			w.onRemove(reg.instance)
		}
	}
}
