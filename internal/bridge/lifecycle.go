package bridge

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"logbridge/internal/admin"
	"logbridge/internal/discovery"
	"logbridge/internal/logging"
)

// Service kinds the lifecycle watches.
const (
	AdminKind  = "logbridge.admin"
	SourceKind = "logbridge.source"
)

// Discovery is the registry surface the lifecycle consumes.
type Discovery interface {
	Watch(kind string, onAdd, onRemove func(discovery.Instance)) (*discovery.Watcher, error)
}

// LifecycleConfig holds the lifecycle's collaborators.
type LifecycleConfig struct {
	Discovery Discovery
	Backend   *logging.Context
	// Scope selects the admin logger context; empty means root.
	Scope   string
	Logger  *slog.Logger
	Options []Option
}

type boundAdmin struct {
	binding *Binding
	sources *discovery.Watcher
}

// Lifecycle maintains one Binding per live admin service and attaches each
// binding to every live event source.
type Lifecycle struct {
	discovery Discovery
	backend   *logging.Context
	scope     string
	logger    *slog.Logger
	options   []Option

	mu       sync.Mutex
	admins   *discovery.Watcher
	bindings map[string]*boundAdmin
	starting bool
	stopped  bool
}

// NewLifecycle validates cfg and returns an idle lifecycle.
func NewLifecycle(cfg LifecycleConfig) (*Lifecycle, error) {
	if cfg.Backend == nil {
		return nil, wrap(ErrConfiguration, "lifecycle", "backend logger context is not available", nil)
	}
	if cfg.Discovery == nil {
		return nil, wrap(ErrConfiguration, "lifecycle", "service discovery is not available", nil)
	}
	logger := logging.NewComponentLogger(cfg.Logger, "lifecycle")
	opts := append([]Option{WithLogger(cfg.Logger)}, cfg.Options...)
	return &Lifecycle{
		discovery: cfg.Discovery,
		backend:   cfg.Backend,
		scope:     cfg.Scope,
		logger:    logger,
		options:   opts,
		bindings:  make(map[string]*boundAdmin),
	}, nil
}

// Start begins watching admin services. Admins already registered are bound
// before Start returns.
func (l *Lifecycle) Start() error {
	l.mu.Lock()
	if l.admins != nil || l.starting || l.stopped {
		l.mu.Unlock()
		return nil
	}
	l.starting = true
	l.mu.Unlock()

	w, err := l.discovery.Watch(AdminKind, l.adminAdded, l.adminRemoved)

	l.mu.Lock()
	l.starting = false
	if err != nil {
		l.mu.Unlock()
		return fmt.Errorf("watch admin services: %w", err)
	}
	if l.stopped {
		// Stop ran while the watch was being opened and found nothing to close.
		l.mu.Unlock()
		w.Close()
		return nil
	}
	l.admins = w
	l.mu.Unlock()
	l.logger.Info("lifecycle started",
		logging.String(logging.FieldEventType, "lifecycle_started"),
	)
	return nil
}

// Stop closes the admin watch, tearing down every binding. Stop does not roll
// admin levels back.
func (l *Lifecycle) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	w := l.admins
	l.mu.Unlock()

	if w != nil {
		w.Close()
	}
	l.logger.Info("lifecycle stopped",
		logging.String(logging.FieldEventType, "lifecycle_stopped"),
	)
}

// Bindings returns the live bindings ordered by id.
func (l *Lifecycle) Bindings() []*Binding {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Binding, 0, len(l.bindings))
	for _, b := range l.bindings {
		out = append(out, b.binding)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (l *Lifecycle) adminAdded(inst discovery.Instance) {
	scope, ok := resolveAdmin(inst.Service, l.scope)
	if !ok {
		l.logger.Warn("admin service has unsupported type; ignoring",
			logging.String(logging.FieldEventType, "admin_unsupported"),
			logging.String("instance", inst.ID),
			logging.String("type", fmt.Sprintf("%T", inst.Service)),
		)
		return
	}
	binding, err := NewBinding(scope, l.backend, l.options...)
	if err != nil {
		l.logger.Error("binding creation failed",
			logging.String(logging.FieldEventType, "binding_failed"),
			logging.String("instance", inst.ID),
			logging.Error(err),
		)
		return
	}
	binding.Initialize()

	sources, err := l.discovery.Watch(SourceKind,
		func(src discovery.Instance) { l.sourceAdded(binding, src) },
		func(src discovery.Instance) { l.sourceRemoved(binding, src) },
	)
	if err != nil {
		l.logger.Error("source watch failed",
			logging.String(logging.FieldEventType, "source_watch_failed"),
			logging.String("instance", inst.ID),
			logging.Error(err),
		)
		binding.Detach()
		return
	}

	l.mu.Lock()
	l.bindings[inst.ID] = &boundAdmin{binding: binding, sources: sources}
	l.mu.Unlock()
	l.logger.Info("admin bound",
		logging.String(logging.FieldEventType, "admin_bound"),
		logging.String("instance", inst.ID),
		logging.String(logging.FieldBinding, binding.ID()),
	)
}

func (l *Lifecycle) adminRemoved(inst discovery.Instance) {
	l.mu.Lock()
	bound, ok := l.bindings[inst.ID]
	delete(l.bindings, inst.ID)
	l.mu.Unlock()
	if !ok {
		return
	}
	bound.sources.Close()
	bound.binding.Detach()
	l.logger.Info("admin unbound",
		logging.String(logging.FieldEventType, "admin_unbound"),
		logging.String("instance", inst.ID),
		logging.String(logging.FieldBinding, bound.binding.ID()),
	)
}

func (l *Lifecycle) sourceAdded(binding *Binding, inst discovery.Instance) {
	src, ok := inst.Service.(Source)
	if !ok {
		l.logger.Warn("source service has unsupported type; ignoring",
			logging.String(logging.FieldEventType, "source_unsupported"),
			logging.String(logging.FieldSource, inst.ID),
			logging.String("type", fmt.Sprintf("%T", inst.Service)),
		)
		return
	}
	if err := binding.Attach(src); err != nil {
		l.logger.Warn("source attach failed",
			logging.String(logging.FieldEventType, "source_attach_failed"),
			logging.String(logging.FieldSource, inst.ID),
			logging.Error(err),
		)
	}
}

func (l *Lifecycle) sourceRemoved(binding *Binding, inst discovery.Instance) {
	if src, ok := inst.Service.(Source); ok {
		binding.DetachSource(src)
	}
}

// resolveAdmin accepts either a whole admin registry or a single scope.
func resolveAdmin(service any, scope string) (admin.LoggerContext, bool) {
	switch svc := service.(type) {
	case *admin.Admin:
		if svc == nil {
			return nil, false
		}
		return svc.LoggerContext(scope), true
	case admin.LoggerContext:
		return svc, svc != nil
	default:
		return nil, false
	}
}
