package admin

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"logbridge/internal/logging"
)

// Store persists scope level maps.
type Store interface {
	Load(ctx context.Context, scope string) (map[string]Level, error)
	Save(ctx context.Context, scope string, levels map[string]Level) error
}

// Option configures an Admin.
type Option func(*Admin)

// WithStore persists every SetLogLevels call and seeds scopes from store.
func WithStore(store Store) Option {
	return func(a *Admin) {
		a.store = store
	}
}

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Admin) {
		a.logger = logger
	}
}

// Admin owns the registry's named scopes. The root scope always exists.
type Admin struct {
	store  Store
	logger *slog.Logger

	mu     sync.RWMutex
	scopes map[string]*loggerContext
	root   *loggerContext
}

// New constructs an Admin with an empty root scope, loading persisted levels
// when a store is configured.
func New(ctx context.Context, opts ...Option) (*Admin, error) {
	a := &Admin{scopes: make(map[string]*loggerContext)}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.NewComponentLogger(a.logger, "admin")
	root, err := a.newScope(ctx, RootLoggerName)
	if err != nil {
		return nil, err
	}
	a.root = root
	a.scopes[RootLoggerName] = root
	return a, nil
}

func (a *Admin) newScope(ctx context.Context, name string) (*loggerContext, error) {
	scope := &loggerContext{name: name, store: a.store, logger: a.logger, levels: make(map[string]Level)}
	if a.store == nil {
		return scope, nil
	}
	levels, err := a.store.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load scope %q: %w", name, err)
	}
	if levels != nil {
		scope.levels = levels
	}
	return scope, nil
}

// LoggerContext returns the named scope. An empty or unknown name resolves to
// the root scope.
func (a *Admin) LoggerContext(name string) LoggerContext {
	name = strings.TrimSpace(name)
	if name == "" {
		return a.root
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if scope, ok := a.scopes[name]; ok {
		return scope
	}
	return a.root
}

// AddScope creates the named scope if absent and returns it.
func (a *Admin) AddScope(ctx context.Context, name string) (LoggerContext, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == RootLoggerName {
		return a.root, nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if scope, ok := a.scopes[name]; ok {
		return scope, nil
	}
	scope, err := a.newScope(ctx, name)
	if err != nil {
		return nil, err
	}
	a.scopes[name] = scope
	return scope, nil
}

// Scopes returns the scope names, root first.
func (a *Admin) Scopes() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := slices.Sorted(maps.Keys(a.scopes))
	names = slices.DeleteFunc(names, func(n string) bool { return n == RootLoggerName })
	return append([]string{RootLoggerName}, names...)
}
