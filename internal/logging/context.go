package logging

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultMaxCallerDepth bounds caller-data capture when no depth is configured.
const DefaultMaxCallerDepth = 8

// ContextListener receives lifecycle and level-change notifications from a
// Context. Callbacks run synchronously on the goroutine that triggered them
// and never while the context holds its own locks.
type ContextListener interface {
	OnStart(ctx *Context)
	OnReset(ctx *Context)
	OnStop(ctx *Context)
	OnLevelChange(logger *Logger, level Level)
}

// ListenerOption tunes a listener registration.
type ListenerOption func(*listenerEntry)

// SurviveReset keeps the listener registered across Context.Reset. Listeners
// registered without it are dropped on reset.
func SurviveReset() ListenerOption {
	return func(e *listenerEntry) {
		e.resetResistant = true
	}
}

type listenerEntry struct {
	listener       ContextListener
	resetResistant bool
}

// ContextView is an immutable snapshot of a context's identity. A fresh view
// is published on every start and reset so records can be tagged with the
// configuration generation they were produced under.
type ContextView struct {
	Name       string
	Generation uint64
	Birth      time.Time
	Properties map[string]string
}

// ContextOption configures a Context at construction.
type ContextOption func(*Context)

// WithMaxCallerDepth bounds the number of frames kept by caller-data capture.
func WithMaxCallerDepth(depth int) ContextOption {
	return func(c *Context) {
		c.SetMaxCallerDepth(depth)
	}
}

// WithFrameworkPackages excludes frames whose function names start with any of
// the given prefixes from caller data.
func WithFrameworkPackages(prefixes ...string) ContextOption {
	return func(c *Context) {
		c.SetFrameworkPackages(prefixes)
	}
}

// WithPackagingData enables eager packaging data on error proxies.
func WithPackagingData(enabled bool) ContextOption {
	return func(c *Context) {
		c.packagingData.Store(enabled)
	}
}

// WithProperty records a key/value pair exposed through every ContextView.
func WithProperty(key, value string) ContextOption {
	return func(c *Context) {
		c.properties[key] = value
	}
}

// Context owns a logger tree, its listeners, and backend-wide settings.
type Context struct {
	name       string
	properties map[string]string

	mu      sync.RWMutex
	loggers map[string]*Logger
	root    *Logger

	listenerMu sync.Mutex
	listeners  []listenerEntry

	maxCallerDepth    atomic.Int64
	frameworkPackages atomic.Pointer[[]string]
	packagingData     atomic.Bool

	generation atomic.Uint64
	view       atomic.Pointer[ContextView]
	started    atomic.Bool
}

// NewContext constructs a logger context whose root logger is set to DEBUG.
func NewContext(name string, opts ...ContextOption) *Context {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "default"
	}
	c := &Context{
		name:       name,
		properties: make(map[string]string),
		loggers:    make(map[string]*Logger),
	}
	c.maxCallerDepth.Store(DefaultMaxCallerDepth)
	c.root = &Logger{name: RootLoggerName, ctx: c, level: defaultRootLevel, explicit: true}
	c.root.effective.Store(int64(defaultRootLevel))
	c.loggers[RootLoggerName] = c.root
	for _, opt := range opts {
		opt(c)
	}
	c.publishView()
	return c
}

// Name returns the context name.
func (c *Context) Name() string {
	return c.name
}

// Root returns the root logger.
func (c *Context) Root() *Logger {
	return c.root
}

// Logger returns the named logger, creating it and any missing ancestors.
// An empty name or RootLoggerName resolves to the root logger.
func (c *Context) Logger(name string) *Logger {
	name = normalizeName(name)

	c.mu.RLock()
	logger, ok := c.loggers[name]
	c.mu.RUnlock()
	if ok {
		return logger
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if logger, ok := c.loggers[name]; ok {
		return logger
	}

	parent := c.root
	for i := 0; ; {
		next := strings.IndexByte(name[i:], '.')
		var childName string
		if next < 0 {
			childName = name
		} else {
			childName = name[:i+next]
		}
		child, ok := c.loggers[childName]
		if !ok {
			child = &Logger{name: childName, ctx: c, parent: parent}
			child.effective.Store(parent.effective.Load())
			parent.children = append(parent.children, child)
			c.loggers[childName] = child
		}
		parent = child
		if next < 0 {
			return child
		}
		i += next + 1
	}
}

// Exists returns the named logger without creating it.
func (c *Context) Exists(name string) (*Logger, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	logger, ok := c.loggers[normalizeName(name)]
	return logger, ok
}

// Loggers returns every logger in the tree, root first, then by name.
func (c *Context) Loggers() []*Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortedLocked(func(*Logger) bool { return true })
}

// ExplicitLoggers returns every logger carrying an explicit level. The root
// logger is always included.
func (c *Context) ExplicitLoggers() []*Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortedLocked(func(l *Logger) bool { return l.explicit })
}

func (c *Context) sortedLocked(keep func(*Logger) bool) []*Logger {
	out := make([]*Logger, 0, len(c.loggers))
	for _, l := range c.loggers {
		if keep(l) {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b *Logger) int {
		switch {
		case a.IsRoot():
			return -1
		case b.IsRoot():
			return 1
		default:
			return strings.Compare(a.name, b.name)
		}
	})
	return out
}

// MaxCallerDepth returns the caller-data frame budget.
func (c *Context) MaxCallerDepth() int {
	return int(c.maxCallerDepth.Load())
}

// SetMaxCallerDepth updates the caller-data frame budget. Non-positive values
// restore the default.
func (c *Context) SetMaxCallerDepth(depth int) {
	if depth <= 0 {
		depth = DefaultMaxCallerDepth
	}
	c.maxCallerDepth.Store(int64(depth))
}

// FrameworkPackages returns the configured framework package prefixes.
func (c *Context) FrameworkPackages() []string {
	current := c.frameworkPackages.Load()
	if current == nil {
		return nil
	}
	return slices.Clone(*current)
}

// SetFrameworkPackages replaces the framework package prefixes.
func (c *Context) SetFrameworkPackages(prefixes []string) {
	cleaned := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	c.frameworkPackages.Store(&cleaned)
}

// PackagingDataEnabled reports whether error proxies compute packaging data
// eagerly.
func (c *Context) PackagingDataEnabled() bool {
	return c.packagingData.Load()
}

// SetPackagingData toggles eager packaging data.
func (c *Context) SetPackagingData(enabled bool) {
	c.packagingData.Store(enabled)
}

// View returns the identity snapshot currently in effect.
func (c *Context) View() *ContextView {
	return c.view.Load()
}

// Started reports whether Start ran without a subsequent Stop.
func (c *Context) Started() bool {
	return c.started.Load()
}

func (c *Context) publishView() {
	c.view.Store(&ContextView{
		Name:       c.name,
		Generation: c.generation.Add(1),
		Birth:      time.Now().UTC(),
		Properties: maps.Clone(c.properties),
	})
}

// AddListener registers l for lifecycle and level-change notifications.
// Registering the same listener twice is a no-op.
func (c *Context) AddListener(l ContextListener, opts ...ListenerOption) {
	if l == nil {
		return
	}
	entry := listenerEntry{listener: l}
	for _, opt := range opts {
		opt(&entry)
	}
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	for _, existing := range c.listeners {
		if existing.listener == l {
			return
		}
	}
	c.listeners = append(c.listeners, entry)
}

// RemoveListener unregisters l. Removing an unknown listener is a no-op.
func (c *Context) RemoveListener(l ContextListener) {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	c.listeners = slices.DeleteFunc(c.listeners, func(e listenerEntry) bool {
		return e.listener == l
	})
}

func (c *Context) listenerSnapshot() []ContextListener {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	out := make([]ContextListener, len(c.listeners))
	for i, e := range c.listeners {
		out[i] = e.listener
	}
	return out
}

func (c *Context) fireLevelChange(logger *Logger, level Level) {
	for _, l := range c.listenerSnapshot() {
		l.OnLevelChange(logger, level)
	}
}

// Start marks the context as running, publishes a fresh view, and notifies
// listeners. Starting a started context is a no-op.
func (c *Context) Start() {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	c.publishView()
	for _, l := range c.listenerSnapshot() {
		l.OnStart(c)
	}
}

// Reset discards the configured tree: every non-root logger loses its
// explicit level, the root returns to DEBUG, and all appenders are detached.
// Listeners not registered with SurviveReset are dropped; the rest are
// notified after a fresh view is published.
func (c *Context) Reset() {
	c.mu.Lock()
	for _, l := range c.loggers {
		l.detachAppenders()
		if l.IsRoot() {
			l.level = defaultRootLevel
			continue
		}
		l.explicit = false
		l.level = 0
	}
	c.root.propagateLocked(defaultRootLevel)
	c.mu.Unlock()

	c.listenerMu.Lock()
	c.listeners = slices.DeleteFunc(c.listeners, func(e listenerEntry) bool {
		return !e.resetResistant
	})
	c.listenerMu.Unlock()

	c.publishView()
	for _, l := range c.listenerSnapshot() {
		l.OnReset(c)
	}
}

// Stop resets the context, notifies listeners, then drops every listener.
func (c *Context) Stop() {
	c.Reset()
	for _, l := range c.listenerSnapshot() {
		l.OnStop(c)
	}
	c.listenerMu.Lock()
	c.listeners = nil
	c.listenerMu.Unlock()
	c.started.Store(false)
}
