package bridge

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"logbridge/internal/admin"
	"logbridge/internal/logging"
	"logbridge/internal/logsource"
)

// Source is an event source a binding can subscribe its translator to.
// Implementations must be comparable.
type Source interface {
	AddListener(l logsource.Listener, opts ...logsource.ListenerOption)
	RemoveListener(l logsource.Listener)
}

// Option configures a Binding.
type Option func(*bindingOptions)

type bindingOptions struct {
	logger  *slog.Logger
	onError func(error)
	capture captureFunc
}

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *bindingOptions) {
		o.logger = logger
	}
}

// WithErrorHandler receives appender errors raised while dispatching
// records. Without one, appender errors are dropped.
func WithErrorHandler(fn func(error)) Option {
	return func(o *bindingOptions) {
		o.onError = fn
	}
}

func withCapture(fn captureFunc) Option {
	return func(o *bindingOptions) {
		o.capture = fn
	}
}

// Binding ties one admin scope to the backend and to a set of sources.
type Binding struct {
	id         string
	admin      admin.LoggerContext
	engine     *LevelSync
	translator *Translator
	logger     *slog.Logger

	mu       sync.Mutex
	sources  map[Source]struct{}
	detached bool
}

// NewBinding validates its collaborators and builds an uninitialized
// binding. Call Initialize before attaching sources.
func NewBinding(adm admin.LoggerContext, backend *logging.Context, opts ...Option) (*Binding, error) {
	if backend == nil {
		return nil, wrap(ErrConfiguration, "bind", "backend logger context is not available", nil)
	}
	if adm == nil {
		return nil, wrap(ErrConfiguration, "bind", "admin logger context is not available", nil)
	}
	var o bindingOptions
	for _, opt := range opts {
		opt(&o)
	}
	id := uuid.NewString()
	logger := logging.NewComponentLogger(o.logger, "bridge").With(
		logging.String(logging.FieldBinding, id),
		logging.String("scope", adm.Name()),
	)
	translator := newTranslator(backend, o.capture, o.onError)
	b := &Binding{
		id:         id,
		admin:      adm,
		translator: translator,
		logger:     logger,
		sources:    make(map[Source]struct{}),
	}
	b.engine = newLevelSync(adm, backend, logger, translator.refresh)
	return b, nil
}

// ID returns the binding's unique identifier.
func (b *Binding) ID() string {
	return b.id
}

// Admin returns the bound admin scope.
func (b *Binding) Admin() admin.LoggerContext {
	return b.admin
}

// LevelSync returns the binding's synchronization engine.
func (b *Binding) LevelSync() *LevelSync {
	return b.engine
}

// Translator returns the listener the binding registers on its sources.
func (b *Binding) Translator() *Translator {
	return b.translator
}

// Initialize runs the level sync engine's initial merge and subscription.
func (b *Binding) Initialize() {
	b.engine.Initialize()
	b.logger.Info("binding initialized",
		logging.String(logging.FieldEventType, "binding_initialized"),
	)
}

// Attach subscribes the translator to src. Attaching a source twice is a
// no-op.
func (b *Binding) Attach(src Source) error {
	if src == nil {
		return wrap(ErrConfiguration, "attach", "nil source", nil)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.detached {
		return ErrNotBound
	}
	if _, ok := b.sources[src]; ok {
		return nil
	}
	src.AddListener(b.translator, logsource.ResetResistant())
	b.sources[src] = struct{}{}
	b.logger.Debug("source attached",
		logging.String(logging.FieldEventType, "source_attached"),
		logging.Int("sources", len(b.sources)),
	)
	return nil
}

// DetachSource unsubscribes the translator from src only.
func (b *Binding) DetachSource(src Source) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.sources[src]; !ok {
		return
	}
	delete(b.sources, src)
	src.RemoveListener(b.translator)
	b.logger.Debug("source detached",
		logging.String(logging.FieldEventType, "source_detached"),
		logging.Int("sources", len(b.sources)),
	)
}

// SourceCount returns the number of attached sources.
func (b *Binding) SourceCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sources)
}

// Detached reports whether Detach ran.
func (b *Binding) Detached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.detached
}

// Detach unsubscribes from every source and from the backend. The admin
// scope keeps its current levels. Detach is idempotent.
func (b *Binding) Detach() {
	b.mu.Lock()
	if b.detached {
		b.mu.Unlock()
		return
	}
	b.detached = true
	sources := b.sources
	b.sources = make(map[Source]struct{})
	b.mu.Unlock()

	for src := range sources {
		src.RemoveListener(b.translator)
	}
	b.engine.Close()
	b.logger.Info("binding detached",
		logging.String(logging.FieldEventType, "binding_detached"),
		logging.Int("sources", len(sources)),
	)
}
