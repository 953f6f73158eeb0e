package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"logbridge/internal/admin"
	"logbridge/internal/bridge"
	"logbridge/internal/config"
	"logbridge/internal/discovery"
	"logbridge/internal/logging"
	"logbridge/internal/logsource"
)

// Options configures runtime behavior.
type Options struct {
	// LogLevel overrides logging.level for the bridge's own logger.
	LogLevel    string
	Development bool
	// Static binds once through BindStatic instead of watching discovery.
	Static bool
	// Logger replaces the operational logger built from config.
	Logger *slog.Logger
	// FollowPath names a JSON-lines file whose appended entries Run publishes.
	FollowPath string
	// Echo receives stream events as JSON lines while Run is active.
	Echo io.Writer
}

// Runtime is a fully wired bridge: backend, admin registry, discovery, one
// event source, and the binding lifecycle.
type Runtime struct {
	SessionID string
	Logger    *slog.Logger
	Backend   *logging.Context
	Hub       *logging.StreamHub
	Admin     *admin.Admin
	Registry  *discovery.Registry
	Source    *logsource.Reader

	cfg       *config.Config
	opts      Options
	store     *admin.SQLStore
	archive   *logging.EventArchive
	lifecycle *bridge.Lifecycle
	static    *bridge.Binding
	regs      []*discovery.Registration
	started   bool

	components componentLevels
}

// Build wires a runtime from cfg without starting it.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	sessionID := uuid.NewString()
	hub := logging.NewStreamHub(cfg.Backend.StreamCapacity)

	components := newComponentLevels(cfg.Logging, opts.LogLevel)
	if opts.Logger != nil {
		components.base = opts.Logger
		components.fixed = true
	} else {
		base, err := logging.NewFromConfig(cfg, logging.Options{
			Level:       components.floor(),
			Development: opts.Development,
			SessionID:   sessionID,
			Stream:      hub,
		})
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		components.base = base
	}
	logger := components.logger("runtime")

	rt := &Runtime{
		SessionID:  sessionID,
		Logger:     logger,
		Hub:        hub,
		cfg:        cfg,
		opts:       opts,
		components: components,
	}
	archive, err := logging.NewEventArchive(cfg.ArchivePath())
	if err != nil {
		return nil, err
	}
	if archive != nil {
		rt.archive = archive
		hub.AddSink(archive)
	}

	rt.Backend = logging.NewContext(cfg.Backend.Name,
		logging.WithProperty(logging.FieldSessionID, sessionID),
	)
	if err := logging.Configure(rt.Backend, cfg.Backend, rt.Hub); err != nil {
		rt.closeStore()
		return nil, fmt.Errorf("configure backend: %w", err)
	}

	adminOpts := []admin.Option{admin.WithLogger(components.logger("admin"))}
	if cfg.Admin.Store == "sqlite" {
		store, err := admin.OpenSQLStore(ctx, cfg.AdminStorePath())
		if err != nil {
			rt.closeStore()
			return nil, fmt.Errorf("open admin store: %w", err)
		}
		rt.store = store
		adminOpts = append(adminOpts, admin.WithStore(store))
	}
	adm, err := admin.New(ctx, adminOpts...)
	if err != nil {
		rt.closeStore()
		return nil, fmt.Errorf("init admin registry: %w", err)
	}
	seed, err := admin.ParseLevelMap(cfg.Admin.Levels)
	if err != nil {
		rt.closeStore()
		return nil, err
	}
	admin.Seed(adm.LoggerContext(""), seed)
	rt.Admin = adm

	rt.Registry = discovery.NewRegistry(components.logger("discovery"))
	rt.Source = logsource.NewReader("default", components.logger("logsource"))

	if !opts.Static {
		rt.lifecycle, err = bridge.NewLifecycle(bridge.LifecycleConfig{
			Discovery: rt.Registry,
			Backend:   rt.Backend,
			Logger:    components.logger("lifecycle"),
			Options: []bridge.Option{
				bridge.WithLogger(components.logger("bridge")),
				bridge.WithErrorHandler(rt.appenderFailed),
			},
		})
		if err != nil {
			rt.closeStore()
			return nil, err
		}
	}
	return rt, nil
}

func (rt *Runtime) appenderFailed(err error) {
	rt.Logger.Warn("backend appender failed",
		logging.String(logging.FieldEventType, "appender_failed"),
		logging.Error(err),
	)
}

// Start registers the admin registry and the event source, binds them, and
// starts the backend.
func (rt *Runtime) Start() error {
	if rt.started {
		return errors.New("runtime already started")
	}
	if rt.lifecycle != nil {
		if err := rt.lifecycle.Start(); err != nil {
			return err
		}
	}
	adminReg, err := rt.Registry.Register(bridge.AdminKind, rt.Admin, map[string]string{"session_id": rt.SessionID})
	if err != nil {
		return fmt.Errorf("register admin: %w", err)
	}
	sourceReg, err := rt.Registry.Register(bridge.SourceKind, rt.Source, map[string]string{"name": rt.Source.Name()})
	if err != nil {
		adminReg.Unregister()
		return fmt.Errorf("register source: %w", err)
	}
	rt.regs = append(rt.regs, adminReg, sourceReg)

	if rt.opts.Static {
		binding, err := bridge.BindStatic(rt.Registry, rt.Backend, "", rt.components.logger("bridge"),
			bridge.WithErrorHandler(rt.appenderFailed))
		if err != nil {
			return err
		}
		rt.static = binding
	}

	rt.Backend.Start()
	rt.started = true
	rt.Logger.Info("bridge runtime started",
		logging.String(logging.FieldEventType, "runtime_started"),
		logging.String(logging.FieldSessionID, rt.SessionID),
		logging.Bool("static", rt.opts.Static),
		logging.String("admin_store", rt.cfg.Admin.Store),
	)
	return nil
}

// Close stops the backend (rolling admin levels back to their baseline),
// tears down bindings, and releases the admin store.
func (rt *Runtime) Close() error {
	if rt.started {
		rt.Backend.Stop()
		rt.started = false
	}
	if rt.lifecycle != nil {
		rt.lifecycle.Stop()
	}
	if rt.static != nil {
		rt.static.Detach()
	}
	for _, reg := range rt.regs {
		reg.Unregister()
	}
	rt.regs = nil
	rt.Registry.Close()
	return rt.closeStore()
}

func (rt *Runtime) closeStore() error {
	var errs []error
	if rt.archive != nil {
		errs = append(errs, rt.archive.Close())
		rt.archive = nil
	}
	if rt.store != nil {
		errs = append(errs, rt.store.Close())
		rt.store = nil
	}
	return errors.Join(errs...)
}

// Bindings returns the live bindings.
func (rt *Runtime) Bindings() []*bridge.Binding {
	if rt.static != nil {
		return []*bridge.Binding{rt.static}
	}
	if rt.lifecycle == nil {
		return nil
	}
	return rt.lifecycle.Bindings()
}
