package bridge

import (
	"log/slog"
	"maps"
	"sync"

	"logbridge/internal/admin"
	"logbridge/internal/logging"
	"logbridge/internal/severity"
)

// LevelSync keeps an admin scope consistent with the backend logger tree.
//
// The admin map captured at Initialize is the baseline. Every start or reset
// of the backend re-derives the admin map from that baseline plus the
// backend's explicit levels; a stop restores the baseline verbatim. The
// baseline itself is never written.
type LevelSync struct {
	admin     admin.LoggerContext
	backend   *logging.Context
	logger    *slog.Logger
	onContext func(*logging.Context)

	// mu serializes read-modify-write cycles against the admin scope.
	mu          sync.Mutex
	baseline    map[string]admin.Level
	initialized bool
	ready       bool
}

func newLevelSync(adm admin.LoggerContext, backend *logging.Context, logger *slog.Logger, onContext func(*logging.Context)) *LevelSync {
	return &LevelSync{
		admin:     adm,
		backend:   backend,
		logger:    logger,
		onContext: onContext,
	}
}

// Initialize subscribes to the backend, captures the baseline, and publishes
// the merged map to the admin scope. Later calls are no-ops.
//
// The subscription comes first so that no backend change can fall between the
// merge and the first replicated event. Changes delivered before the baseline
// exists are already visible to the merge and are skipped.
func (e *LevelSync) Initialize() {
	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return
	}
	e.initialized = true
	e.mu.Unlock()

	e.backend.AddListener(e, logging.SurviveReset())

	e.mu.Lock()
	e.baseline = e.admin.LogLevels()
	merged := e.MergeFromBackend(e.baseline)
	e.admin.SetLogLevels(merged)
	e.ready = true
	e.mu.Unlock()

	e.logger.Debug("level sync initialized",
		logging.String(logging.FieldEventType, "levelsync_initialized"),
		logging.Int("baseline_entries", len(e.baseline)),
		logging.Int("merged_entries", len(merged)),
	)
}

// Close unsubscribes from the backend without touching the admin scope.
func (e *LevelSync) Close() {
	e.backend.RemoveListener(e)
}

// Baseline returns a copy of the captured baseline.
func (e *LevelSync) Baseline() map[string]admin.Level {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.Clone(e.baseline)
}

// MergeFromBackend returns a copy of baseline overlaid with every explicit
// backend level. Explicit OFF removes the entry; the root logger is keyed by
// admin.RootLoggerName. baseline is not modified.
func (e *LevelSync) MergeFromBackend(baseline map[string]admin.Level) map[string]admin.Level {
	merged := make(map[string]admin.Level, len(baseline))
	maps.Copy(merged, baseline)
	for _, logger := range e.backend.ExplicitLoggers() {
		level, ok := logger.Level()
		if !ok {
			continue
		}
		applyLevel(merged, adminName(logger), level)
	}
	return merged
}

// OnStart implements logging.ContextListener.
func (e *LevelSync) OnStart(ctx *logging.Context) {
	e.resync(ctx, "start")
}

// OnReset implements logging.ContextListener.
func (e *LevelSync) OnReset(ctx *logging.Context) {
	e.resync(ctx, "reset")
}

func (e *LevelSync) resync(ctx *logging.Context, reason string) {
	if e.onContext != nil {
		e.onContext(ctx)
	}
	e.mu.Lock()
	if !e.ready {
		e.mu.Unlock()
		return
	}
	merged := e.MergeFromBackend(e.baseline)
	e.admin.SetLogLevels(merged)
	e.mu.Unlock()
	e.logger.Debug("admin levels resynchronized",
		logging.String(logging.FieldEventType, "levelsync_resync"),
		logging.String("reason", reason),
		logging.Int("entries", len(merged)),
	)
}

// OnStop implements logging.ContextListener by restoring the baseline.
func (e *LevelSync) OnStop(*logging.Context) {
	e.mu.Lock()
	if !e.ready {
		e.mu.Unlock()
		return
	}
	e.admin.SetLogLevels(maps.Clone(e.baseline))
	e.mu.Unlock()
	e.logger.Debug("admin levels rolled back",
		logging.String(logging.FieldEventType, "levelsync_rollback"),
	)
}

// OnLevelChange implements logging.ContextListener by replicating one
// backend change into the admin scope.
func (e *LevelSync) OnLevelChange(logger *logging.Logger, level logging.Level) {
	e.mu.Lock()
	if !e.ready {
		e.mu.Unlock()
		return
	}
	levels := e.admin.LogLevels()
	applyLevel(levels, adminName(logger), level)
	e.admin.SetLogLevels(levels)
	e.mu.Unlock()
}

func applyLevel(levels map[string]admin.Level, name string, level logging.Level) {
	mapped, ok := severity.ToAdmin(level)
	if !ok {
		delete(levels, name)
		return
	}
	levels[name] = mapped
}

func adminName(logger *logging.Logger) string {
	if logger.IsRoot() {
		return admin.RootLoggerName
	}
	return logger.Name()
}
