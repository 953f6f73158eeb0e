package admin

import (
	"context"
	"log/slog"
	"maps"
	"sync"

	"logbridge/internal/logging"
)

// LoggerContext is one named scope of the administrative registry.
type LoggerContext interface {
	Name() string
	// LogLevels returns a copy of the scope's level map.
	LogLevels() map[string]Level
	// SetLogLevels replaces the scope's level map wholesale.
	SetLogLevels(levels map[string]Level)
}

type loggerContext struct {
	name   string
	store  Store
	logger *slog.Logger

	// saveMu orders the in-memory swap and the store write as one step.
	saveMu sync.Mutex
	mu     sync.RWMutex
	levels map[string]Level
}

func (c *loggerContext) Name() string {
	return c.name
}

func (c *loggerContext) LogLevels() map[string]Level {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := maps.Clone(c.levels)
	if out == nil {
		out = make(map[string]Level)
	}
	return out
}

func (c *loggerContext) SetLogLevels(levels map[string]Level) {
	next := maps.Clone(levels)
	if next == nil {
		next = make(map[string]Level)
	}
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	c.levels = next
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.Save(context.Background(), c.name, next); err != nil {
		c.logger.Warn("admin level persistence failed",
			logging.String(logging.FieldEventType, "admin_persist_failed"),
			logging.String("scope", c.name),
			logging.Error(err),
		)
	}
}
