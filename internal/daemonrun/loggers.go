package daemonrun

import (
	"log/slog"

	"logbridge/internal/config"
	"logbridge/internal/logging"
)

// componentLevels resolves logging.component_levels against the global
// logging level.
type componentLevels struct {
	base      *slog.Logger
	defaultLv slog.Level
	levels    map[string]slog.Level
	// fixed disables narrowing for a caller-supplied logger.
	fixed bool
}

func newComponentLevels(cfg config.Logging, override string) componentLevels {
	def := cfg.Level
	if override != "" {
		def = override
	}
	c := componentLevels{defaultLv: slogLevel(def), levels: make(map[string]slog.Level, len(cfg.ComponentLevels))}
	for name, level := range cfg.ComponentLevels {
		c.levels[name] = slogLevel(level)
	}
	return c
}

// floor is the most verbose level any component needs; the shared handler is
// built at this level and each component narrows it again.
func (c componentLevels) floor() string {
	lowest := c.defaultLv
	for _, level := range c.levels {
		if level < lowest {
			lowest = level
		}
	}
	return logging.Level(lowest).String()
}

func (c componentLevels) logger(component string) *slog.Logger {
	if c.fixed {
		return c.base
	}
	level, ok := c.levels[component]
	if !ok {
		level = c.defaultLv
	}
	return logging.WithLevelOverride(c.base, level)
}

func slogLevel(name string) slog.Level {
	level, ok := logging.ParseLevel(name)
	if !ok {
		return slog.LevelInfo
	}
	return level.SlogLevel()
}
