package daemonrun

import (
	"sort"
	"strings"

	"logbridge/internal/admin"
	"logbridge/internal/logging"
)

// LevelRow describes one logger as seen by both registries.
type LevelRow struct {
	Name      string `json:"name"`
	Admin     string `json:"admin,omitempty"`
	Backend   string `json:"backend,omitempty"`
	Effective string `json:"effective"`
}

// Levels lists every logger named by the admin root scope or carrying an
// explicit backend level, root first.
func (rt *Runtime) Levels() []LevelRow {
	adminLevels := rt.Admin.LoggerContext("").LogLevels()
	rows := make(map[string]*LevelRow)
	row := func(name string) *LevelRow {
		if r, ok := rows[name]; ok {
			return r
		}
		r := &LevelRow{Name: name}
		rows[name] = r
		return r
	}
	for name, level := range adminLevels {
		row(name).Admin = level.String()
	}
	for _, logger := range rt.Backend.ExplicitLoggers() {
		level, _ := logger.Level()
		row(logger.Name()).Backend = level.String()
	}

	out := make([]LevelRow, 0, len(rows))
	for name, r := range rows {
		r.Effective = rt.effectiveLevel(name).String()
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		switch {
		case out[i].Name == admin.RootLoggerName:
			return true
		case out[j].Name == admin.RootLoggerName:
			return false
		default:
			return out[i].Name < out[j].Name
		}
	})
	return out
}

// effectiveLevel resolves name against the nearest existing logger without
// creating any.
func (rt *Runtime) effectiveLevel(name string) logging.Level {
	for candidate := name; candidate != ""; {
		if logger, ok := rt.Backend.Exists(candidate); ok {
			return logger.EffectiveLevel()
		}
		idx := strings.LastIndexByte(candidate, '.')
		if idx < 0 {
			break
		}
		candidate = candidate[:idx]
	}
	return rt.Backend.Root().EffectiveLevel()
}

// SetBackendLevel assigns an explicit backend level, which the bindings
// replicate into the admin registry.
func (rt *Runtime) SetBackendLevel(name string, level logging.Level) {
	rt.Backend.Logger(name).SetLevel(level)
}
