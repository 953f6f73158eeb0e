package admin

import (
	"fmt"
	"sort"
)

// ParseLevelMap converts configured name/level pairs to a registry map.
func ParseLevelMap(raw map[string]string) (map[string]Level, error) {
	out := make(map[string]Level, len(raw))
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		level, err := ParseLevel(raw[name])
		if err != nil {
			return nil, fmt.Errorf("admin level for %q: %w", name, err)
		}
		out[name] = level
	}
	return out, nil
}

// Seed merges levels into scope without removing existing entries.
func Seed(scope LoggerContext, levels map[string]Level) {
	if len(levels) == 0 {
		return
	}
	current := scope.LogLevels()
	for name, level := range levels {
		current[name] = level
	}
	scope.SetLogLevels(current)
}
