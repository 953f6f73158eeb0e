package logging

import (
	"log/slog"
	"math"
	"strings"
)

// Level is a backend logger threshold. Values share slog's numbering so a
// record level converts to a slog.Level without a lookup table; TRACE sits one
// step below DEBUG and ALL/OFF bracket every other value.
type Level int

const (
	LevelAll   Level = math.MinInt32
	LevelTrace Level = Level(slog.LevelDebug) - 4
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
	LevelOff   Level = math.MaxInt32
)

// SlogLevel maps the level onto slog for handler emission.
func (l Level) SlogLevel() slog.Level {
	return slog.Level(l)
}

func (l Level) String() string {
	switch l {
	case LevelAll:
		return "ALL"
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return slog.Level(l).String()
	}
}

// ParseLevel converts a level name to a backend Level. The second return value
// is false for unknown names.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "all":
		return LevelAll, true
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "off":
		return LevelOff, true
	default:
		return LevelInfo, false
	}
}
