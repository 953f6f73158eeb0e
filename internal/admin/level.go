package admin

import (
	"fmt"
	"strings"
)

// RootLoggerName is the registry key addressing the root logger.
const RootLoggerName = "ROOT"

// Level is an administrative log level.
type Level uint8

const (
	LevelAudit Level = iota + 1
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var levelNames = map[Level]string{
	LevelAudit: "AUDIT",
	LevelError: "ERROR",
	LevelWarn:  "WARN",
	LevelInfo:  "INFO",
	LevelDebug: "DEBUG",
	LevelTrace: "TRACE",
}

// Levels lists every administrative level, most severe first.
func Levels() []Level {
	return []Level{LevelAudit, LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace}
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", uint8(l))
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// ParseLevel resolves a case-insensitive level name.
func ParseLevel(name string) (Level, error) {
	needle := strings.ToUpper(strings.TrimSpace(name))
	for level, label := range levelNames {
		if label == needle {
			return level, nil
		}
	}
	return 0, fmt.Errorf("unknown admin level %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("unknown admin level %d", uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
