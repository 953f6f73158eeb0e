package logging

import (
	"errors"
	"slices"
	"strings"
	"sync/atomic"
)

// RootLoggerName names the root of every logger tree.
const RootLoggerName = "ROOT"

// defaultRootLevel is applied to the root logger on construction and reset.
const defaultRootLevel = LevelDebug

// Logger is a node in the backend hierarchy. A logger either carries an
// explicit level or inherits the effective level of its nearest explicit
// ancestor; the root logger always carries an explicit level.
type Logger struct {
	name     string
	ctx      *Context
	parent   *Logger
	children []*Logger // guarded by ctx.mu

	level    Level // guarded by ctx.mu
	explicit bool  // guarded by ctx.mu

	effective atomic.Int64
	appenders atomic.Pointer[[]Appender]
}

// Name returns the fully qualified logger name.
func (l *Logger) Name() string {
	return l.name
}

// IsRoot reports whether l is the root of its tree.
func (l *Logger) IsRoot() bool {
	return l.parent == nil
}

// Level returns the explicit level and whether one is set.
func (l *Logger) Level() (Level, bool) {
	l.ctx.mu.RLock()
	defer l.ctx.mu.RUnlock()
	return l.level, l.explicit
}

// EffectiveLevel returns the level inherited from the nearest explicit
// ancestor (or the logger itself).
func (l *Logger) EffectiveLevel() Level {
	return Level(l.effective.Load())
}

// IsEnabledFor reports whether a record at level passes this logger's
// effective threshold.
func (l *Logger) IsEnabledFor(level Level) bool {
	effective := l.EffectiveLevel()
	if effective == LevelOff {
		return false
	}
	return level >= effective
}

// SetLevel assigns an explicit level and notifies context listeners.
func (l *Logger) SetLevel(level Level) {
	l.ctx.mu.Lock()
	if l.explicit && l.level == level {
		l.ctx.mu.Unlock()
		return
	}
	l.level = level
	l.explicit = true
	l.propagateLocked(level)
	l.ctx.mu.Unlock()

	l.ctx.fireLevelChange(l, level)
}

// ErrRootLevel is returned when clearing the root logger's level.
var ErrRootLevel = errors.New("root logger level cannot be cleared")

// ClearLevel removes the explicit level so the logger inherits again.
// Listeners are not notified; the admin side keeps whatever it last saw until
// the next start or reset.
func (l *Logger) ClearLevel() error {
	if l.IsRoot() {
		return ErrRootLevel
	}
	l.ctx.mu.Lock()
	defer l.ctx.mu.Unlock()
	if !l.explicit {
		return nil
	}
	l.explicit = false
	l.level = 0
	l.propagateLocked(Level(l.parent.effective.Load()))
	return nil
}

// propagateLocked updates the effective level of l and every descendant that
// does not carry its own explicit level.
func (l *Logger) propagateLocked(effective Level) {
	l.effective.Store(int64(effective))
	for _, child := range l.children {
		if child.explicit {
			continue
		}
		child.propagateLocked(effective)
	}
}

// AddAppender attaches an output stage to this logger.
func (l *Logger) AddAppender(a Appender) {
	if a == nil {
		return
	}
	for {
		current := l.appenders.Load()
		var next []Appender
		if current != nil {
			next = append(next, (*current)...)
		}
		next = append(next, a)
		if l.appenders.CompareAndSwap(current, &next) {
			return
		}
	}
}

// Appenders returns the output stages attached directly to this logger.
func (l *Logger) Appenders() []Appender {
	current := l.appenders.Load()
	if current == nil {
		return nil
	}
	return slices.Clone(*current)
}

func (l *Logger) detachAppenders() {
	l.appenders.Store(nil)
}

// CallAppenders hands rec to the appenders of this logger and every ancestor.
// No level check is performed; callers decide suppression beforehand. The
// first appender error is returned after every appender ran.
func (l *Logger) CallAppenders(rec *Record) error {
	var firstErr error
	for node := l; node != nil; node = node.parent {
		current := node.appenders.Load()
		if current == nil {
			continue
		}
		for _, a := range *current {
			if err := a.Append(rec); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func normalizeName(name string) string {
	name = strings.Trim(strings.TrimSpace(name), ".")
	if name == "" || strings.EqualFold(name, RootLoggerName) {
		return RootLoggerName
	}
	return name
}
