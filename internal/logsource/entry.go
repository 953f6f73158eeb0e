package logsource

import (
	"time"

	"logbridge/internal/admin"
	"logbridge/internal/logging"
)

// Component identifies the deployable unit that produced an entry.
type Component interface {
	SymbolicName() string
}

// NamedComponent is a Component backed by a plain string.
type NamedComponent string

// SymbolicName returns the component name.
func (c NamedComponent) SymbolicName() string { return string(c) }

// Entry is one structured log event as seen by listeners.
type Entry struct {
	LoggerName string
	Message    string
	Level      admin.Level
	Err        error
	Component  Component
	ServiceRef any
	Time       time.Time
	ThreadInfo string
	// Location is the producer's call site, when known.
	Location *logging.Frame
}

// Listener receives published entries. Implementations must be comparable
// (typically pointers) so they can be removed again.
type Listener interface {
	Logged(entry Entry)
}
