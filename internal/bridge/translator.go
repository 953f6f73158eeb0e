package bridge

import (
	"sync/atomic"
	"time"

	"logbridge/internal/logging"
	"logbridge/internal/logsource"
	"logbridge/internal/severity"
)

// Synthetic logger names used by framework-level producers. Entries under
// these names are re-homed beneath the producing component.
const (
	EventsBundle    = "Events.Bundle"
	EventsFramework = "Events.Framework"
	EventsService   = "Events.Service"
	LogServiceName  = "LogService"
)

// unknownComponent replaces the symbolic name of entries without a component.
const unknownComponent = "unknown"

// sourceBoundary is the package prefix of the producer facade. Caller data
// starts at the first frame outside it.
const sourceBoundary = "logbridge/internal/logsource."

type captureFunc func(boundary string, frameworkPackages []string, maxDepth int) []logging.Frame

// contextState is swapped as a unit so a reader never pairs a root logger
// with a view from another generation.
type contextState struct {
	ctx  *logging.Context
	root *logging.Logger
	view *logging.ContextView
}

// Translator turns source entries into backend records.
type Translator struct {
	state   atomic.Pointer[contextState]
	capture captureFunc
	onError func(error)
}

func newTranslator(ctx *logging.Context, capture captureFunc, onError func(error)) *Translator {
	if capture == nil {
		capture = logging.CaptureCallerData
	}
	t := &Translator{capture: capture, onError: onError}
	t.refresh(ctx)
	return t
}

// refresh adopts the context's current root logger and view.
func (t *Translator) refresh(ctx *logging.Context) {
	t.state.Store(&contextState{ctx: ctx, root: ctx.Root(), view: ctx.View()})
}

// View returns the context view records are currently stamped with.
func (t *Translator) View() *logging.ContextView {
	return t.state.Load().view
}

// Logged implements logsource.Listener.
func (t *Translator) Logged(entry logsource.Entry) {
	st := t.state.Load()

	name := entry.LoggerName
	message := entry.Message
	var args []any
	level := severity.ToBackend(entry.Level)
	skipCaller := false

	switch name {
	case EventsBundle, EventsFramework, LogServiceName:
		name = name + "." + componentName(entry.Component)
		skipCaller = true
	case EventsService:
		name = name + "." + componentName(entry.Component)
		message += " " + logging.ArgPlaceholder
		args = []any{entry.ServiceRef}
		skipCaller = true
	}

	logger := st.ctx.Logger(name)
	if !logger.IsRoot() && !logger.IsEnabledFor(level) {
		return
	}

	ts := entry.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	rec := &logging.Record{
		LoggerName:  logger.Name(),
		Level:       level,
		Message:     message,
		Args:        args,
		Time:        ts,
		ThreadName:  entry.ThreadInfo,
		ContextView: st.view,
	}

	location := entry.Location
	if skipCaller {
		rec.SetCallerDataFunc(func() []logging.Frame {
			if location == nil {
				return nil
			}
			return []logging.Frame{*location}
		})
	} else {
		depth := st.ctx.MaxCallerDepth()
		packages := st.ctx.FrameworkPackages()
		capture := t.capture
		rec.SetCallerDataFunc(func() []logging.Frame {
			frames := capture(sourceBoundary, packages, depth)
			if location == nil {
				return frames
			}
			if len(frames) > 0 && frames[0] == *location {
				frames = frames[1:]
			}
			out := make([]logging.Frame, 0, len(frames)+1)
			out = append(out, *location)
			out = append(out, frames...)
			if len(out) > depth {
				out = out[:depth]
			}
			return out
		})
	}

	if proxy := logging.NewThrowableProxy(entry.Err); proxy != nil {
		if st.ctx.PackagingDataEnabled() {
			proxy.CalculatePackagingData()
		}
		rec.Throwable = proxy
	}

	if err := st.root.CallAppenders(rec); err != nil && t.onError != nil {
		t.onError(err)
	}
}

func componentName(c logsource.Component) string {
	if c == nil {
		return unknownComponent
	}
	if name := c.SymbolicName(); name != "" {
		return name
	}
	return unknownComponent
}
