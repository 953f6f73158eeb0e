package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldLogger is the structured key carrying a record's logger name.
	FieldLogger = "logger"
	// FieldThread is the structured key carrying a record's thread name.
	FieldThread = "thread"
	// FieldCaller is the structured key carrying the innermost caller frame.
	FieldCaller = "caller"
	// FieldGeneration is the structured key carrying the context view generation.
	FieldGeneration = "context_generation"
)

// Appender is a backend output stage.
type Appender interface {
	Append(rec *Record) error
}

// AppenderFunc adapts a function to Appender.
type AppenderFunc func(rec *Record) error

func (f AppenderFunc) Append(rec *Record) error { return f(rec) }

// HandlerAppender renders records through a slog.Handler. The handler's own
// Enabled check acts as the appender threshold.
type HandlerAppender struct {
	handler    slog.Handler
	callerData bool
}

// HandlerOption tunes a HandlerAppender.
type HandlerOption func(*HandlerAppender)

// WithCallerData includes the innermost caller frame on every emitted record,
// forcing the record's lazy caller capture.
func WithCallerData(enabled bool) HandlerOption {
	return func(a *HandlerAppender) {
		a.callerData = enabled
	}
}

// WithThreshold drops records below level before they reach the handler.
func WithThreshold(level Level) HandlerOption {
	return func(a *HandlerAppender) {
		a.handler = newLevelOverrideHandler(a.handler, level.SlogLevel())
	}
}

// NewHandlerAppender wraps handler as an Appender.
func NewHandlerAppender(handler slog.Handler, opts ...HandlerOption) *HandlerAppender {
	if handler == nil {
		handler = NoopHandler{}
	}
	a := &HandlerAppender{handler: handler}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Append converts rec to a slog.Record and hands it to the handler.
func (a *HandlerAppender) Append(rec *Record) error {
	if rec == nil {
		return nil
	}
	ctx := context.Background()
	level := rec.Level.SlogLevel()
	if !a.handler.Enabled(ctx, level) {
		return nil
	}
	out := slog.NewRecord(rec.Time, level, rec.FormattedMessage(), 0)
	out.AddAttrs(String(FieldLogger, rec.LoggerName))
	if rec.ThreadName != "" {
		out.AddAttrs(String(FieldThread, rec.ThreadName))
	}
	if a.callerData {
		if frames := rec.CallerData(); len(frames) > 0 {
			out.AddAttrs(String(FieldCaller, frames[0].String()))
		}
	}
	if rec.ContextView != nil {
		out.AddAttrs(Uint64(FieldGeneration, rec.ContextView.Generation))
	}
	if rec.Throwable != nil {
		out.AddAttrs(Error(rec.Throwable.Err()))
		if causes := rec.Throwable.Causes(); len(causes) > 1 {
			out.AddAttrs(Int("error_chain", len(causes)))
		}
		if pkgs := rec.Throwable.Packaging(); len(pkgs) > 0 && pkgs[0].Module != "" {
			module := pkgs[0].Module
			if pkgs[0].Version != "" {
				module += "@" + pkgs[0].Version
			}
			out.AddAttrs(String("error_module", module))
		}
	}
	return a.handler.Handle(ctx, out)
}
