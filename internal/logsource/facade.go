package logsource

import (
	"fmt"
	"runtime"
	"time"

	"logbridge/internal/admin"
	"logbridge/internal/logging"
)

// Logger is a producer-side facade that publishes entries to a Reader.
type Logger struct {
	reader    *Reader
	name      string
	component Component
}

// Logger returns a facade publishing under name on behalf of component.
func (r *Reader) Logger(name string, component Component) *Logger {
	return &Logger{reader: r, name: name, component: component}
}

// Log publishes message at level.
func (l *Logger) Log(level admin.Level, message string) {
	l.publish(level, message, nil, nil)
}

// Logf publishes a formatted message at level.
func (l *Logger) Logf(level admin.Level, format string, args ...any) {
	l.publish(level, fmt.Sprintf(format, args...), nil, nil)
}

// LogErr publishes message with an attached error.
func (l *Logger) LogErr(level admin.Level, message string, err error) {
	l.publish(level, message, err, nil)
}

// LogService publishes an entry referencing a service.
func (l *Logger) LogService(level admin.Level, message string, serviceRef any) {
	l.publish(level, message, nil, serviceRef)
}

func (l *Logger) Trace(message string) { l.publish(admin.LevelTrace, message, nil, nil) }
func (l *Logger) Debug(message string) { l.publish(admin.LevelDebug, message, nil, nil) }
func (l *Logger) Info(message string)  { l.publish(admin.LevelInfo, message, nil, nil) }
func (l *Logger) Warn(message string)  { l.publish(admin.LevelWarn, message, nil, nil) }
func (l *Logger) Error(message string, err error) {
	l.publish(admin.LevelError, message, err, nil)
}
func (l *Logger) Audit(message string) { l.publish(admin.LevelAudit, message, nil, nil) }

// publish must be called directly from an exported Logger method so the
// location skip count stays fixed.
func (l *Logger) publish(level admin.Level, message string, err error, serviceRef any) {
	entry := Entry{
		LoggerName: l.name,
		Message:    message,
		Level:      level,
		Err:        err,
		Component:  l.component,
		ServiceRef: serviceRef,
		Time:       time.Now(),
		ThreadInfo: currentThread(),
	}
	if pc, file, line, ok := runtime.Caller(2); ok {
		frame := logging.Frame{File: file, Line: line}
		if fn := runtime.FuncForPC(pc); fn != nil {
			frame.Function = fn.Name()
		}
		entry.Location = &frame
	}
	l.reader.Publish(entry)
}
