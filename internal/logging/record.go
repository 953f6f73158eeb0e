package logging

import (
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Frame identifies one call-stack location.
type Frame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

func (f Frame) String() string {
	if f.File == "" {
		return f.Function
	}
	return f.Function + " (" + f.File + ":" + strconv.Itoa(f.Line) + ")"
}

// ArgPlaceholder marks where a positional argument is substituted into a
// record message.
const ArgPlaceholder = "{}"

// Record is one backend log event. Records are built by producers and handed
// to CallAppenders; appenders must treat them as read-only.
type Record struct {
	LoggerName  string
	Level       Level
	Message     string
	Args        []any
	Time        time.Time
	ThreadName  string
	ContextView *ContextView
	Throwable   *ThrowableProxy

	callerOnce sync.Once
	callerFunc func() []Frame
	callerData []Frame

	formatOnce sync.Once
	formatted  string
}

// SetCallerDataFunc installs the lazy caller-data provider. It is invoked at
// most once, on the first CallerData call.
func (r *Record) SetCallerDataFunc(fn func() []Frame) {
	r.callerFunc = fn
}

// CallerData returns the memoized caller frames, computing them on first use.
// Concurrent first calls block until the single computation finishes.
func (r *Record) CallerData() []Frame {
	r.callerOnce.Do(func() {
		if r.callerFunc != nil {
			r.callerData = r.callerFunc()
		}
	})
	return r.callerData
}

// FormattedMessage substitutes Args into each ArgPlaceholder of Message.
// Surplus placeholders are left untouched; surplus arguments are ignored.
func (r *Record) FormattedMessage() string {
	r.formatOnce.Do(func() {
		r.formatted = FormatMessage(r.Message, r.Args)
	})
	return r.formatted
}

// FormatMessage performs placeholder substitution for a message/args pair.
func FormatMessage(message string, args []any) string {
	if len(args) == 0 || !strings.Contains(message, ArgPlaceholder) {
		return message
	}
	var b strings.Builder
	b.Grow(len(message) + 16*len(args))
	rest := message
	for _, arg := range args {
		idx := strings.Index(rest, ArgPlaceholder)
		if idx < 0 {
			break
		}
		b.WriteString(rest[:idx])
		b.WriteString(fmt.Sprint(arg))
		rest = rest[idx+len(ArgPlaceholder):]
	}
	b.WriteString(rest)
	return b.String()
}

// CaptureCallerData walks the current goroutine's stack and returns the frames
// beyond the logging boundary. Starting at the innermost frame whose function
// starts with boundary (or, when none does, the innermost framework frame),
// the contiguous run of boundary and framework frames is dropped together with
// everything inside it. Framework frames further out are kept. Without any
// match the whole stack is returned. The result is truncated to maxDepth.
func CaptureCallerData(boundary string, frameworkPackages []string, maxDepth int) []Frame {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxCallerDepth
	}
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var all []Frame
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			all = append(all, Frame{Function: frame.Function, File: frame.File, Line: frame.Line})
		}
		if !more {
			break
		}
	}

	start := -1
	if boundary != "" {
		start = slices.IndexFunc(all, func(f Frame) bool { return strings.HasPrefix(f.Function, boundary) })
	}
	if start < 0 {
		start = slices.IndexFunc(all, func(f Frame) bool { return isFrameworkFrame(f.Function, frameworkPackages) })
	}
	cut := 0
	if start >= 0 {
		cut = start
		for cut < len(all) && isBoundaryFrame(all[cut].Function, boundary, frameworkPackages) {
			cut++
		}
	}
	out := all[cut:]
	if len(out) > maxDepth {
		out = out[:maxDepth]
	}
	return append([]Frame(nil), out...)
}

func isFrameworkFrame(function string, frameworkPackages []string) bool {
	for _, prefix := range frameworkPackages {
		if strings.HasPrefix(function, prefix) {
			return true
		}
	}
	return false
}

func isBoundaryFrame(function, boundary string, frameworkPackages []string) bool {
	if boundary != "" && strings.HasPrefix(function, boundary) {
		return true
	}
	return isFrameworkFrame(function, frameworkPackages)
}
