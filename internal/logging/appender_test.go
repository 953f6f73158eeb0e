package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestHandlerAppenderRendersRecord(t *testing.T) {
	var buf bytes.Buffer
	appender := NewHandlerAppender(
		slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: LevelAll.SlogLevel()}),
		WithCallerData(true),
	)
	rec := &Record{
		LoggerName:  "app.db",
		Level:       LevelWarn,
		Message:     "retry {} of {}",
		Args:        []any{2, 5},
		Time:        time.Now(),
		ThreadName:  "worker-1",
		ContextView: &ContextView{Generation: 4},
		Throwable:   NewThrowableProxy(errors.New("timeout")),
	}
	rec.SetCallerDataFunc(func() []Frame {
		return []Frame{{Function: "app.Save", File: "save.go", Line: 12}}
	})

	if err := appender.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`"msg":"retry 2 of 5"`,
		`"logger":"app.db"`,
		`"thread":"worker-1"`,
		`"caller":"app.Save (save.go:12)"`,
		`"context_generation":4`,
		`"error":"timeout"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output, got %s", want, out)
		}
	}
}

func TestHandlerAppenderThreshold(t *testing.T) {
	var buf bytes.Buffer
	appender := NewHandlerAppender(
		slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: LevelAll.SlogLevel()}),
		WithThreshold(LevelError),
	)
	_ = appender.Append(&Record{LoggerName: "x", Level: LevelWarn, Message: "dropped"})
	if buf.Len() != 0 {
		t.Fatalf("WARN should be below threshold, got %s", buf.String())
	}
	_ = appender.Append(&Record{LoggerName: "x", Level: LevelError, Message: "kept"})
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("ERROR should pass threshold, got %s", buf.String())
	}
}

func TestHandlerAppenderSkipsCallerCaptureWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	appender := NewHandlerAppender(slog.NewJSONHandler(&buf, nil))
	captured := false
	rec := &Record{LoggerName: "x", Level: LevelInfo, Message: "m"}
	rec.SetCallerDataFunc(func() []Frame {
		captured = true
		return nil
	})
	_ = appender.Append(rec)
	if captured {
		t.Fatal("caller data should stay lazy when not requested")
	}
}

func TestConsoleHandlerHeader(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(LevelAll.SlogLevel())
	appender := NewHandlerAppender(newPrettyHandler(&buf, lvl, false))
	_ = appender.Append(&Record{LoggerName: "svc", Level: LevelTrace, Message: "deep", ThreadName: "main"})

	line := buf.String()
	if !strings.Contains(line, "TRACE [svc] (main) – deep") {
		t.Fatalf("unexpected console header %q", line)
	}
}

func TestTeeHandlerFansOutByLevel(t *testing.T) {
	var infoBuf, errBuf bytes.Buffer
	tee := TeeHandler(
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		newLevelOverrideHandler(slog.NewJSONHandler(&errBuf, nil), slog.LevelError),
		nil,
	)
	appender := NewHandlerAppender(tee)
	_ = appender.Append(&Record{LoggerName: "x", Level: LevelInfo, Message: "info"})
	_ = appender.Append(&Record{LoggerName: "x", Level: LevelError, Message: "boom"})

	if strings.Count(infoBuf.String(), "\n") != 2 {
		t.Fatalf("info handler should see both records, got %s", infoBuf.String())
	}
	if strings.Contains(errBuf.String(), `"msg":"info"`) || !strings.Contains(errBuf.String(), "boom") {
		t.Fatalf("error handler should only see ERROR, got %s", errBuf.String())
	}
}

func TestTeeHandlerSingleHandlerUnwrapped(t *testing.T) {
	inner := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	if TeeHandler(nil, inner) != inner {
		t.Fatal("expected single handler to be returned unwrapped")
	}
	if _, ok := TeeHandler(nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when no handlers remain")
	}
}
