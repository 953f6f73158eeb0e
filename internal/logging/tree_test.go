package logging

import (
	"errors"
	"testing"
)

type levelEvent struct {
	name  string
	level Level
}

type recordingListener struct {
	starts, resets, stops int
	changes               []levelEvent
}

func (r *recordingListener) OnStart(*Context) { r.starts++ }
func (r *recordingListener) OnReset(*Context) { r.resets++ }
func (r *recordingListener) OnStop(*Context)  { r.stops++ }
func (r *recordingListener) OnLevelChange(l *Logger, level Level) {
	r.changes = append(r.changes, levelEvent{name: l.Name(), level: level})
}

func TestLoggerInheritsNearestExplicitAncestor(t *testing.T) {
	ctx := NewContext("test")
	ctx.Logger("a").SetLevel(LevelWarn)
	leaf := ctx.Logger("a.b.c")

	if got := leaf.EffectiveLevel(); got != LevelWarn {
		t.Fatalf("expected WARN inherited from a, got %s", got)
	}
	if _, explicit := leaf.Level(); explicit {
		t.Fatal("leaf should not carry an explicit level")
	}
	if leaf.IsEnabledFor(LevelInfo) {
		t.Fatal("INFO should be suppressed below WARN")
	}

	ctx.Logger("a.b").SetLevel(LevelTrace)
	if got := leaf.EffectiveLevel(); got != LevelTrace {
		t.Fatalf("expected TRACE from a.b, got %s", got)
	}

	if err := ctx.Logger("a.b").ClearLevel(); err != nil {
		t.Fatalf("ClearLevel: %v", err)
	}
	if got := leaf.EffectiveLevel(); got != LevelWarn {
		t.Fatalf("expected WARN after clearing a.b, got %s", got)
	}
}

func TestLoggerCreatedAfterAncestorLevelInherits(t *testing.T) {
	ctx := NewContext("test")
	ctx.Root().SetLevel(LevelError)
	if got := ctx.Logger("late.child").EffectiveLevel(); got != LevelError {
		t.Fatalf("expected ERROR for late child, got %s", got)
	}
}

func TestOffDisablesEverything(t *testing.T) {
	ctx := NewContext("test")
	logger := ctx.Logger("quiet")
	logger.SetLevel(LevelOff)
	if logger.IsEnabledFor(LevelError) {
		t.Fatal("OFF logger should reject ERROR")
	}
	ctx.Logger("loud").SetLevel(LevelAll)
	if !ctx.Logger("loud").IsEnabledFor(LevelTrace) {
		t.Fatal("ALL logger should accept TRACE")
	}
}

func TestClearRootLevelFails(t *testing.T) {
	ctx := NewContext("test")
	if err := ctx.Root().ClearLevel(); !errors.Is(err, ErrRootLevel) {
		t.Fatalf("expected ErrRootLevel, got %v", err)
	}
}

func TestRootNameAliases(t *testing.T) {
	ctx := NewContext("test")
	for _, name := range []string{"", "ROOT", "root", " . "} {
		if ctx.Logger(name) != ctx.Root() {
			t.Fatalf("expected %q to resolve to root", name)
		}
	}
}

func TestSetLevelNotifiesOnlyOnChange(t *testing.T) {
	ctx := NewContext("test")
	rec := &recordingListener{}
	ctx.AddListener(rec)

	ctx.Logger("x").SetLevel(LevelInfo)
	ctx.Logger("x").SetLevel(LevelInfo)
	ctx.Logger("x").SetLevel(LevelError)

	if len(rec.changes) != 2 {
		t.Fatalf("expected 2 notifications, got %+v", rec.changes)
	}
	if rec.changes[1] != (levelEvent{name: "x", level: LevelError}) {
		t.Fatalf("unexpected last notification %+v", rec.changes[1])
	}
}

func TestCallAppendersWalksAncestors(t *testing.T) {
	ctx := NewContext("test")
	var got []string
	ctx.Root().AddAppender(AppenderFunc(func(rec *Record) error {
		got = append(got, "root:"+rec.LoggerName)
		return nil
	}))
	failure := errors.New("disk full")
	ctx.Logger("a").AddAppender(AppenderFunc(func(rec *Record) error {
		got = append(got, "a:"+rec.LoggerName)
		return failure
	}))

	err := ctx.Logger("a.b").CallAppenders(&Record{LoggerName: "a.b", Level: LevelInfo})
	if !errors.Is(err, failure) {
		t.Fatalf("expected appender error, got %v", err)
	}
	if len(got) != 2 || got[0] != "a:a.b" || got[1] != "root:a.b" {
		t.Fatalf("unexpected appender order %v", got)
	}
}
