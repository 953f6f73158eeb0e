package logging

import "testing"

func TestContextStartIsIdempotent(t *testing.T) {
	ctx := NewContext("test")
	rec := &recordingListener{}
	ctx.AddListener(rec)
	ctx.AddListener(rec)

	before := ctx.View().Generation
	ctx.Start()
	ctx.Start()

	if rec.starts != 1 {
		t.Fatalf("expected one start notification, got %d", rec.starts)
	}
	if !ctx.Started() {
		t.Fatal("context should report started")
	}
	if ctx.View().Generation <= before {
		t.Fatal("start should publish a newer view")
	}
}

func TestResetDropsOrdinaryListeners(t *testing.T) {
	ctx := NewContext("test", WithProperty("host", "box"))
	plain := &recordingListener{}
	resistant := &recordingListener{}
	ctx.AddListener(plain)
	ctx.AddListener(resistant, SurviveReset())
	ctx.Logger("a").SetLevel(LevelError)
	ctx.Root().SetLevel(LevelWarn)
	ctx.Root().AddAppender(AppenderFunc(func(*Record) error { return nil }))

	ctx.Reset()

	if plain.resets != 0 || resistant.resets != 1 {
		t.Fatalf("unexpected reset notifications plain=%d resistant=%d", plain.resets, resistant.resets)
	}
	if _, explicit := ctx.Logger("a").Level(); explicit {
		t.Fatal("reset should clear non-root levels")
	}
	if level, _ := ctx.Root().Level(); level != LevelDebug {
		t.Fatalf("reset should restore root to DEBUG, got %s", level)
	}
	if len(ctx.Root().Appenders()) != 0 {
		t.Fatal("reset should detach appenders")
	}
	if ctx.View().Properties["host"] != "box" {
		t.Fatal("view should carry context properties")
	}

	ctx.Logger("b").SetLevel(LevelInfo)
	if len(plain.changes) != 2 {
		t.Fatalf("dropped listener should not see post-reset changes, got %+v", plain.changes)
	}
}

func TestStopNotifiesAndClearsListeners(t *testing.T) {
	ctx := NewContext("test")
	rec := &recordingListener{}
	ctx.AddListener(rec, SurviveReset())
	ctx.Start()
	ctx.Stop()

	if rec.stops != 1 || rec.resets != 1 {
		t.Fatalf("expected reset and stop, got resets=%d stops=%d", rec.resets, rec.stops)
	}
	if ctx.Started() {
		t.Fatal("context should not report started after stop")
	}
	ctx.Logger("x").SetLevel(LevelError)
	if len(rec.changes) != 0 {
		t.Fatal("listeners should be gone after stop")
	}
}

func TestExplicitLoggersRootFirst(t *testing.T) {
	ctx := NewContext("test")
	ctx.Logger("z.y").SetLevel(LevelInfo)
	ctx.Logger("b").SetLevel(LevelWarn)
	ctx.Logger("b.unset")

	got := ctx.ExplicitLoggers()
	names := make([]string, len(got))
	for i, l := range got {
		names[i] = l.Name()
	}
	want := []string{RootLoggerName, "b", "z.y"}
	if len(names) != len(want) {
		t.Fatalf("got %v want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v want %v", names, want)
		}
	}
}

func TestContextOptions(t *testing.T) {
	ctx := NewContext("", WithMaxCallerDepth(3), WithFrameworkPackages("example.com/wrap", " "), WithPackagingData(true))
	if ctx.Name() != "default" {
		t.Fatalf("unexpected name %q", ctx.Name())
	}
	if ctx.MaxCallerDepth() != 3 {
		t.Fatalf("unexpected depth %d", ctx.MaxCallerDepth())
	}
	if pkgs := ctx.FrameworkPackages(); len(pkgs) != 1 || pkgs[0] != "example.com/wrap" {
		t.Fatalf("unexpected framework packages %v", pkgs)
	}
	if !ctx.PackagingDataEnabled() {
		t.Fatal("packaging data should be enabled")
	}
	ctx.SetMaxCallerDepth(0)
	if ctx.MaxCallerDepth() != DefaultMaxCallerDepth {
		t.Fatal("non-positive depth should restore the default")
	}
}
