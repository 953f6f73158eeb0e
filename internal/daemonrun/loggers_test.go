package daemonrun

import (
	"context"
	"log/slog"
	"testing"

	"logbridge/internal/config"
	"logbridge/internal/logging"
)

func TestComponentLevelsNarrowSharedLogger(t *testing.T) {
	levels := newComponentLevels(config.Logging{
		Level:           "info",
		ComponentLevels: map[string]string{"bridge": "debug", "discovery": "error"},
	}, "")
	if got := levels.floor(); got != "DEBUG" {
		t.Fatalf("expected floor DEBUG, got %s", got)
	}

	base, err := logging.New(logging.Options{Level: levels.floor(), OutputPaths: []string{t.TempDir() + "/out.log"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	levels.base = base

	ctx := context.Background()
	cases := []struct {
		component string
		level     slog.Level
		want      bool
	}{
		{"bridge", slog.LevelDebug, true},
		{"runtime", slog.LevelDebug, false},
		{"runtime", slog.LevelInfo, true},
		{"discovery", slog.LevelWarn, false},
		{"discovery", slog.LevelError, true},
	}
	for _, tc := range cases {
		if got := levels.logger(tc.component).Enabled(ctx, tc.level); got != tc.want {
			t.Fatalf("%s at %v: expected enabled=%v, got %v", tc.component, tc.level, tc.want, got)
		}
	}
}

func TestComponentLevelsOverrideAndFixedLogger(t *testing.T) {
	levels := newComponentLevels(config.Logging{Level: "info"}, "trace")
	if got := levels.floor(); got != "TRACE" {
		t.Fatalf("expected override to set floor, got %s", got)
	}
	nop := logging.NewNop()
	levels.base = nop
	levels.fixed = true
	if levels.logger("admin") != nop {
		t.Fatalf("expected caller-supplied logger returned as is")
	}
}
