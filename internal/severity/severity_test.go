package severity

import (
	"testing"

	"logbridge/internal/admin"
	"logbridge/internal/logging"
)

func TestToBackend(t *testing.T) {
	tests := []struct {
		in   admin.Level
		want logging.Level
	}{
		{admin.LevelAudit, logging.LevelTrace},
		{admin.LevelTrace, logging.LevelTrace},
		{admin.LevelDebug, logging.LevelDebug},
		{admin.LevelInfo, logging.LevelInfo},
		{admin.LevelWarn, logging.LevelWarn},
		{admin.LevelError, logging.LevelError},
		{admin.Level(0), logging.LevelWarn},
		{admin.Level(99), logging.LevelWarn},
	}
	for _, tt := range tests {
		if got := ToBackend(tt.in); got != tt.want {
			t.Fatalf("ToBackend(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestToAdmin(t *testing.T) {
	tests := []struct {
		in   logging.Level
		want admin.Level
	}{
		{logging.LevelAll, admin.LevelTrace},
		{logging.LevelTrace, admin.LevelTrace},
		{logging.LevelDebug, admin.LevelDebug},
		{logging.LevelInfo, admin.LevelInfo},
		{logging.LevelWarn, admin.LevelWarn},
		{logging.LevelError, admin.LevelError},
		{logging.Level(3), admin.LevelWarn},
	}
	for _, tt := range tests {
		got, ok := ToAdmin(tt.in)
		if !ok || got != tt.want {
			t.Fatalf("ToAdmin(%s) = %s/%v, want %s", tt.in, got, ok, tt.want)
		}
	}
	if _, ok := ToAdmin(logging.LevelOff); ok {
		t.Fatal("OFF must not map to an admin level")
	}
}

func TestRoundTripStableForSharedLevels(t *testing.T) {
	for _, level := range []admin.Level{admin.LevelTrace, admin.LevelDebug, admin.LevelInfo, admin.LevelWarn, admin.LevelError} {
		back, ok := ToAdmin(ToBackend(level))
		if !ok || back != level {
			t.Fatalf("round trip of %s produced %s", level, back)
		}
	}
}
