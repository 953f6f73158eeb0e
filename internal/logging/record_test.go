package logging

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		message string
		args    []any
		want    string
	}{
		{"plain", nil, "plain"},
		{"hello {}", []any{"world"}, "hello world"},
		{"{} and {}", []any{1}, "1 and {}"},
		{"{}", []any{1, 2}, "1"},
		{"no placeholder", []any{1}, "no placeholder"},
	}
	for _, tt := range tests {
		if got := FormatMessage(tt.message, tt.args); got != tt.want {
			t.Fatalf("FormatMessage(%q, %v) = %q, want %q", tt.message, tt.args, got, tt.want)
		}
	}
}

func TestCallerDataComputedOnce(t *testing.T) {
	var calls atomic.Int32
	rec := &Record{}
	rec.SetCallerDataFunc(func() []Frame {
		calls.Add(1)
		return []Frame{{Function: "main.main", File: "main.go", Line: 7}}
	})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if frames := rec.CallerData(); len(frames) != 1 {
				t.Errorf("unexpected frames %v", frames)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected a single capture, got %d", calls.Load())
	}
	if got := rec.CallerData()[0].String(); got != "main.main (main.go:7)" {
		t.Fatalf("unexpected frame rendering %q", got)
	}
}

func TestCallerDataWithoutProvider(t *testing.T) {
	if frames := (&Record{}).CallerData(); frames != nil {
		t.Fatalf("expected nil frames, got %v", frames)
	}
}

func captureThroughWrapper() []Frame {
	return CaptureCallerData("", []string{"logbridge/internal/logging.captureThroughWrapper"}, 2)
}

func TestCaptureCallerDataCutsFrameworkFrames(t *testing.T) {
	frames := captureThroughWrapper()
	if len(frames) == 0 {
		t.Fatal("expected caller frames")
	}
	if len(frames) > 2 {
		t.Fatalf("expected depth bound of 2, got %d", len(frames))
	}
	if !strings.HasSuffix(frames[0].Function, "TestCaptureCallerDataCutsFrameworkFrames") {
		t.Fatalf("expected test function as first frame, got %s", frames[0].Function)
	}
}

func captureBehindBoundary(framework []string) []Frame {
	return CaptureCallerData("logbridge/internal/logging.captureBehindBoundary", framework, 8)
}

func callThroughBoundary(framework []string) []Frame {
	return captureBehindBoundary(framework)
}

func TestCaptureCallerDataKeepsOuterFrameworkFrames(t *testing.T) {
	frames := callThroughBoundary([]string{"testing."})
	if len(frames) < 2 {
		t.Fatalf("expected caller frames, got %v", frames)
	}
	if !strings.HasSuffix(frames[0].Function, "callThroughBoundary") {
		t.Fatalf("expected first frame outside boundary, got %v", frames)
	}
	if !strings.HasSuffix(frames[1].Function, "TestCaptureCallerDataKeepsOuterFrameworkFrames") {
		t.Fatalf("expected producing test to survive a framework prefix further out, got %v", frames)
	}
}

func TestCaptureCallerDataSkipsFrameworkRunNextToBoundary(t *testing.T) {
	frames := callThroughBoundary([]string{"logbridge/internal/logging.callThroughBoundary"})
	if len(frames) == 0 {
		t.Fatal("expected caller frames")
	}
	if !strings.HasSuffix(frames[0].Function, "TestCaptureCallerDataSkipsFrameworkRunNextToBoundary") {
		t.Fatalf("expected adjacent framework frame to be skipped, got %v", frames)
	}
}

type codedError struct{ code int }

func (e *codedError) Error() string { return fmt.Sprintf("code %d", e.code) }

func TestThrowableProxyChain(t *testing.T) {
	if NewThrowableProxy(nil) != nil {
		t.Fatal("nil error should yield nil proxy")
	}
	err := fmt.Errorf("save: %w", &codedError{code: 7})
	proxy := NewThrowableProxy(err)
	if proxy.Message() != "save: code 7" {
		t.Fatalf("unexpected message %q", proxy.Message())
	}
	causes := proxy.Causes()
	if len(causes) != 2 {
		t.Fatalf("expected two causes, got %+v", causes)
	}
	if causes[1].Message != "code 7" {
		t.Fatalf("unexpected inner cause %+v", causes[1])
	}
	if proxy.Packaging() != nil {
		t.Fatal("packaging should be empty until calculated")
	}
	proxy.CalculatePackagingData()
	pkgs := proxy.Packaging()
	if len(pkgs) != 2 {
		t.Fatalf("expected packaging for each cause, got %+v", pkgs)
	}
	if pkgs[1].Package != "logbridge/internal/logging" {
		t.Fatalf("unexpected package %q", pkgs[1].Package)
	}
	if pkgs[0].Package != "fmt" {
		t.Fatalf("expected fmt wrapper package, got %q", pkgs[0].Package)
	}
	if !errors.Is(proxy.Err(), err) {
		t.Fatal("Err should return the wrapped error")
	}
}
