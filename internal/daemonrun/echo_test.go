package daemonrun

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestEchoStreamsBufferedAndLiveEvents(t *testing.T) {
	rt := startRuntime(t, false)
	defer rt.Close()

	if _, err := rt.Publish(strings.NewReader(`{"logger":"svc","message":"before","level":"INFO"}` + "\n")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := &lockedBuffer{}
	done := make(chan error, 1)
	go func() { done <- rt.Echo(ctx, out) }()

	if _, err := rt.Publish(strings.NewReader(`{"logger":"svc","message":"after","level":"WARN"}` + "\n")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), `"msg":"after"`) {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for echoed events, got %q", out.String())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Echo: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Echo did not return after cancel")
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 echoed lines, got %q", out.String())
	}
	if !strings.Contains(lines[0], `"msg":"before"`) || !strings.Contains(lines[0], `"seq":1`) {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"WARN"`) {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}
