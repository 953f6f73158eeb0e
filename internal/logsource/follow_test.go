package logsource_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"logbridge/internal/logsource"
)

type collected struct {
	mu       sync.Mutex
	messages []string
}

func (c *collected) add(e logsource.Entry) error {
	c.mu.Lock()
	c.messages = append(c.messages, e.Message)
	c.mu.Unlock()
	return nil
}

func (c *collected) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

func waitFor(t *testing.T, c *collected, n int) []string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if got := c.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d entries, got %v", n, c.snapshot())
	return nil
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString(line); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()
}

func TestFollowSkipsExistingContentByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.jsonl")
	appendLine(t, path, `{"logger":"a","message":"old","level":"INFO"}`+"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var got collected
	done := make(chan error, 1)
	go func() {
		done <- logsource.Follow(ctx, path, logsource.FollowOptions{Poll: 10 * time.Millisecond}, got.add)
	}()

	time.Sleep(50 * time.Millisecond)
	appendLine(t, path, `{"logger":"a","message":"new","level":"INFO"}`+"\n")
	messages := waitFor(t, &got, 1)
	if messages[0] != "new" {
		t.Fatalf("expected only appended entry, got %v", messages)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Follow: %v", err)
	}
}

func TestFollowHoldsPartialLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.jsonl")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var got collected
	go func() {
		_ = logsource.Follow(ctx, path, logsource.FollowOptions{FromStart: true, Poll: 10 * time.Millisecond}, got.add)
	}()

	appendLine(t, path, `{"logger":"a","message":"first","level":"INFO"}`+"\n"+`{"logger":"a","mess`)
	waitFor(t, &got, 1)
	time.Sleep(50 * time.Millisecond)
	if n := len(got.snapshot()); n != 1 {
		t.Fatalf("expected partial line to be held back, got %d entries", n)
	}

	appendLine(t, path, `age":"second","level":"INFO"}`+"\n")
	messages := waitFor(t, &got, 2)
	if messages[1] != "second" {
		t.Fatalf("expected completed line, got %v", messages)
	}
}

func TestFollowRereadsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.jsonl")
	appendLine(t, path, `{"logger":"a","message":"one","level":"INFO"}`+"\n"+`{"logger":"a","message":"two","level":"INFO"}`+"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var got collected
	go func() {
		_ = logsource.Follow(ctx, path, logsource.FollowOptions{FromStart: true, Poll: 10 * time.Millisecond}, got.add)
	}()
	waitFor(t, &got, 2)

	if err := os.WriteFile(path, []byte(`{"logger":"a","message":"rotated","level":"INFO"}`+"\n"), 0o644); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	messages := waitFor(t, &got, 3)
	if messages[2] != "rotated" {
		t.Fatalf("expected entry after truncation, got %v", messages)
	}
}
