package logging

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
)

func TestEventArchiveJournalsHubEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "events.jsonl")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("stale\n"), 0o644); err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	archive, err := NewEventArchive(path)
	if err != nil {
		t.Fatalf("NewEventArchive: %v", err)
	}
	hub := NewStreamHub(1)
	hub.AddSink(archive)
	hub.Publish(LogEvent{Level: "INFO", Message: "first", Logger: "a"})
	hub.Publish(LogEvent{Level: "WARN", Message: "second", Logger: "b"})
	if err := archive.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer file.Close()
	var events []LogEvent
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var evt LogEvent
		if err := json.Unmarshal(scanner.Bytes(), &evt); err != nil {
			t.Fatalf("decode %q: %v", scanner.Text(), err)
		}
		events = append(events, evt)
	}
	if len(events) != 2 {
		t.Fatalf("expected both events despite hub capacity 1, got %+v", events)
	}
	if events[0].Sequence != 1 || events[1].Message != "second" {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestEventArchiveDisabledForEmptyPath(t *testing.T) {
	archive, err := NewEventArchive("  ")
	if err != nil || archive != nil {
		t.Fatalf("expected nil archive, got %v %v", archive, err)
	}
	archive.Append(LogEvent{Message: "ignored"})
	if err := archive.Close(); err != nil {
		t.Fatalf("Close on nil archive: %v", err)
	}
}
