package logsource

import (
	"strings"
	"sync"
	"testing"

	"logbridge/internal/admin"
)

type collector struct {
	mu      sync.Mutex
	entries []Entry
}

func (c *collector) Logged(entry Entry) {
	c.mu.Lock()
	c.entries = append(c.entries, entry)
	c.mu.Unlock()
}

func (c *collector) snapshot() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.entries...)
}

func TestReaderPublishReachesListeners(t *testing.T) {
	reader := NewReader("test", nil)
	first, second := &collector{}, &collector{}
	reader.AddListener(first)
	reader.AddListener(second)
	reader.AddListener(first)

	if reader.ListenerCount() != 2 {
		t.Fatalf("duplicate registration should be ignored, got %d", reader.ListenerCount())
	}

	reader.Publish(Entry{LoggerName: "a", Message: "hello", Level: admin.LevelInfo})
	if len(first.snapshot()) != 1 || len(second.snapshot()) != 1 {
		t.Fatal("every listener should receive the entry")
	}

	reader.RemoveListener(first)
	reader.RemoveListener(first)
	reader.Publish(Entry{LoggerName: "a", Message: "again"})
	if len(first.snapshot()) != 1 {
		t.Fatal("removed listener should not receive entries")
	}
	if len(second.snapshot()) != 2 {
		t.Fatal("remaining listener should receive entries")
	}
}

func TestReaderResetKeepsResistantListeners(t *testing.T) {
	reader := NewReader("test", nil)
	plain, resistant := &collector{}, &collector{}
	reader.AddListener(plain)
	reader.AddListener(resistant, ResetResistant())

	reader.Reset()
	reader.Publish(Entry{Message: "after reset"})

	if len(plain.snapshot()) != 0 {
		t.Fatal("plain listener should be dropped by reset")
	}
	if len(resistant.snapshot()) != 1 {
		t.Fatal("reset-resistant listener should survive")
	}
}

func TestFacadeStampsLocationAndThread(t *testing.T) {
	reader := NewReader("test", nil)
	sink := &collector{}
	reader.AddListener(sink)

	logger := reader.Logger("app.db", NamedComponent("com.example.db"))
	logger.Info("connected")
	logger.LogService(admin.LevelDebug, "registered", "svc-42")

	entries := sink.snapshot()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	got := entries[0]
	if got.LoggerName != "app.db" || got.Level != admin.LevelInfo || got.Component.SymbolicName() != "com.example.db" {
		t.Fatalf("unexpected entry %+v", got)
	}
	if got.Location == nil || !strings.HasSuffix(got.Location.Function, "TestFacadeStampsLocationAndThread") {
		t.Fatalf("expected call site of the test, got %+v", got.Location)
	}
	if got.ThreadInfo == "" {
		t.Fatal("expected thread info")
	}
	if entries[1].ServiceRef != "svc-42" {
		t.Fatalf("unexpected service ref %v", entries[1].ServiceRef)
	}
}

func TestDecodeEntries(t *testing.T) {
	input := strings.Join([]string{
		`{"logger":"a.b","message":"started","level":"info","component":"com.example","thread":"t-1"}`,
		``,
		`{"logger":"Events.Service","message":"svc","level":"bogus","service":{"id":7},"error":"boom","location":{"function":"main.run","file":"main.go","line":3}}`,
	}, "\n")

	var got []Entry
	err := DecodeEntries(strings.NewReader(input), func(e Entry) error {
		got = append(got, e)
		return nil
	})
	if err != nil {
		t.Fatalf("DecodeEntries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Level != admin.LevelInfo || got[0].Component.SymbolicName() != "com.example" || got[0].ThreadInfo != "t-1" {
		t.Fatalf("unexpected first entry %+v", got[0])
	}
	if got[0].Time.IsZero() {
		t.Fatal("missing time should default to now")
	}
	second := got[1]
	if second.Level != admin.LevelWarn {
		t.Fatalf("unknown level should decode as WARN, got %s", second.Level)
	}
	if second.Err == nil || second.Err.Error() != "boom" {
		t.Fatalf("unexpected error %v", second.Err)
	}
	if second.Location == nil || second.Location.Line != 3 {
		t.Fatalf("unexpected location %+v", second.Location)
	}
	if second.Component != nil {
		t.Fatal("absent component should stay nil")
	}
}

func TestDecodeEntriesReportsLine(t *testing.T) {
	err := DecodeEntries(strings.NewReader("{\"logger\":\"a\"}\nnot json\n"), func(Entry) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line number in error, got %v", err)
	}
}
