package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

// EventArchive journals stream events as JSON lines so they outlive the
// hub's ring buffer.
type EventArchive struct {
	path string
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	err  error
}

// NewEventArchive truncates path and opens it for appending. An empty path
// disables archiving and returns nil.
func NewEventArchive(path string) (*EventArchive, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	if err := ensureLogDir(trimmed); err != nil {
		return nil, fmt.Errorf("ensure archive dir: %w", err)
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", trimmed, err)
	}
	return &EventArchive{path: trimmed, file: file, enc: json.NewEncoder(file)}, nil
}

// Append implements LogEventSink. The first write failure is kept for Close
// and later events are dropped.
func (a *EventArchive) Append(evt LogEvent) {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.enc == nil || a.err != nil {
		return
	}
	if err := a.enc.Encode(evt); err != nil {
		a.err = fmt.Errorf("write archive %s: %w", a.path, err)
	}
}

// Path returns the journal location.
func (a *EventArchive) Path() string {
	if a == nil {
		return ""
	}
	return a.path
}

// Close releases the file and reports any write failure seen earlier.
func (a *EventArchive) Close() error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return a.err
	}
	closeErr := a.file.Close()
	a.file = nil
	a.enc = nil
	if a.err != nil {
		return a.err
	}
	return closeErr
}
