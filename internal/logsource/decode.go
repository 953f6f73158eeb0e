package logsource

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"logbridge/internal/admin"
	"logbridge/internal/logging"
)

// wireEntry is the JSON-lines form of an Entry.
type wireEntry struct {
	Logger    string         `json:"logger"`
	Message   string         `json:"message"`
	Level     string         `json:"level"`
	Error     string         `json:"error,omitempty"`
	Component string         `json:"component,omitempty"`
	Service   any            `json:"service,omitempty"`
	Time      time.Time      `json:"time,omitempty"`
	Thread    string         `json:"thread,omitempty"`
	Location  *logging.Frame `json:"location,omitempty"`
}

// remoteError carries an error message decoded from the wire.
type remoteError struct {
	message string
}

func (e *remoteError) Error() string { return e.message }

// maxLineBytes bounds a single JSON-lines record.
const maxLineBytes = 1 << 20

// DecodeEntries reads newline-delimited JSON entries from r and calls fn for
// each. Blank lines are skipped. Unknown level names decode as WARN. Decoding
// stops at the first malformed line or the first error returned by fn.
func DecodeEntries(r io.Reader, fn func(Entry) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var wire wireEntry
		if err := json.Unmarshal([]byte(raw), &wire); err != nil {
			return fmt.Errorf("decode entry on line %d: %w", line, err)
		}
		if err := fn(wire.entry()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("entry on line %d exceeds %d bytes: %w", line+1, maxLineBytes, err)
		}
		return fmt.Errorf("read entries: %w", err)
	}
	return nil
}

func (w wireEntry) entry() Entry {
	level, err := admin.ParseLevel(w.Level)
	if err != nil {
		level = admin.LevelWarn
	}
	entry := Entry{
		LoggerName: w.Logger,
		Message:    w.Message,
		Level:      level,
		ServiceRef: w.Service,
		Time:       w.Time,
		ThreadInfo: w.Thread,
		Location:   w.Location,
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	if w.Error != "" {
		entry.Err = &remoteError{message: w.Error}
	}
	if w.Component != "" {
		entry.Component = NamedComponent(w.Component)
	}
	return entry
}
