package daemonrun

import (
	"context"
	"fmt"
	"io"

	"logbridge/internal/config"
	"logbridge/internal/logging"
	"logbridge/internal/logsource"
)

// Publish decodes JSON-lines entries from r and publishes each through the
// runtime's event source. It returns the number of entries published.
func (rt *Runtime) Publish(r io.Reader) (int, error) {
	count := 0
	err := logsource.DecodeEntries(r, func(entry logsource.Entry) error {
		rt.Source.Publish(entry)
		count++
		return nil
	})
	return count, err
}

// Follow publishes entries appended to the JSON-lines file at path until ctx
// ends.
func (rt *Runtime) Follow(ctx context.Context, path string, fromStart bool) error {
	return logsource.Follow(ctx, path, logsource.FollowOptions{FromStart: fromStart}, func(entry logsource.Entry) error {
		rt.Source.Publish(entry)
		return nil
	})
}

// IngestResult summarizes a one-shot ingest.
type IngestResult struct {
	Entries  int
	Bindings int
	Levels   []LevelRow
	// Events holds the stream events still buffered after the run.
	Events []logging.LogEvent
}

// Ingest builds a runtime, pushes every entry from r through it, captures the
// level view, and shuts down again.
func Ingest(ctx context.Context, cfg *config.Config, opts Options, r io.Reader) (IngestResult, error) {
	if cfg == nil {
		return IngestResult{}, fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return IngestResult{}, fmt.Errorf("ensure directories: %w", err)
	}
	rt, err := Build(ctx, cfg, opts)
	if err != nil {
		return IngestResult{}, err
	}
	defer rt.Close()
	if err := rt.Start(); err != nil {
		return IngestResult{}, err
	}
	count, err := rt.Publish(r)
	result := IngestResult{
		Entries:  count,
		Bindings: len(rt.Bindings()),
		Levels:   rt.Levels(),
	}
	result.Events, _ = rt.Hub.Tail(0)
	if err != nil {
		return result, fmt.Errorf("ingest after %d entries: %w", count, err)
	}
	return result, nil
}
